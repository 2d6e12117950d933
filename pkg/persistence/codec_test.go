package persistence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

func TestEncodeDefault(t *testing.T) {
	data, err := Encode(store.Default())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"selectedFileId": 0,
		"documentViewOpen": false,
		"files": {
			"0": {
				"name": "Default",
				"blocks": {
					"1": {"type": "text", "content": "*Click here* to edit me!", "orderingKey": 1},
					"2": {"type": "code", "content": "print(\"hello world!\")", "orderingKey": 2}
				}
			}
		}
	}`, string(data))
}

func TestEncodeDecodeKeepsState(t *testing.T) {
	s, f, err := store.Default().CreateFile("second")
	require.NoError(t, err)
	coll, _ := f.Blocks.Add(blocks.KindCode, "x <- 1")
	s, err = s.WithBlocks(f.ID, coll)
	require.NoError(t, err)
	s = s.WithDocumentView(true)

	data, err := Encode(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"documentViewOpen":true`)

	got, report, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, SchemaCurrent, report.Schema)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 3, report.Blocks)

	assert.Equal(t, f.ID, got.SelectedID())
	assert.False(t, got.DocumentViewOpen(), "view flag is never restored as open")
	assert.Equal(t, s.Files(), got.Files())
	for _, info := range s.Files() {
		want, _ := s.File(info.ID)
		have, _ := got.File(info.ID)
		assert.Equal(t, want.Blocks.Ordered(), have.Blocks.Ordered())
	}
}

func TestDecodeLegacy(t *testing.T) {
	s, report, err := Decode([]byte(`{"blocks":{"1":{"type":"text","content":"hi","orderingKey":0}}}`))
	require.NoError(t, err)
	assert.True(t, report.Migrated())

	f, ok := s.File(0)
	require.True(t, ok)
	assert.Equal(t, "Default", f.Name)
	assert.Equal(t, 0, s.SelectedID())
	assert.False(t, s.DocumentViewOpen())
	assert.Equal(t, []blocks.Block{{ID: 1, Kind: blocks.KindText, Content: "hi", OrderingKey: 0}}, f.Blocks.Ordered())
	assert.Equal(t, 1, s.Len())
}

func TestDecodeBrowserSpellings(t *testing.T) {
	payload := `{
		"selectedFile": "1",
		"markdownOutputOpen": true,
		"files": {
			"0": {"name": "Default", "blocks": {}},
			"1": {"name": "model", "blocks": {"0": {"type": "code", "content": "flip()", "orderingKey": 0}}}
		}
	}`
	s, report, err := Decode([]byte(payload))
	require.NoError(t, err)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 1, s.SelectedID())
	assert.False(t, s.DocumentViewOpen())
	assert.Equal(t, 1, s.CurrentBlocks().Len())
}

func TestDecodeRepairs(t *testing.T) {
	payload := `{
		"selectedFileId": 9,
		"documentViewOpen": true,
		"files": {
			"new": {"name": "junk", "blocks": {}},
			"3": {"name": "  ", "blocks": {
				"x": {"type": "text", "content": "bad key", "orderingKey": 0},
				"1": {"type": "image", "content": "future", "orderingKey": 1},
				"2": {"type": "text", "content": "a", "orderingKey": 4},
				"4": {"type": "code", "content": "b", "orderingKey": 4}
			}}
		}
	}`
	s, report, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	types := map[string]bool{}
	for _, issue := range report.Issues {
		types[issue.Type] = true
	}
	assert.True(t, types[IssueMalformedFileKey])
	assert.True(t, types[IssueMalformedBlockKey])
	assert.True(t, types[IssueUnknownBlockType])
	assert.True(t, types[IssueDuplicateOrdering])
	assert.True(t, types[IssueMissingDefault])
	assert.True(t, types[IssueDanglingSelection])
	assert.True(t, types[IssueEmptyFileName])

	assert.Equal(t, 0, s.SelectedID())
	assert.Equal(t, []store.FileInfo{{ID: 0, Name: "Default"}, {ID: 3, Name: "Untitled 3"}}, s.Files())

	f, _ := s.File(3)
	assert.Equal(t, []int{2, 4}, f.Blocks.IDs())
}

func TestDecodeCorrupt(t *testing.T) {
	for _, payload := range []string{``, `not json`, `[]`, `{}`, `{"selectedFileId": 0}`} {
		_, _, err := Decode([]byte(payload))
		assert.True(t, errors.Is(err, ErrCorruptPayload), "payload %q: %v", payload, err)
	}
}

func issueFields(report *Report, typ string) []string {
	var fields []string
	for _, issue := range report.Issues {
		if issue.Type == typ {
			fields = append(fields, issue.Field)
		}
	}
	return fields
}

func TestDecodeKeepsSiblingsOfMalformedBlock(t *testing.T) {
	payload := `{
		"selectedFileId": 3,
		"files": {
			"0": {"name": "Default", "blocks": {"1": {"type": "text", "content": "home", "orderingKey": 0}}},
			"3": {"name": "Work", "blocks": {
				"1": {"type": "text", "content": "first", "orderingKey": 0},
				"2": {"type": "code", "content": "second", "orderingKey": "1"},
				"5": {"type": "text", "content": 42, "orderingKey": 2},
				"6": "not a block"
			}}
		}
	}`
	s, report, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, 3, s.SelectedID())
	assert.Equal(t, []store.FileInfo{{ID: 0, Name: "Default"}, {ID: 3, Name: "Work"}}, s.Files())
	assert.Equal(t, []blocks.Block{
		{ID: 1, Kind: blocks.KindText, Content: "first", OrderingKey: 0},
		{ID: 2, Kind: blocks.KindCode, Content: "second", OrderingKey: 1},
	}, s.CurrentBlocks().Ordered())
	assert.ElementsMatch(t, []string{"files.3.blocks.5.content", "files.3.blocks.6"}, issueFields(report, IssueMalformedBlock))
	assert.Equal(t, 3, report.Blocks)
}

func TestDecodeLegacyFractionalOrderingKey(t *testing.T) {
	payload := `{"blocks": {
		"1": {"type": "text", "content": "odd", "orderingKey": 1.5},
		"2": {"type": "code", "content": "even", "orderingKey": 0}
	}}`
	s, report, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	assert.True(t, report.Migrated())

	assert.Equal(t, []blocks.Block{
		{ID: 2, Kind: blocks.KindCode, Content: "even", OrderingKey: 0},
		{ID: 1, Kind: blocks.KindText, Content: "odd", OrderingKey: 1},
	}, s.CurrentBlocks().Ordered())
	assert.Equal(t, []string{"files.0.blocks.1.orderingKey"}, issueFields(report, IssueMalformedBlock))
}

func TestDecodeDuplicateNormalisedKeys(t *testing.T) {
	payload := `{
		"selectedFileId": 0,
		"files": {
			"0": {"name": "Default", "blocks": {
				"03": {"type": "text", "content": "padded", "orderingKey": 1},
				"3": {"type": "text", "content": "plain", "orderingKey": 0}
			}},
			"7": {"name": "seven", "blocks": {}},
			"007": {"name": "padded seven", "blocks": {}}
		}
	}`
	s, report, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, []blocks.Block{{ID: 3, Kind: blocks.KindText, Content: "plain", OrderingKey: 0}}, s.CurrentBlocks().Ordered())
	assert.Equal(t, []string{"files.0.blocks.03"}, issueFields(report, IssueMalformedBlockKey))

	assert.Equal(t, []store.FileInfo{{ID: 0, Name: "Default"}, {ID: 7, Name: "seven"}}, s.Files())
	assert.Equal(t, []string{"files.007"}, issueFields(report, IssueMalformedFileKey))
}
