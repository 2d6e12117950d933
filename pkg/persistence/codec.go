package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
	"github.com/mattsolo1/grove-blockbook/pkg/ident"
	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

type wireBlock struct {
	Type        string `json:"type"`
	Content     string `json:"content"`
	OrderingKey int    `json:"orderingKey"`
}

type wireFile struct {
	Name   string               `json:"name"`
	Blocks map[string]wireBlock `json:"blocks"`
}

type wireState struct {
	SelectedFileID   int                 `json:"selectedFileId"`
	DocumentViewOpen bool                `json:"documentViewOpen"`
	Files            map[string]wireFile `json:"files"`
}

// storedState accepts both schemas. The browser editor wrote the selection as
// "selectedFile", sometimes as a string, and the view flag as
// "markdownOutputOpen"; those spellings are still read. Files and blocks stay
// raw so one unreadable entry does not take the rest of the payload with it.
type storedState struct {
	SelectedFileID *flexInt                   `json:"selectedFileId"`
	SelectedFile   *flexInt                   `json:"selectedFile"`
	Files          map[string]json.RawMessage `json:"files"`
	Blocks         map[string]json.RawMessage `json:"blocks"`
}

type storedFile struct {
	Name   json.RawMessage            `json:"name"`
	Blocks map[string]json.RawMessage `json:"blocks"`
}

type storedBlock struct {
	Type        json.RawMessage `json:"type"`
	Content     json.RawMessage `json:"content"`
	OrderingKey *flexInt        `json:"orderingKey"`
}

// flexInt decodes a JSON number or a numeric string.
type flexInt struct {
	value int
	valid bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f.value, f.valid = ident.Parse(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return nil
	}
	v, err := strconv.Atoi(n.String())
	f.value, f.valid = v, err == nil
	return nil
}

// Encode serialises a snapshot in the current schema.
func Encode(s *store.State) ([]byte, error) {
	out := wireState{
		SelectedFileID:   s.SelectedID(),
		DocumentViewOpen: s.DocumentViewOpen(),
		Files:            make(map[string]wireFile, s.Len()),
	}
	for _, info := range s.Files() {
		f, _ := s.File(info.ID)
		wf := wireFile{Name: f.Name, Blocks: make(map[string]wireBlock, f.Blocks.Len())}
		for _, b := range f.Blocks.Ordered() {
			wf.Blocks[ident.Format(b.ID)] = wireBlock{
				Type:        b.Kind.String(),
				Content:     b.Content,
				OrderingKey: b.OrderingKey,
			}
		}
		out.Files[ident.Format(f.ID)] = wf
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode editor state: %w", err)
	}
	return data, nil
}

// Decode parses a stored payload. Legacy single-file payloads are migrated
// into the default file. Whatever cannot be read is dropped and recorded in
// the report; the returned state always satisfies the store invariants and
// has the document view closed.
func Decode(data []byte) (*store.State, *Report, error) {
	report := &Report{Schema: SchemaCurrent}

	var raw storedState
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}

	files := raw.Files
	selected := raw.SelectedFileID
	if selected == nil {
		selected = raw.SelectedFile
	}

	if files == nil {
		if raw.Blocks == nil {
			return nil, nil, fmt.Errorf("%w: neither files nor blocks present", ErrCorruptPayload)
		}
		report.Schema = SchemaLegacy
		legacy, err := json.Marshal(storedFile{
			Name:   json.RawMessage(strconv.Quote(store.DefaultFileName)),
			Blocks: raw.Blocks,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
		}
		files = map[string]json.RawMessage{ident.Format(store.DefaultFileID): legacy}
		selected = &flexInt{value: store.DefaultFileID, valid: true}
	}

	decoded := make([]store.File, 0, len(files))
	seen := make(map[int]string, len(files))
	hasDefault := false
	for _, key := range sortedKeys(files) {
		field := "files." + key
		id, ok := ident.Parse(key)
		if !ok {
			report.add(IssueMalformedFileKey, field, "file dropped: key is not an integer")
			continue
		}
		if first, dup := seen[id]; dup {
			report.add(IssueMalformedFileKey, field,
				fmt.Sprintf("file dropped: duplicate id after normalisation, %q kept", first))
			continue
		}
		var sf storedFile
		if err := json.Unmarshal(files[key], &sf); err != nil {
			report.add(IssueMalformedFile, field, "file dropped: "+err.Error())
			continue
		}
		seen[id] = key

		var name string
		if len(sf.Name) > 0 {
			_ = json.Unmarshal(sf.Name, &name)
		}
		name = store.CleanName(name)
		if name == "" {
			name = fmt.Sprintf("Untitled %d", id)
			if id == store.DefaultFileID {
				name = store.DefaultFileName
			}
			report.add(IssueEmptyFileName, field+".name", "empty name replaced with "+strconv.Quote(name))
		}
		coll := decodeBlocks(sf.Blocks, field+".blocks", report)
		decoded = append(decoded, store.File{ID: id, Name: name, Blocks: coll})
		report.Blocks += coll.Len()
		if id == store.DefaultFileID {
			hasDefault = true
		}
	}
	if !hasDefault {
		report.add(IssueMissingDefault, "files.0", "default file recreated")
		decoded = append(decoded, store.File{ID: store.DefaultFileID, Name: store.DefaultFileName, Blocks: blocks.New()})
	}
	report.Files = len(decoded)

	selectedID := store.DefaultFileID
	if selected != nil && selected.valid {
		selectedID = selected.value
	}
	present := false
	for _, f := range decoded {
		if f.ID == selectedID {
			present = true
			break
		}
	}
	if !present {
		report.add(IssueDanglingSelection, "selectedFileId",
			fmt.Sprintf("selected file %d does not exist, default file selected", selectedID))
		selectedID = store.DefaultFileID
	}

	s, err := store.New(selectedID, false, decoded...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	return s, report, nil
}

// decodeBlocks reads one file's block map. Blocks whose ordering key cannot
// be read are kept and placed after the readable ones.
func decodeBlocks(in map[string]json.RawMessage, field string, report *Report) *blocks.Collection {
	list := make([]blocks.Block, 0, len(in))
	var unplaced []blocks.Block
	seen := make(map[int]string, len(in))
	highest := -1
	for _, key := range sortedKeys(in) {
		at := field + "." + key
		id, ok := ident.Parse(key)
		if !ok {
			report.add(IssueMalformedBlockKey, at, "block dropped: key is not an integer")
			continue
		}
		if first, dup := seen[id]; dup {
			report.add(IssueMalformedBlockKey, at,
				fmt.Sprintf("block dropped: duplicate id after normalisation, %q kept", first))
			continue
		}
		var sb storedBlock
		if err := json.Unmarshal(in[key], &sb); err != nil {
			report.add(IssueMalformedBlock, at, "block skipped: "+err.Error())
			continue
		}
		var typ string
		if err := json.Unmarshal(sb.Type, &typ); err != nil {
			report.add(IssueUnknownBlockType, at+".type", "block skipped: type is not a string")
			continue
		}
		kind, err := blocks.ParseKind(typ)
		if err != nil {
			report.add(IssueUnknownBlockType, at+".type", "block skipped: "+err.Error())
			continue
		}
		var content string
		if len(sb.Content) > 0 && string(sb.Content) != "null" {
			if err := json.Unmarshal(sb.Content, &content); err != nil {
				report.add(IssueMalformedBlock, at+".content", "block skipped: content is not a string")
				continue
			}
		}
		seen[id] = key

		b := blocks.Block{ID: id, Kind: kind, Content: content}
		switch {
		case sb.OrderingKey == nil:
		case !sb.OrderingKey.valid:
			report.add(IssueMalformedBlock, at+".orderingKey", "ordering key is not an integer, block moved to the end")
			unplaced = append(unplaced, b)
			continue
		default:
			b.OrderingKey = sb.OrderingKey.value
		}
		if b.OrderingKey > highest {
			highest = b.OrderingKey
		}
		list = append(list, b)
	}
	for _, b := range unplaced {
		highest++
		b.OrderingKey = highest
		list = append(list, b)
	}
	coll := blocks.New(list...)
	if err := coll.Validate(); err != nil {
		report.add(IssueDuplicateOrdering, field, "ordering keys renumbered: "+err.Error())
		coll = coll.Rekey()
	}
	return coll
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aok := ident.Parse(keys[i])
		b, bok := ident.Parse(keys[j])
		if aok && bok && a != b {
			return a < b
		}
		if aok && bok {
			// Canonical spelling first so "3" wins over "03".
			ac, bc := keys[i] == ident.Format(a), keys[j] == ident.Format(b)
			if ac != bc {
				return ac
			}
		}
		if aok != bok {
			return aok
		}
		return strings.Compare(keys[i], keys[j]) < 0
	})
	return keys
}
