package persistence

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
	"github.com/mattsolo1/grove-blockbook/pkg/store"
)

func newTestPersister(storage Storage) (*Persister, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewPersister(storage, "", logrus.NewEntry(logger)), hook
}

func TestLoadWithoutPayloadUsesDefault(t *testing.T) {
	p, _ := newTestPersister(NewMemoryStorage())
	assert.Equal(t, DefaultKey, p.Key())

	s, report, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SchemaDefault, report.Schema)
	assert.Equal(t, store.Default().Files(), s.Files())
	assert.Equal(t, store.Default().CurrentBlocks().Ordered(), s.CurrentBlocks().Ordered())
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()
	p, _ := newTestPersister(mem)

	s, _, err := store.Default().CreateFile("notes")
	require.NoError(t, err)
	coll, _ := s.CurrentBlocks().Add(blocks.KindText, "hello")
	s = s.WithCurrentBlocks(coll).WithDocumentView(true)

	require.NoError(t, p.Save(ctx, s))
	assert.Equal(t, 1, mem.Writes())

	loaded, _, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.SelectedID(), loaded.SelectedID())
	assert.False(t, loaded.DocumentViewOpen())
	assert.Equal(t, s.CurrentBlocks().Ordered(), loaded.CurrentBlocks().Ordered())
}

func TestLoadLegacyLogsMigration(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()
	require.NoError(t, mem.Set(ctx, DefaultKey, []byte(`{"blocks":{"1":{"type":"text","content":"hi","orderingKey":0}}}`)))

	p, hook := newTestPersister(mem)
	s, report, err := p.Load(ctx)
	require.NoError(t, err)
	assert.True(t, report.Migrated())
	assert.Equal(t, "Default", s.Selected().Name)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Migrated legacy single-file state", hook.LastEntry().Message)
}

func TestLoadCorruptKeepsBackup(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()
	require.NoError(t, mem.Set(ctx, DefaultKey, []byte(`{broken`)))

	p, hook := newTestPersister(mem)
	s, report, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Default().Files(), s.Files())
	require.Len(t, report.Issues, 1)
	assert.Equal(t, IssueCorruptPayload, report.Issues[0].Type)

	backup, err := mem.Get(ctx, DefaultKey+".corrupt")
	require.NoError(t, err)
	assert.Equal(t, `{broken`, string(backup))
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
