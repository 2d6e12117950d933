//go:build integration
// +build integration

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mattsolo1/grove-blockbook/pkg/blocks"
	"github.com/mattsolo1/grove-blockbook/pkg/persistence"
	"github.com/mattsolo1/grove-blockbook/pkg/service"
)

func TestIntegration(t *testing.T) {
	// Skip if not running integration tests
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=1 to run.")
	}

	ctx := context.Background()
	tmpDir := t.TempDir()
	config := &service.Config{
		DataDir:        filepath.Join(tmpDir, "data"),
		StorageBackend: service.BackendSQLite,
	}

	// Test 1: Legacy payload migrates on first load
	t.Run("LegacyMigration", func(t *testing.T) {
		storage, err := persistence.NewSQLiteStorage(config.DataDir)
		if err != nil {
			t.Fatalf("Failed to open storage: %v", err)
		}
		legacy := `{"blocks":{"3":{"type":"code","content":"flip()","orderingKey":1}}}`
		if err := storage.Set(ctx, persistence.DefaultKey, []byte(legacy)); err != nil {
			t.Fatalf("Failed to seed storage: %v", err)
		}
		storage.Close()

		svc, err := service.New(ctx, config, nil)
		if err != nil {
			t.Fatalf("Failed to create service: %v", err)
		}
		defer svc.Close()

		if !svc.LoadReport.Migrated() {
			t.Errorf("Expected legacy migration, got schema %s", svc.LoadReport.Schema)
		}
		if b, ok := svc.Editor.State().CurrentBlocks().Get(3); !ok || b.Content != "flip()" {
			t.Errorf("Legacy block not migrated: %+v", b)
		}
	})

	// Test 2: Edits survive a restart
	t.Run("EditAndReload", func(t *testing.T) {
		svc, err := service.New(ctx, config, nil)
		if err != nil {
			t.Fatalf("Failed to create service: %v", err)
		}
		if _, err := svc.Editor.CreateFileNamed(ctx, "Integration"); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
		if _, err := svc.Editor.AddBlock(ctx, blocks.KindText, "integration prose"); err != nil {
			t.Fatalf("Failed to add block: %v", err)
		}
		svc.Close()

		svc, err = service.New(ctx, config, nil)
		if err != nil {
			t.Fatalf("Failed to reopen service: %v", err)
		}
		defer svc.Close()

		if got := svc.Editor.State().Selected().Name; got != "Integration" {
			t.Errorf("Expected selected file Integration, got %q", got)
		}
		hits, err := svc.Search("integration", nil)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(hits) == 0 {
			t.Error("Expected search hits")
		}
	})

	// Test 3: Export and import round trip
	t.Run("ExportImport", func(t *testing.T) {
		svc, err := service.New(ctx, config, nil)
		if err != nil {
			t.Fatalf("Failed to create service: %v", err)
		}
		defer svc.Close()

		path, err := svc.Export(svc.Editor.State().SelectedID(), filepath.Join(tmpDir, "export"))
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		if _, err := svc.Editor.CreateFileNamed(ctx, "Scratch"); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
		if err := svc.Editor.LoadFile(ctx, 0); err != nil {
			t.Fatalf("Failed to select default: %v", err)
		}
		if _, err := svc.Import(ctx, path); err == nil {
			t.Error("Expected duplicate name error importing an existing title")
		}
	})
}
