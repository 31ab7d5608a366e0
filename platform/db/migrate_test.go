package db

import (
	"regexp"
	"testing"

	"github.com/pressly/goose/v3"
)

func TestEmbeddedMigrationsAreCollected(t *testing.T) {
	goose.SetBaseFS(migrations)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	collected, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		t.Fatalf("collect migrations: %v", err)
	}
	if len(collected) == 0 || collected[0].Version != 1 {
		t.Fatalf("expected the contacts migration at version 1, got %v", collected)
	}
}

func TestContactsMigrationUsesWideRemoteIdentifiers(t *testing.T) {
	raw, err := migrations.ReadFile(migrationsDir + "/00001_ubiflow_contacts.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	for _, column := range []string{"remote_id", "portal_id"} {
		if !regexp.MustCompile(`(?m)^\s*` + column + `\s+BIGINT,`).Match(raw) {
			t.Fatalf("expected %s to be BIGINT", column)
		}
	}
	if !regexp.MustCompile(`(?m)^\s*created_at_estimated\s+BOOLEAN NOT NULL DEFAULT false,`).Match(raw) {
		t.Fatal("expected created_at_estimated column")
	}
}
