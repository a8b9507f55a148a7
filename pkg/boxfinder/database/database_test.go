package database

import (
	"path/filepath"
	"testing"

	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
)

func TestOpenInMemory(t *testing.T) {
	db, err := Open(":memory:", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer Close(db)

	for _, table := range []string{"boxes", "members"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table %s to exist", table)
		}
	}

	sqlDB, _ := db.DB()
	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("Expected in-memory database to use a single connection, got %d", got)
	}
}

func TestOpenFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxfinder.db")

	db, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := db.Create(&models.Box{ID: "box-1", Name: "Iron Yard"}).Error; err != nil {
		t.Fatalf("Failed to create box: %v", err)
	}
	Close(db)

	db, err = Open(path, nil)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer Close(db)

	var count int64
	db.Model(&models.Box{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 box after reopen, got %d", count)
	}
}
