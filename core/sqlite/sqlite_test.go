package sqlite

import (
	"path/filepath"
	"testing"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	if info.DriverName != DriverName() || info.DriverType != DriverType() || info.IsCGO != IsCGO() {
		t.Errorf("GetInfo() = %+v, inconsistent with accessors", info)
	}
	if info.Package == "" {
		t.Error("Package should not be empty")
	}

	switch info.DriverType {
	case "purego":
		if info.DriverName != "sqlite" || info.IsCGO {
			t.Errorf("purego driver reports %+v", info)
		}
	case "cgo":
		if info.DriverName != "sqlite3" || !info.IsCGO {
			t.Errorf("cgo driver reports %+v", info)
		}
	default:
		t.Errorf("unknown driver type: %s", info.DriverType)
	}
}

func createModels(t *testing.T, path string) {
	t.Helper()
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE models (path TEXT PRIMARY KEY, version INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO models VALUES (?, ?)`, "units/footman.mdx", 800); err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	createModels(t, path)

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	var version int
	if err := db.QueryRow(`SELECT version FROM models WHERE path = ?`, "units/footman.mdx").Scan(&version); err != nil {
		t.Fatalf("query: %v", err)
	}
	if version != 800 {
		t.Errorf("version = %d, want 800", version)
	}
}

func TestOpenReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	createModels(t, path)

	db, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly() error = %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM models`).Scan(&n); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 1 {
		t.Errorf("COUNT(*) = %d, want 1", n)
	}
	if _, err := db.Exec(`INSERT INTO models VALUES ('x.mdx', 900)`); err == nil {
		t.Error("insert into read-only database should fail")
	}
}
