package localstore

import (
	"path/filepath"
	"testing"
)

func TestSQLiteStoreCRUD(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := s.Get("missing"); err != ErrNotFound {
		t.Fatalf("missing key: got %v, want ErrNotFound", err)
	}

	if err := s.Set("auth_session", []byte(`{"token":"abc"}`)); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get("auth_session")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"token":"abc"}` {
		t.Fatalf("unexpected value: %s", got)
	}

	// 覆盖写 / overwrite
	if err := s.Set("auth_session", []byte(`{"token":"def"}`)); err != nil {
		t.Fatal(err)
	}
	got, err = s.Get("auth_session")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"token":"def"}` {
		t.Fatalf("overwrite failed: %s", got)
	}

	if err := s.Delete("auth_session"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get("auth_session"); err != ErrNotFound {
		t.Fatalf("deleted key: got %v, want ErrNotFound", err)
	}
	// 删除不存在的键不报错 / deleting an absent key is fine
	if err := s.Delete("auth_session"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("auth_user", []byte(`{"id":"u1","email":"a@b.com"}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	got, err := reopened.Get("auth_user")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"id":"u1","email":"a@b.com"}` {
		t.Fatalf("value lost across reopen: %s", got)
	}
}

func TestSQLiteStoreEmptyPath(t *testing.T) {
	if _, err := NewSQLiteStore("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
