package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"breach-tactics/server/config"
	"breach-tactics/server/models"
)

const sampleState = "0 M\n  1\n\nT,1,0,5,3,3\nS,0,1,3,2,1"

func sampleSave(name string) *models.SavedGame {
	return &models.SavedGame{
		Name:    name,
		Level:   "level1",
		State:   sampleState,
		Turn:    4,
		SavedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func exerciseStore(t *testing.T, s Storage) {
	t.Helper()

	if _, err := s.LoadGame("missing"); !errors.Is(err, ErrSaveNotFound) {
		t.Fatalf("LoadGame(missing) err = %v, want ErrSaveNotFound", err)
	}

	if err := s.SaveGame(sampleSave("beta")); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if err := s.SaveGame(sampleSave("alpha")); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	got, err := s.LoadGame("alpha")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	want := sampleSave("alpha")
	if got.State != want.State || got.Level != want.Level || got.Turn != want.Turn || !got.SavedAt.Equal(want.SavedAt) {
		t.Fatalf("LoadGame = %+v, want %+v", got, want)
	}

	// overwrite keeps one entry per name
	again := sampleSave("alpha")
	again.Turn = 9
	if err := s.SaveGame(again); err != nil {
		t.Fatalf("SaveGame overwrite: %v", err)
	}
	got, err = s.LoadGame("alpha")
	if err != nil || got.Turn != 9 {
		t.Fatalf("after overwrite got %+v err %v", got, err)
	}

	names, err := s.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"alpha", "beta"}) {
		t.Fatalf("ListGames = %v", names)
	}
}

func TestJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.json")
	s, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	exerciseStore(t, s)

	reopened, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.LoadGame("beta")
	if err != nil || got.State != sampleState {
		t.Fatalf("reopened LoadGame = %+v, %v", got, err)
	}
}

func TestJSONStore_ConcurrentSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.json")
	s, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}

	const n = 100
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.SaveGame(sampleSave(fmt.Sprintf("s%d", i)))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("SaveGame: %v", err)
		}
	}

	reopened, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	names, err := reopened.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(names) != n {
		t.Fatalf("persisted %d saves, want %d", len(names), n)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "saves.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	s, err := NewPostgresStore(dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	defer s.Close()
	if _, err := s.db.Exec(`DELETE FROM saved_games WHERE name IN ('alpha', 'beta')`); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(config.StorageConfig{Driver: "sqlite", Path: filepath.Join(dir, "a.db")})
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	if _, ok := s.(*SQLiteStore); !ok {
		t.Fatalf("Open sqlite returned %T", s)
	}
	s.Close()

	s, err = Open(config.StorageConfig{Driver: "json", Path: filepath.Join(dir, "a.json")})
	if err != nil {
		t.Fatalf("Open json: %v", err)
	}
	if _, ok := s.(*JSONStore); !ok {
		t.Fatalf("Open json returned %T", s)
	}

	if _, err := Open(config.StorageConfig{Driver: "mongo"}); err == nil {
		t.Fatal("unknown driver accepted")
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plain.sav", "packed.sav.zst"} {
		path := filepath.Join(dir, name)
		want := sampleSave(name)
		if err := WriteArchive(path, want); err != nil {
			t.Fatalf("WriteArchive(%s): %v", name, err)
		}
		got, err := ReadArchive(path)
		if err != nil {
			t.Fatalf("ReadArchive(%s): %v", name, err)
		}
		if got.Name != want.Name || got.State != want.State || got.Turn != want.Turn || !got.SavedAt.Equal(want.SavedAt) {
			t.Fatalf("%s: got %+v, want %+v", name, got, want)
		}
	}

	plain, err := os.ReadFile(filepath.Join(dir, "plain.sav"))
	if err != nil {
		t.Fatalf("read plain: %v", err)
	}
	packed, err := os.ReadFile(filepath.Join(dir, "packed.sav.zst"))
	if err != nil {
		t.Fatalf("read packed: %v", err)
	}
	if reflect.DeepEqual(plain, packed) {
		t.Fatal("zst archive was not compressed")
	}
}

func TestReadArchive_MissingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sav")
	if err := os.WriteFile(path, []byte("no newline"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadArchive(path); err == nil {
		t.Fatal("headerless archive accepted")
	}
}
