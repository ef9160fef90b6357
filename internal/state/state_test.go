package state

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/llehouerou/wavestream/internal/playlist"
)

// setupTestDB creates an in-memory SQLite database with the schema initialized.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func openTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := migrate(db); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	version, err := schemaVersion(db)
	if err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("version = %d, want %d", version, len(migrations))
	}
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.Exec(`PRAGMA user_version = 99`); err != nil {
		t.Fatalf("set version: %v", err)
	}
	if err := migrate(db); err == nil {
		t.Error("migrate() on a newer schema should fail")
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := m.SaveVolume(0.4); err != nil {
		t.Fatalf("SaveVolume failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()
	p, err := m.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if p.Volume != 0.4 {
		t.Errorf("Volume = %v after reopen, want 0.4", p.Volume)
	}
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.db")
	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()

	if err := m.SaveVolume(0.3); err != nil {
		t.Fatalf("SaveVolume failed: %v", err)
	}
}

func TestLoadPreferences_Defaults(t *testing.T) {
	m := openTestManager(t)

	prefs, err := m.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if prefs != DefaultPreferences() {
		t.Errorf("prefs = %+v, want defaults", prefs)
	}
}

func TestSaveAndLoadPreferences(t *testing.T) {
	m := openTestManager(t)

	if err := m.SaveVolume(0.7); err != nil {
		t.Fatalf("SaveVolume failed: %v", err)
	}
	if err := m.SaveVolume(0.45); err != nil {
		t.Fatalf("SaveVolume failed: %v", err)
	}
	if err := m.SaveModes(true, 2); err != nil {
		t.Fatalf("SaveModes failed: %v", err)
	}

	prefs, err := m.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	want := Preferences{Volume: 0.45, Shuffle: true, Repeat: 2}
	if prefs != want {
		t.Errorf("prefs = %+v, want %+v", prefs, want)
	}
}

func TestLoadPreferences_IgnoresGarbage(t *testing.T) {
	m := openTestManager(t)

	if err := setPreference(m.db, prefVolume, "loud"); err != nil {
		t.Fatalf("setPreference failed: %v", err)
	}
	if err := setPreference(m.db, prefShuffle, "maybe"); err != nil {
		t.Fatalf("setPreference failed: %v", err)
	}

	prefs, err := m.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if prefs.Volume != 1.0 || prefs.Shuffle {
		t.Errorf("prefs = %+v, want defaults for unparsable values", prefs)
	}
}

func TestRecordPlay_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	m := &Manager{db: db}

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		tr := playlist.Track{ID: id, Title: "T" + id, Artist: "Artist"}
		if err := recordPlay(db, tr, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("recordPlay failed: %v", err)
		}
	}

	got, err := m.RecentlyPlayed(2)
	if err != nil {
		t.Fatalf("RecentlyPlayed failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].TrackID != "c" || got[1].TrackID != "b" {
		t.Errorf("order = [%s %s], want [c b]", got[0].TrackID, got[1].TrackID)
	}
	if got[0].Artist != "Artist" || got[0].Album != "" {
		t.Errorf("entry = %+v", got[0])
	}
	if !got[0].PlayedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("PlayedAt = %v, want %v", got[0].PlayedAt, base.Add(2*time.Minute))
	}
}

func TestRecordPlay_Capped(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	m := &Manager{db: db}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range maxRecentlyPlayed + 10 {
		if err := recordPlay(db, playlist.Track{ID: "t", Title: "t"}, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("recordPlay failed: %v", err)
		}
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM recently_played`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != maxRecentlyPlayed {
		t.Errorf("count = %d, want %d", count, maxRecentlyPlayed)
	}

	got, err := m.RecentlyPlayed(1)
	if err != nil {
		t.Fatalf("RecentlyPlayed failed: %v", err)
	}
	want := base.Add(time.Duration(maxRecentlyPlayed+9) * time.Second)
	if !got[0].PlayedAt.Equal(want) {
		t.Errorf("newest = %v, want %v", got[0].PlayedAt, want)
	}
}

func TestGetQueue_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	qs, err := getQueue(db)
	if err != nil {
		t.Fatalf("getQueue failed: %v", err)
	}
	if qs.CurrentIndex != -1 || len(qs.Tracks) != 0 {
		t.Errorf("queue = %+v, want empty with index -1", qs)
	}
}

func TestSaveAndGetQueue(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tracks := []playlist.Track{
		{ID: "a", Title: "A", Artist: "X", Album: "L", ArtworkURL: "https://img/a", Duration: 90 * time.Second},
		{ID: "b", Title: "B"},
	}
	if err := saveQueue(db, NewQueueState(tracks, 1)); err != nil {
		t.Fatalf("saveQueue failed: %v", err)
	}

	qs, err := getQueue(db)
	if err != nil {
		t.Fatalf("getQueue failed: %v", err)
	}
	if qs.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1", qs.CurrentIndex)
	}
	got := qs.PlaylistTracks()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != tracks[0] || got[1] != tracks[1] {
		t.Errorf("tracks = %+v, want %+v", got, tracks)
	}

	// Saving again replaces the previous queue.
	if err := saveQueue(db, NewQueueState(tracks[:1], 0)); err != nil {
		t.Fatalf("saveQueue failed: %v", err)
	}
	qs, err = getQueue(db)
	if err != nil {
		t.Fatalf("getQueue failed: %v", err)
	}
	if len(qs.Tracks) != 1 || qs.CurrentIndex != 0 {
		t.Errorf("queue = %+v, want one track at index 0", qs)
	}
}

func TestGetQueue_ClampsIndex(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := saveQueue(db, NewQueueState([]playlist.Track{{ID: "a", Title: "A"}}, 7)); err != nil {
		t.Fatalf("saveQueue failed: %v", err)
	}
	qs, err := getQueue(db)
	if err != nil {
		t.Fatalf("getQueue failed: %v", err)
	}
	if qs.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", qs.CurrentIndex)
	}
}

func TestScheduleQueueSave_FlushedOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.db")
	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	m.ScheduleQueueSave(NewQueueState([]playlist.Track{{ID: "a", Title: "A"}}, 0))
	m.ScheduleQueueSave(NewQueueState([]playlist.Track{{ID: "b", Title: "B"}}, 0))
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()

	qs, err := m.GetQueue()
	if err != nil {
		t.Fatalf("GetQueue failed: %v", err)
	}
	if len(qs.Tracks) != 1 || qs.Tracks[0].TrackID != "b" {
		t.Errorf("queue = %+v, want only the latest scheduled state", qs)
	}
}
