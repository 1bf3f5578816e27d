package sqlite

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"qiyas/internal/adapter/sqlite/migrations"
	"qiyas/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "qiyas.db"))
	require.NoError(t, err, "Open should succeed on a fresh file")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func f64(v float64) *float64 { return &v }

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "qiyas.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err, "reopening must not re-run applied migrations")
	t.Cleanup(func() { _ = second.Close() })

	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)

	var n int
	require.NoError(t, second.sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	assert.Equal(t, len(files), n)
}

func TestRecordRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	day := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 2, 10, 7, 30, 0, 0, time.UTC)

	in := domain.Record{
		ID: "r1", Date: day, Unit: domain.UnitIn,
		Weight: f64(81.3), Neck: f64(15.2), Waist: f64(33.9), RightForearm: f64(11),
		Notes: "morning", CreatedAt: created, UpdatedAt: created,
	}
	require.NoError(t, store.InsertRecord(ctx, in))
	assert.Error(t, store.InsertRecord(ctx, in), "duplicate id must fail")

	got, err := store.GetRecord(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Date.Equal(day))
	assert.Equal(t, domain.UnitIn, got.Unit)
	assert.Equal(t, "morning", got.Notes)
	assert.Nil(t, got.Hips)
	require.NotNil(t, got.RightForearm)
	assert.InDelta(t, 11.0, *got.RightForearm, 1e-9)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.False(t, got.QuickLog)

	got.Waist = nil
	got.Notes = "edited"
	require.NoError(t, store.UpdateRecord(ctx, *got))
	again, err := store.GetRecord(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, again.Waist)
	assert.Equal(t, "edited", again.Notes)

	assert.ErrorIs(t, store.UpdateRecord(ctx, domain.Record{ID: "nope", Date: day, Unit: domain.UnitCm}), domain.ErrNotFound)
	assert.ErrorIs(t, store.DeleteRecord(ctx, "nope"), domain.ErrNotFound)

	missing, err := store.GetRecord(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListOrderQuickLogAndDeleteAll(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	d1 := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	t0 := time.Date(2025, 2, 11, 6, 0, 0, 0, time.UTC)

	for _, r := range []domain.Record{
		{ID: "a", Date: d1, Unit: domain.UnitCm, Weight: f64(80), CreatedAt: t0, UpdatedAt: t0},
		{ID: "b", Date: d2, Unit: domain.UnitCm, Weight: f64(79), QuickLog: true, CreatedAt: t0, UpdatedAt: t0},
		{ID: "c", Date: d2, Unit: domain.UnitCm, Waist: f64(84), CreatedAt: t0.Add(time.Hour), UpdatedAt: t0},
	} {
		require.NoError(t, store.InsertRecord(ctx, r))
	}

	list, err := store.ListRecords(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{list[0].ID, list[1].ID, list[2].ID})

	limited, err := store.ListRecords(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	q, err := store.FindQuickLog(ctx, d2)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "b", q.ID)
	assert.True(t, q.QuickLog)

	none, err := store.FindQuickLog(ctx, d1)
	require.NoError(t, err)
	assert.Nil(t, none)

	count, err := store.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	n, err := store.DeleteAllRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestUpsertQuickLog(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	day := time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC)
	t0 := time.Date(2025, 2, 12, 7, 0, 0, 0, time.UTC)

	first, err := store.UpsertQuickLog(ctx, domain.Record{
		ID: "q1", Date: day, Unit: domain.UnitCm, Weight: f64(80), QuickLog: true, CreatedAt: t0, UpdatedAt: t0,
	})
	require.NoError(t, err)
	assert.Equal(t, "q1", first.ID)

	later := t0.Add(3 * time.Hour)
	second, err := store.UpsertQuickLog(ctx, domain.Record{
		ID: "q2", Date: day, Unit: domain.UnitCm, Weight: f64(79.4), QuickLog: true, CreatedAt: later, UpdatedAt: later,
	})
	require.NoError(t, err)
	assert.Equal(t, "q1", second.ID, "second quick-log must update the first")
	require.NotNil(t, second.Weight)
	assert.InDelta(t, 79.4, *second.Weight, 1e-9)
	assert.True(t, second.CreatedAt.Equal(t0))
	assert.True(t, second.UpdatedAt.Equal(later))

	full := domain.Record{ID: "f1", Date: day, Unit: domain.UnitCm, Waist: f64(84), CreatedAt: later, UpdatedAt: later}
	require.NoError(t, store.InsertRecord(ctx, full), "full records share the day freely")

	count, err := store.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUpsertQuickLog_ConcurrentSameDay(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	day := time.Date(2025, 2, 13, 0, 0, 0, 0, time.UTC)
	t0 := time.Date(2025, 2, 13, 7, 0, 0, 0, time.UTC)

	const n = 8
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stored, err := store.UpsertQuickLog(ctx, domain.Record{
				ID: fmt.Sprintf("q%d", i), Date: day, Unit: domain.UnitCm,
				Weight: f64(80 + float64(i)), QuickLog: true, CreatedAt: t0, UpdatedAt: t0,
			})
			ids[i], errs[i] = stored.ID, err
		}(i)
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	count, err := store.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestProfileUpsert(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	p, err := store.GetProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	age := 29
	require.NoError(t, store.SaveProfile(ctx, domain.Profile{Name: "Lea", Age: &age, HeightCm: f64(172.5), Sex: domain.SexFemale, UpdatedAt: time.Now()}))
	p, err = store.GetProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Lea", p.Name)
	require.NotNil(t, p.Age)
	assert.Equal(t, 29, *p.Age)
	assert.Equal(t, domain.SexFemale, p.Sex)

	require.NoError(t, store.SaveProfile(ctx, domain.Profile{Name: "Lea", Sex: domain.SexFemale, UpdatedAt: time.Now()}))
	p, err = store.GetProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p.Age)
	assert.Nil(t, p.HeightCm)
}

func TestUsersAndSessions(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	sessions := NewSessionRepo(store)
	ctx := context.Background()

	u, err := store.Create(ctx, "alice", "hash")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	_, err = store.Create(ctx, "alice", "other")
	assert.Error(t, err, "usernames are unique")

	byName, err := store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)

	unknown, err := store.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, unknown)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	now := time.Date(2025, 2, 11, 6, 0, 0, 0, time.UTC)
	require.NoError(t, sessions.Create(ctx, domain.Session{Token: "live", UserID: u.ID, UserAgent: "ua", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	require.NoError(t, sessions.Create(ctx, domain.Session{Token: "old", UserID: u.ID, ExpiresAt: now.Add(-time.Hour), CreatedAt: now}))

	s, err := sessions.GetByToken(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "ua", s.UserAgent)
	assert.True(t, s.ExpiresAt.Equal(now.Add(time.Hour)))

	require.NoError(t, sessions.DeleteExpired(ctx, now))
	old, err := sessions.GetByToken(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, old)

	require.NoError(t, sessions.Delete(ctx, "live"))
	gone, err := sessions.GetByToken(ctx, "live")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestApplyMigrationsSkipsEmptyAndRecordsOnce(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	fsys := fstest.MapFS{
		"0100_extra.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE extra (id INTEGER);\n-- +migrate Down\nDROP TABLE extra;\n")},
		"0101_empty.sql": {Data: []byte("-- +migrate Up\n\n-- +migrate Down\n")},
		"notes.txt":      {Data: []byte("ignored")},
	}
	require.NoError(t, applyMigrations(ctx, store.sqlDB, fsys))
	require.NoError(t, applyMigrations(ctx, store.sqlDB, fsys), "second run is a no-op")

	var n int
	require.NoError(t, store.sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE name = '0100_extra.sql'").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestExtractUpMigration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\nSELECT 1;\n", extractUpMigration("-- +migrate Up\nSELECT 1;\n-- +migrate Down\nSELECT 2;"))
	assert.Equal(t, "SELECT 3;", extractUpMigration("SELECT 3;"))
	assert.Equal(t, "\nSELECT 4;", extractUpMigration("-- +migrate Up\nSELECT 4;"))
}
