package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

var t0 = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

func form(company string, status domain.Status) domain.JobFormData {
	return domain.JobFormData{Company: company, Position: "Engineer", Location: "Remote", Status: status}
}

func TestMigrate_SetsUserVersionAndIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	var v int
	require.NoError(t, db.Pool.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, SchemaVersion, v)

	require.NoError(t, Migrate(ctx, db.Pool))
	assert.True(t, columnExists(ctx, db.Pool, "jobs", "modified_by"))
	assert.False(t, columnExists(ctx, db.Pool, "jobs", "salary"))
}

func TestInsertAndGet(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	data := form("Acme", domain.StatusApplied)
	data.ID = domain.Int64Ptr(99)
	data.Notes = "referral"
	j, err := InsertJob(ctx, db.Pool, data, "", t0)
	require.NoError(t, err)

	require.NotNil(t, j.ID)
	assert.NotEqual(t, int64(99), *j.ID, "ids are assigned by the store")
	assert.Equal(t, "Acme", j.Company)
	assert.Equal(t, "referral", j.Notes)
	assert.Equal(t, "2026-10-01", j.ApplicationDate)
	assert.Equal(t, DefaultUser, j.CreatedBy)
	assert.Equal(t, "2026-10-01T08:00:00Z", j.CreatedAt)
	assert.Equal(t, j.ModifiedAt, j.LastUpdated)

	got, err := GetJob(ctx, db.Pool, *j.ID)
	require.NoError(t, err)
	assert.Equal(t, j, got)

	_, err = GetJob(ctx, db.Pool, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndFilter(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	empty, err := ListJobs(ctx, db.Pool)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, f := range []domain.JobFormData{
		form("A", domain.StatusApplied),
		form("B", domain.StatusRejected),
		form("C", domain.StatusApplied),
	} {
		_, err := InsertJob(ctx, db.Pool, f, "alice", t0)
		require.NoError(t, err)
	}

	all, err := ListJobs(ctx, db.Pool)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Company)
	assert.Equal(t, "C", all[2].Company)

	applied, err := ListJobsByStatus(ctx, db.Pool, domain.StatusApplied)
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	accepted, err := ListJobsByStatus(ctx, db.Pool, domain.StatusAccepted)
	require.NoError(t, err)
	assert.Empty(t, accepted)
}

func TestUpdateJob(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	j, err := InsertJob(ctx, db.Pool, form("Acme", domain.StatusApplied), "alice", t0)
	require.NoError(t, err)

	upd := j.FormData()
	upd.Status = domain.StatusInterviewing
	later := t0.Add(48 * time.Hour)
	got, err := UpdateJob(ctx, db.Pool, upd, "bob", later)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusInterviewing, got.Status)
	assert.Equal(t, "alice", got.CreatedBy)
	assert.Equal(t, "bob", got.ModifiedBy)
	assert.Equal(t, j.CreatedAt, got.CreatedAt)
	assert.Equal(t, "2026-10-03T08:00:00Z", got.ModifiedAt)
	assert.Equal(t, j.ApplicationDate, got.ApplicationDate)

	upd.ID = domain.Int64Ptr(404)
	_, err = UpdateJob(ctx, db.Pool, upd, "", later)
	assert.ErrorIs(t, err, ErrNotFound)

	upd.ID = nil
	_, err = UpdateJob(ctx, db.Pool, upd, "", later)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteJob(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	j, err := InsertJob(ctx, db.Pool, form("Acme", domain.StatusApplied), "", t0)
	require.NoError(t, err)

	require.NoError(t, DeleteJob(ctx, db.Pool, *j.ID))
	assert.ErrorIs(t, DeleteJob(ctx, db.Pool, *j.ID), ErrNotFound)

	all, err := ListJobs(ctx, db.Pool)
	require.NoError(t, err)
	assert.Empty(t, all)
}
