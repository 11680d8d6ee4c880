package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/freight-kpi/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_MergeTimestamps_KeepFilled(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	n, err := st.MergeTimestamps(ctx, []model.ExternalTimestamps{
		{DispatchID: "SFR1", Fields: model.TimestampRecord{model.PickupArrival: "01.02.2024 09:00"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = st.MergeTimestamps(ctx, []model.ExternalTimestamps{
		{DispatchID: "SFR1", Fields: model.TimestampRecord{
			model.PickupArrival: "",
			model.PickupExit:    model.NoDataLabel,
			model.DeliveryExit:  "02.02.2024 17:00",
		}},
	})
	require.NoError(t, err)

	rec, err := st.GetTimestamps(ctx, "SFR1")
	require.NoError(t, err)
	assert.Equal(t, model.TimestampRecord{
		model.PickupArrival: "01.02.2024 09:00",
		model.DeliveryExit:  "02.02.2024 17:00",
	}, rec)
}

func TestSQLite_MergeTimestamps_LastFilledWinsWithinBatch(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	n, err := st.MergeTimestamps(ctx, []model.ExternalTimestamps{
		{DispatchID: "SFR2", Fields: model.TimestampRecord{model.PickupEntry: "first"}},
		{DispatchID: "SFR3", Fields: model.TimestampRecord{model.PickupEntry: "other"}},
		{DispatchID: "SFR2", Fields: model.TimestampRecord{model.PickupEntry: "second"}},
		{DispatchID: "", Fields: model.TimestampRecord{model.PickupEntry: "dropped"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rec, err := st.GetTimestamps(ctx, "SFR2")
	require.NoError(t, err)
	assert.Equal(t, "second", rec[model.PickupEntry])
}

func TestSQLite_GetTimestamps_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	rec, err := st.GetTimestamps(context.Background(), "SFR404")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSQLite_ListTimestamps(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.MergeTimestamps(ctx, []model.ExternalTimestamps{
		{DispatchID: "SFR9", Fields: model.TimestampRecord{model.DeliveryEntry: "b"}},
		{DispatchID: "SFR1", Fields: model.TimestampRecord{model.PickupArrival: "a"}},
	})
	require.NoError(t, err)

	list, err := st.ListTimestamps(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "SFR1", list[0].DispatchID)
	assert.Equal(t, model.TimestampRecord{model.PickupArrival: "a"}, list[0].Fields)
	assert.Equal(t, "SFR9", list[1].DispatchID)
}

func TestSQLite_MergeTimestamps_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)
	n, err := st.MergeTimestamps(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLite_ImportRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	first, err := st.RecordImport(ctx, ImportRun{Source: "a.xlsx", Rows: 10, Merged: 8, Skipped: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	_, err = st.RecordImport(ctx, ImportRun{Source: "b.csv", Rows: 3, Merged: 3})
	require.NoError(t, err)

	runs, err := st.ListImports(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b.csv", runs[0].Source)
	assert.Equal(t, "a.xlsx", runs[1].Source)
	assert.Equal(t, 8, runs[1].Merged)
	assert.Equal(t, 2, runs[1].Skipped)

	runs, err = st.ListImports(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLite_Ping(t *testing.T) {
	st := newTestSQLiteStore(t)
	assert.NoError(t, st.Ping(context.Background()))
}

func TestOpen_SQLite(t *testing.T) {
	s, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "open.db"), nil)
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	_, err = s.ListImports(context.Background(), 5)
	assert.NoError(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
