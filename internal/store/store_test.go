package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/bikedash/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "bikedash.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestReplaceAndListRecords(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	recs := []model.DailyRecord{
		{Date: time.Date(2011, 1, 2, 0, 0, 0, 0, time.UTC), Total: 801, Casual: 131, Registered: 670, Humidity: 0.696087, Season: 1, Year: 0, DayType: model.DayTypeWeekend},
		{Date: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC), Total: 985, Casual: 331, Registered: 654, Humidity: 0.805833, Season: 1, Year: 0, DayType: model.DayTypeWeekend},
	}
	calls := 0
	require.NoError(t, st.ReplaceRecords(ctx, recs, func() { calls++ }))
	assert.Equal(t, len(recs), calls)

	got, err := st.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, recs[1], got[0])
	assert.Equal(t, recs[0], got[1])

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReplaceRecordsOverwrites(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := []model.DailyRecord{{Date: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC), Total: 1, DayType: model.DayTypeWeekend}}
	second := []model.DailyRecord{{Date: time.Date(2012, 5, 5, 0, 0, 0, 0, time.UTC), Total: 2, DayType: model.DayTypeWeekend}}
	require.NoError(t, st.ReplaceRecords(ctx, first, nil))
	require.NoError(t, st.ReplaceRecords(ctx, second, nil))

	got, err := st.ListRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestReplaceRecordsRollsBackOnDuplicate(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	keep := []model.DailyRecord{{Date: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC), Total: 1, DayType: model.DayTypeWeekend}}
	require.NoError(t, st.ReplaceRecords(ctx, keep, nil))

	dup := time.Date(2011, 2, 1, 0, 0, 0, 0, time.UTC)
	err := st.ReplaceRecords(ctx, []model.DailyRecord{{Date: dup}, {Date: dup}}, nil)
	require.Error(t, err)

	got, err := st.ListRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, keep, got)
}

func TestIsDatabasePath(t *testing.T) {
	assert.True(t, IsDatabasePath("snap.db"))
	assert.True(t, IsDatabasePath("/x/snap.SQLITE"))
	assert.True(t, IsDatabasePath("snap.sqlite3"))
	assert.False(t, IsDatabasePath("all_data.csv"))
	assert.False(t, IsDatabasePath("data"))
}
