package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/database"
	_ "github.com/MeirG9/SmartCity-Parking-IoT-2026/migrations"
)

const entryTopic = "lot/Entrance/Button"

func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{
		Path:        filepath.Join(t.TempDir(), "audit.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	return NewSQLiteRepository(db.DB)
}

func TestSQLiteRepository_Create(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	entry := &Entry{Topic: entryTopic, Message: "Entry Granted", Kind: KindAccessLog}
	require.NoError(t, repo.Create(ctx, entry))

	assert.Equal(t, int64(1), entry.ID)
	assert.False(t, entry.Timestamp.IsZero())

	res, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)

	got := res.Entries[0]
	assert.Equal(t, entryTopic, got.Topic)
	assert.Equal(t, "Entry Granted", got.Message)
	assert.Equal(t, KindAccessLog, got.Kind)
	assert.WithinDuration(t, entry.Timestamp, got.Timestamp, time.Second)
}

func TestSQLiteRepository_CreateDefaults(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	entry := &Entry{Topic: "lot/System/Alerts", Message: "hello"}
	require.NoError(t, repo.Create(ctx, entry))
	assert.Equal(t, KindInfo, entry.Kind)

	assert.ErrorIs(t, repo.Create(ctx, &Entry{Topic: "", Message: "x"}), ErrInvalidEntry)
	assert.ErrorIs(t, repo.Create(ctx, &Entry{Topic: "t", Message: ""}), ErrInvalidEntry)
}

func TestSQLiteRepository_ListFilters(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertLog(ctx, entryTopic, "Entry Granted", KindAccessLog))
	require.NoError(t, repo.InsertLog(ctx, "lot/Gate/Command", "Command: OPEN", KindActuatorCmd))
	require.NoError(t, repo.InsertLog(ctx, entryTopic, "Entry Denied (Full)", KindAccessLog))
	require.NoError(t, repo.InsertLog(ctx, "lot/Gate/Feedback", "Gate: OPEN", KindActuatorFeedback))

	all, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Total)
	assert.Equal(t, defaultListLimit, all.Limit)
	require.Len(t, all.Entries, 4)
	assert.Equal(t, "Gate: OPEN", all.Entries[0].Message, "newest first")

	access, err := repo.List(ctx, Filter{Kind: KindAccessLog})
	require.NoError(t, err)
	assert.Equal(t, 2, access.Total)
	assert.Equal(t, "Entry Denied (Full)", access.Entries[0].Message)
	assert.Equal(t, "Entry Granted", access.Entries[1].Message)

	gate, err := repo.List(ctx, Filter{Topic: "lot/Gate/Command"})
	require.NoError(t, err)
	require.Len(t, gate.Entries, 1)
	assert.Equal(t, KindActuatorCmd, gate.Entries[0].Kind)

	none, err := repo.List(ctx, Filter{Kind: KindAccessLog, Topic: "lot/Gate/Command"})
	require.NoError(t, err)
	assert.Equal(t, 0, none.Total)
	assert.NotNil(t, none.Entries)
	assert.Empty(t, none.Entries)
}

func TestSQLiteRepository_ListPaging(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.InsertLog(ctx, entryTopic, "Entry Granted", KindAccessLog))
	}

	page, err := repo.List(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, int64(5), page.Entries[0].ID)
	assert.Equal(t, int64(4), page.Entries[1].ID)

	next, err := repo.List(ctx, Filter{Limit: 2, BeforeID: page.Entries[1].ID})
	require.NoError(t, err)
	require.Len(t, next.Entries, 2)
	assert.Equal(t, int64(3), next.Entries[0].ID)

	capped, err := repo.List(ctx, Filter{Limit: 10_000})
	require.NoError(t, err)
	assert.Equal(t, maxListLimit, capped.Limit)
}
