package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MigratesAndUsesWAL(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	var mode string
	require.NoError(t, sqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var version int
	require.NoError(t, sqlDB.QueryRow(`SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, len(All), version)
}

func TestRegisterPrompt(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	created, err := RegisterPrompt(sqlDB, "prompts/login.txt", "login")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = RegisterPrompt(sqlDB, "prompts/login.txt", "Login flow")
	require.NoError(t, err)
	assert.False(t, created)

	var name string
	require.NoError(t, sqlDB.QueryRow(`SELECT name FROM prompts WHERE file_path = ?`, "prompts/login.txt").Scan(&name))
	assert.Equal(t, "Login flow", name)
}

func TestInsertRun_RoundTrip(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	run := Run{
		ID: "1b4e28ba-2fa1-11d2-883f-0016d3cca427", PromptPath: "prompts/login.txt", Browser: "chromium",
		Status: "failed", Actions: 2, FailedAt: 1, Error: "boom",
		StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond),
	}
	results := []ActionResult{
		{Position: 0, Kind: "navigate", Target: "http://a.test", Description: "Navigate to http://a.test", Status: "passed", Duration: 120 * time.Millisecond},
		{Position: 1, Kind: "click", Target: "login button", Status: "failed", Tag: "element-not-found", Error: "boom"},
	}
	require.NoError(t, InsertRun(sqlDB, run, results))

	got, err := FindRun(sqlDB, "1b4e28ba")
	require.NoError(t, err)
	assert.Equal(t, run, got)
	assert.Equal(t, 1500*time.Millisecond, got.Duration())

	gotResults, err := ActionResults(sqlDB, run.ID)
	require.NoError(t, err)
	assert.Equal(t, results, gotResults)
}

func TestFindRun_NotFoundAndAmbiguous(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	now := time.Now()
	for _, id := range []string{"abc-1", "abc-2"} {
		require.NoError(t, InsertRun(sqlDB, Run{ID: id, PromptPath: "p", Browser: "chromium", Status: "passed", FailedAt: -1, StartedAt: now, FinishedAt: now}, nil))
	}

	_, err = FindRun(sqlDB, "zzz")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = FindRun(sqlDB, "abc")
	assert.ErrorIs(t, err, ErrAmbiguousRun)

	r, err := FindRun(sqlDB, "abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-2", r.ID)
}

func TestFindRun_PrefixIsLiteral(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	now := time.Now()
	require.NoError(t, InsertRun(sqlDB, Run{ID: "abc-1", PromptPath: "p", Browser: "chromium", Status: "passed", FailedAt: -1, StartedAt: now, FinishedAt: now}, nil))

	for _, prefix := range []string{"%", "a%", "_bc", "ab_"} {
		_, err := FindRun(sqlDB, prefix)
		assert.ErrorIs(t, err, ErrRunNotFound, prefix)
	}

	r, err := FindRun(sqlDB, "abc-")
	require.NoError(t, err)
	assert.Equal(t, "abc-1", r.ID)
}

func TestListRunsAndStatusCounts(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, status := range []string{"passed", "failed", "passed"} {
		at := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, InsertRun(sqlDB, Run{
			ID: string(rune('a' + i)), PromptPath: "p", Browser: "chromium", Status: status, FailedAt: -1,
			StartedAt: at, FinishedAt: at,
		}, nil))
	}

	all, err := ListRuns(sqlDB, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)

	failed, err := ListRuns(sqlDB, "failed")
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].ID)

	counts, err := StatusCounts(sqlDB)
	require.NoError(t, err)
	assert.Equal(t, []StatusCount{{"passed", 2}, {"failed", 1}}, counts)
}
