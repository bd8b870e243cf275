package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	client, err := NewClient(dbPath, DefaultConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "bookfinder-tasks.db"), TasksDBPath(filepath.Join("data", "bookfinder.db")))
	assert.Equal(t, "plain-tasks", TasksDBPath("plain"))
}

func TestConfigFrom(t *testing.T) {
	c := ConfigFrom(config.Tasks{Workers: 4})
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, 15*time.Minute, c.ReleaseAfter)
	assert.Equal(t, time.Hour, c.CleanupInterval)
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

type fakeCovers struct {
	mu     sync.Mutex
	warmed []int
	pruned []time.Duration
	err    error
}

func (f *fakeCovers) Warm(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warmed = append(f.warmed, id)
	return f.err
}

func (f *fakeCovers) Prune(maxAge time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruned = append(f.pruned, maxAge)
	return 3, f.err
}

func TestWarmCoverProcessor(t *testing.T) {
	covers := &fakeCovers{}
	process := WarmCoverProcessor(covers, zap.NewNop())

	require.NoError(t, process(context.Background(), WarmCoverTask{CoverID: 42}))
	assert.Equal(t, []int{42}, covers.warmed)

	covers.err = errors.New("upstream down")
	assert.Error(t, process(context.Background(), WarmCoverTask{CoverID: 43}))

	assert.Error(t, WarmCoverProcessor(nil, zap.NewNop())(context.Background(), WarmCoverTask{CoverID: 1}))
}

func TestPruneCoversProcessor(t *testing.T) {
	covers := &fakeCovers{}
	process := PruneCoversProcessor(covers, zap.NewNop())

	require.NoError(t, process(context.Background(), PruneCoversTask{MaxAge: time.Hour}))
	assert.Equal(t, []time.Duration{time.Hour}, covers.pruned)
}

func TestTaskConfigs(t *testing.T) {
	warm := WarmCoverTask{CoverID: 1}.Config()
	assert.Equal(t, "warm_cover", warm.Name)
	assert.Equal(t, 3, warm.MaxAttempts)

	prune := PruneCoversTask{}.Config()
	assert.Equal(t, "prune_covers", prune.Name)
	assert.Equal(t, 1, prune.MaxAttempts)
}

func TestCoverWarmerEnqueuesAndRuns(t *testing.T) {
	client := newTestClient(t)

	done := make(chan int, 1)
	client.Register(backlite.NewQueue(func(ctx context.Context, task WarmCoverTask) error {
		done <- task.CoverID
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	NewCoverWarmer(client, nil).WarmCover(77)

	select {
	case id := <-done:
		assert.Equal(t, 77, id)
	case <-time.After(5 * time.Second):
		t.Fatal("warm cover task was not executed within timeout")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	client.Stop(stopCtx)
}
