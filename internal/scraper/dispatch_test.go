package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// contestFixture builds n contests with detail and prior-art pages.
func contestFixture(n int) ([]ContestEntry, map[string]string) {
	entries := make([]ContestEntry, 0, n)
	pages := make(map[string]string)
	for i := 0; i < n; i++ {
		detailURL := fmt.Sprintf("https://patroll.example.com/contests/c%d", i)
		patentID := fmt.Sprintf("US%07d", 1000000+i)
		artURL := fmt.Sprintf("https://www.unifiedpatents.com/insights/c%d", i)

		pages[detailURL] = fmt.Sprintf(`<html><body>
			<h1> Contest %d </h1>
			<a href="/insights/c%d">Read the report</a>
		</body></html>`, i, i)
		pages[artURL] = fmt.Sprintf(`<html><body>
			<p>The challenged patent %s relates to widgets.</p>
			<p><a href="/files/c%d.pdf">Download PDF</a></p>
		</body></html>`, patentID, i)

		entries = append(entries, ContestEntry{DetailURL: detailURL, PatentID: patentID})
	}
	return entries, pages
}

func TestDispatchSequential(t *testing.T) {
	t.Parallel()

	entries, pages := contestFixture(3)
	cfg := testConfig()
	d := NewDispatcher(cfg, &fakeNavigator{pages: pages}, nil, nil, nil, zap.NewNop())

	out := d.Dispatch(context.Background(), entries)
	require.Len(t, out, 3)
	for i, e := range out {
		require.Equal(t, entries[i].DetailURL, e.DetailURL)
		require.NotNil(t, e.Title)
		require.Equal(t, fmt.Sprintf("Contest %d", i), *e.Title)
		require.NotNil(t, e.DocumentURL)
		require.Equal(t, fmt.Sprintf("https://www.unifiedpatents.com/files/c%d.pdf", i), *e.DocumentURL)
	}
}

func TestDispatchPoliciesProduceIdenticalOutput(t *testing.T) {
	t.Parallel()

	entries, pages := contestFixture(8)

	seqCfg := testConfig()
	seq := NewDispatcher(seqCfg, &fakeNavigator{pages: pages}, nil, nil, nil, zap.NewNop())
	seqOut := seq.Dispatch(context.Background(), entries)

	// Stagger navigation so parallel completion order differs from input
	// order; the index-addressed slots must hide that entirely.
	parCfg := testConfig()
	parCfg.Parallel = true
	factory := &fakeFactory{
		pages: pages,
		delay: func(url string) time.Duration {
			return time.Duration(len(url)%5) * 2 * time.Millisecond
		},
	}
	par := NewDispatcher(parCfg, nil, factory, nil, nil, zap.NewNop())
	parOut := par.Dispatch(context.Background(), entries)

	require.Equal(t, seqOut, parOut)
	for i := range parOut {
		require.Equal(t, entries[i].DetailURL, parOut[i].DetailURL)
	}
}

func TestDispatchParallelUsesPrivateSessions(t *testing.T) {
	t.Parallel()

	entries, pages := contestFixture(6)
	cfg := testConfig()
	cfg.Parallel = true
	cfg.Workers = 3
	factory := &fakeFactory{pages: pages}

	d := NewDispatcher(cfg, nil, factory, nil, nil, zap.NewNop())
	out := d.Dispatch(context.Background(), entries)
	require.Len(t, out, 6)

	// One session per pool worker, each released when the batch ends.
	require.Len(t, factory.sessions, 3)
	for _, sess := range factory.sessions {
		require.True(t, sess.closed)
	}
}

func TestDispatchParallelSessionFailureLeavesAbsentFields(t *testing.T) {
	t.Parallel()

	entries, _ := contestFixture(4)
	cfg := testConfig()
	cfg.Parallel = true
	factory := &fakeFactory{err: errors.New("browser launch failed")}

	d := NewDispatcher(cfg, nil, factory, nil, nil, zap.NewNop())
	out := d.Dispatch(context.Background(), entries)

	require.Len(t, out, 4)
	for i, e := range out {
		require.Equal(t, entries[i].DetailURL, e.DetailURL)
		require.Equal(t, entries[i].PatentID, e.PatentID)
		require.Nil(t, e.Title)
		require.Nil(t, e.DocumentURL)
	}
}

func TestDispatchEmptyBatch(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(testConfig(), &fakeNavigator{}, nil, nil, nil, zap.NewNop())
	require.Empty(t, d.Dispatch(context.Background(), nil))
}
