package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziaflow/marketing-lens/internal/config"
	"github.com/ziaflow/marketing-lens/internal/domain"
	"github.com/ziaflow/marketing-lens/internal/usecases/ingesting/mocks"
	"go.uber.org/mock/gomock"
)

func TestParsePairs(t *testing.T) {
	pairs := parsePairs([]string{
		"acme:Meta",
		" acme:TikTok ",
		"",
		"broken",
		":Meta",
		"acme:",
		"globex:Reddit",
	})

	require.Len(t, pairs, 3)
	assert.Equal(t, syncPair{TenantID: "acme", PlatformID: "Meta"}, pairs[0])
	assert.Equal(t, syncPair{TenantID: "acme", PlatformID: "TikTok"}, pairs[1])
	assert.Equal(t, syncPair{TenantID: "globex", PlatformID: "Reddit"}, pairs[2])
}

func TestSyncAllPairs_DispatchesEveryPair(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := mocks.NewMockDispatcher(ctrl)

	var mu sync.Mutex
	seen := map[string]domain.DateRange{}

	dispatcher.EXPECT().
		Ingest(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.IngestionRequest) (*domain.IngestionResult, error) {
			mu.Lock()
			seen[req.TenantID+":"+req.PlatformID] = req.Range
			mu.Unlock()
			return &domain.IngestionResult{Status: domain.IngestionCompleted}, nil
		}).
		Times(2)

	svc := NewIngestionSyncService(dispatcher, &config.Config{
		IngestionSync: config.IngestionSync{
			Pairs:             []string{"acme:Meta", "globex:TikTok"},
			MaxConcurrentJobs: 2,
		},
	})

	svc.syncAllPairs(context.Background())

	require.Len(t, seen, 2)
	for key, dateRange := range seen {
		assert.False(t, dateRange.Since.IsZero(), "pair %s", key)
		assert.True(t, dateRange.Since.Before(dateRange.Until), "pair %s", key)
	}

	status := svc.GetStatus()
	assert.Equal(t, 2, status["sync_pairs"])
	assert.NotEqual(t, time.Time{}, status["last_sync_completed_at"])
}

func TestSyncAllPairs_PairFailureDoesNotStopSweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dispatcher := mocks.NewMockDispatcher(ctrl)
	dispatcher.EXPECT().
		Ingest(gomock.Any(), gomock.Any()).
		Return(nil, assert.AnError).
		Times(2)

	svc := NewIngestionSyncService(dispatcher, &config.Config{
		IngestionSync: config.IngestionSync{
			Pairs:             []string{"acme:Meta", "globex:TikTok"},
			MaxConcurrentJobs: 1,
		},
	})

	// Both pairs are attempted even though each fails.
	svc.syncAllPairs(context.Background())
}
