package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/closerlabs/leadfunnel/config"
)

func TestNewLimits_Defaults(t *testing.T) {
	l := NewLimits(0, 0)
	require.Equal(t, config.DefaultMaxConcurrentRequests, l.MaxConcurrentRequests)
	require.Equal(t, config.DefaultMaxOpenDatasets, l.MaxOpenDatasets)
	require.Equal(t, config.DefaultMaxRowsPerLoad, l.MaxRowsPerLoad)
	require.Equal(t, config.DefaultMaxRowsPerPage, l.MaxRowsPerPage)
	require.Equal(t, config.DefaultPreviewRowLimit, l.PreviewRowLimit)
	require.Equal(t, config.DefaultOperationTimeout, l.OperationTimeout)
	require.Equal(t, config.DefaultAcquireRequestTimeout, l.AcquireRequestTimeout)
}

func TestNewLimits_Overrides(t *testing.T) {
	l := NewLimits(3, 2)
	require.Equal(t, 3, l.MaxConcurrentRequests)
	require.Equal(t, 2, l.MaxOpenDatasets)
}

func TestController_DatasetCapacity(t *testing.T) {
	ctrl := NewController(NewLimits(1, 1))

	require.NoError(t, ctrl.AcquireDataset(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.Error(t, ctrl.AcquireDataset(ctx))

	ctrl.ReleaseDataset()
	require.NoError(t, ctrl.AcquireDataset(context.Background()))
	ctrl.ReleaseDataset()
}

func TestController_LimitsSnapshot(t *testing.T) {
	limits := NewLimits(5, 2)
	ctrl := NewController(limits)
	require.Equal(t, limits, ctrl.LimitsSnapshot())
}
