package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestControllerAcquireRelease(t *testing.T) {
	limits := NewLimits(1, 1)
	controller := NewController(limits)

	require.Equal(t, limits, controller.LimitsSnapshot())

	require.NoError(t, controller.AcquireRequest(context.Background()))
	controller.ReleaseRequest()

	require.NoError(t, controller.AcquireArtifact(context.Background()))
	controller.ReleaseArtifact()
}

func TestControllerBlocksAtCapacity(t *testing.T) {
	controller := NewController(NewLimits(1, 1))

	require.NoError(t, controller.AcquireRequest(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Error(t, controller.AcquireRequest(ctx))

	controller.ReleaseRequest()
	require.NoError(t, controller.AcquireRequest(context.Background()))
	controller.ReleaseRequest()
}
