package consultation

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingService struct {
	Service
	sweeps atomic.Int32
}

func (s *countingService) Sweep(ctx context.Context, now time.Time) int {
	s.sweeps.Add(1)
	return 0
}

func TestSweeper_RunsOnSchedule(t *testing.T) {
	svc := &countingService{}
	s := NewSweeper(svc, "@every 1s")
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return svc.sweeps.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestSweeper_InvalidSchedule(t *testing.T) {
	s := NewSweeper(&countingService{}, "every now and then")

	err := s.Start()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sweep schedule")
}
