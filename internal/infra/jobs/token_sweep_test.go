//go:build unit

package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTokenSweeper struct {
	mock.Mock
}

func (m *MockTokenSweeper) SweepExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestScheduler() *Scheduler {
	return NewScheduler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestScheduler_AddTokenSweep(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{name: "every descriptor", spec: "@every 1h"},
		{name: "five field cron", spec: "0 3 * * *"},
		{name: "invalid spec", spec: "every hour", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestScheduler().AddTokenSweep(tt.spec, new(MockTokenSweeper))

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduler_RunTokenSweep(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		sweeper := new(MockTokenSweeper)
		sweeper.On("SweepExpired", mock.Anything).Return(int64(4), nil).Once()

		newTestScheduler().runTokenSweep(sweeper)

		sweeper.AssertExpectations(t)
	})

	t.Run("error is logged, not propagated", func(t *testing.T) {
		sweeper := new(MockTokenSweeper)
		sweeper.On("SweepExpired", mock.Anything).Return(int64(0), assert.AnError).Once()

		assert.NotPanics(t, func() { newTestScheduler().runTokenSweep(sweeper) })
		sweeper.AssertExpectations(t)
	})
}

func TestScheduler_StartStop(t *testing.T) {
	s := newTestScheduler()
	s.Start()

	assert.NoError(t, s.Stop(context.Background()))
}
