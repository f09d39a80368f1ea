package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, ModeLinear, p.Mode)
	assert.Equal(t, time.Second, p.Initial)
	assert.Equal(t, 30*time.Second, p.Max)
	assert.Equal(t, 2, p.MaxRetries)
}

func TestNewPolicy_ClampsInitial(t *testing.T) {
	p := NewPolicy(ModeFixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial)
	assert.Equal(t, ModeFixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)

	assert.Equal(t, ModeLinear, NewPolicy("bogus", 0, 0, -1).Mode)
}

func TestDelay(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name    string
		policy  Policy
		attempt int
		want    time.Duration
	}{
		{"fixed", NewPolicy(ModeFixed, 100*ms, 500*ms, 3), 3, 100 * ms},
		{"linear", NewPolicy(ModeLinear, 100*ms, 250*ms, 5), 2, 200 * ms},
		{"linear capped", NewPolicy(ModeLinear, 100*ms, 250*ms, 5), 4, 250 * ms},
		{"exponential", NewPolicy(ModeExponential, 50*ms, 160*ms, 5), 2, 100 * ms},
		{"exponential capped", NewPolicy(ModeExponential, 50*ms, 160*ms, 5), 3, 160 * ms},
		{"zero attempt", NewPolicy(ModeLinear, 10*ms, 20*ms, 1), 0, 0},
		{"negative attempt", NewPolicy(ModeLinear, 10*ms, 20*ms, 1), -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Delay(tt.attempt))
		})
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Millisecond, time.Millisecond, 3)
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ReturnsLastError(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Millisecond, time.Millisecond, 1)
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("down")
	})
	require.EqualError(t, err, "down")
	assert.Equal(t, 2, calls)
}

func TestDo_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPolicy(ModeFixed, time.Hour, time.Hour, 5)
	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		return errors.New("down")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Millisecond, time.Millisecond, 5)
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return derrors.AuthError("bad credentials").Build()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	calls = 0
	err = p.Do(context.Background(), func(context.Context) error {
		calls++
		return derrors.StoreError("busy").Build()
	})
	require.Error(t, err)
	assert.Equal(t, 6, calls)
}
