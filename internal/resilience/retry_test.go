package resilience

import (
	"context"
	"errors"
	"net/textproto"
	"syscall"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2,
	}
}

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	calls := 0
	v, err := Do(context.Background(), fastConfig(), func(context.Context) (int, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, calls)
}

func TestDo_SuccessAfterTransientFailures(t *testing.T) {
	calls := 0
	var retried []int
	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	v, err := Do(context.Background(), cfg, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", Transient(errors.New("busy"))
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), func(context.Context) (int, error) {
		calls++
		return 0, Transient(errors.New("still busy"))
	})
	require.Error(t, err)
	assert.Equal(t, "still busy", err.Error())
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentErrorStops(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), func(context.Context) (int, error) {
		calls++
		return 0, errors.New("550 file unavailable")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig()
	cfg.InitialBackoff = time.Hour
	cfg.MaxBackoff = time.Hour

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, cfg, func(context.Context) (int, error) {
			calls++
			return 0, Transient(errors.New("busy"))
		})
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not stop on cancellation")
	}
}

func TestDo_CustomShouldRetry(t *testing.T) {
	cfg := fastConfig()
	cfg.ShouldRetry = func(error) bool { return true }

	calls := 0
	_, err := Do(context.Background(), cfg, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("anything")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestBackoff_Capped(t *testing.T) {
	cfg := applyDefaults(RetryConfig{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second, Multiplier: 2})
	assert.Equal(t, time.Second, backoff(0, cfg))
	assert.Equal(t, 2*time.Second, backoff(1, cfg))
	assert.Equal(t, 3*time.Second, backoff(5, cfg))
}

func TestApplyDefaults(t *testing.T) {
	cfg := applyDefaults(RetryConfig{JitterFraction: -1})
	def := DefaultRetryConfig()
	assert.Equal(t, def.MaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, def.InitialBackoff, cfg.InitialBackoff)
	assert.Zero(t, cfg.JitterFraction)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"explicit", Transient(errors.New("x")), true},
		{"wrapped explicit", eris.Wrap(Transient(errors.New("x")), "fetch"), true},
		{"ftp 421", &textproto.Error{Code: 421, Msg: "too many users"}, true},
		{"ftp 450", eris.Wrap(&textproto.Error{Code: 450, Msg: "file busy"}, "retr"), true},
		{"ftp 530", &textproto.Error{Code: 530, Msg: "not logged in"}, false},
		{"ftp 550", &textproto.Error{Code: 550, Msg: "no such file"}, false},
		{"refused", syscall.ECONNREFUSED, true},
		{"reset text", errors.New("read tcp: connection reset by peer"), true},
		{"plain", errors.New("bad header"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestTransient_Nil(t *testing.T) {
	assert.NoError(t, Transient(nil))
}
