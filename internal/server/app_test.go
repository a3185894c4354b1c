package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/logging"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type fakePurger struct {
	mu    sync.Mutex
	calls int
	n     int64
	err   error
}

func (f *fakePurger) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.n, f.err
}

func (f *fakePurger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRunTokenCleanup_PurgesUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := &fakePurger{n: 2}
	var mu sync.Mutex
	var observed int64

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		runTokenCleanup(ctx, 5*time.Millisecond, p, func(n int64) {
			mu.Lock()
			observed += n
			mu.Unlock()
		}, logging.Nop())
	}()

	assert.Eventually(t, func() bool { return p.count() >= 2 }, time.Second, time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, observed, int64(4))
}

func TestRunTokenCleanup_ErrorsDoNotStopLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := &fakePurger{err: errors.New("db down")}
	observed := 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		runTokenCleanup(ctx, 5*time.Millisecond, p, func(int64) { observed++ }, logging.Nop())
	}()

	assert.Eventually(t, func() bool { return p.count() >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-done

	assert.Zero(t, observed)
}
