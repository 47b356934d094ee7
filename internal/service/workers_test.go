package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	"Alumni_Network/internal/config"
	"Alumni_Network/internal/model"
	"Alumni_Network/internal/repository/store"
)

type flakySender struct {
	mu       sync.Mutex
	failures int
	sent     []string
}

func (s *flakySender) Send(_ context.Context, key string, _ []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("broker unavailable")
	}
	s.sent = append(s.sent, key)
	return nil
}

func (s *flakySender) Close() error { return nil }

func (s *flakySender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestOutboxRelayerRetries(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a, b := e.user(t, "a"), e.user(t, "b")
	if _, err := e.connections.Connect(ctx, a.ID, b.ID); err != nil {
		t.Fatal(err)
	}

	sender := &flakySender{failures: 1}
	r := NewOutboxRelayer(&store.OutboxRepository{DB: e.db}, sender, zap.NewNop(),
		config.OutboxConfig{Interval: 10 * time.Millisecond, BatchSize: 10, MaxRetry: 2})

	if n := r.DrainOnce(ctx); n != 0 {
		t.Fatalf("first drain sent %d", n)
	}
	var ob model.Outbox
	e.db.First(&ob)
	if ob.Status != model.OutboxFailed || ob.Retry != 1 {
		t.Fatalf("after failure: status=%d retry=%d", ob.Status, ob.Retry)
	}
	if n := r.DrainOnce(ctx); n != 1 {
		t.Fatalf("second drain sent %d", n)
	}
	if n := r.DrainOnce(ctx); n != 0 {
		t.Fatalf("sent rows redelivered: %d", n)
	}
}

func TestOutboxRelayerGivesUp(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a, b := e.user(t, "a"), e.user(t, "b")
	if _, err := e.connections.Connect(ctx, a.ID, b.ID); err != nil {
		t.Fatal(err)
	}

	sender := &flakySender{failures: 100}
	r := NewOutboxRelayer(&store.OutboxRepository{DB: e.db}, sender, zap.NewNop(),
		config.OutboxConfig{Interval: time.Second, BatchSize: 10, MaxRetry: 2})
	for i := 0; i < 5; i++ {
		r.DrainOnce(ctx)
	}
	if sender.failures != 98 {
		t.Fatalf("attempts = %d, want 2", 100-sender.failures)
	}
}

func TestOutboxRelayerRunStops(t *testing.T) {
	e := newEnv(t)
	a, b := e.user(t, "a"), e.user(t, "b")
	if _, err := e.connections.Connect(context.Background(), a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	opt := goleak.IgnoreCurrent()

	sender := &flakySender{}
	r := NewOutboxRelayer(&store.OutboxRepository{DB: e.db}, sender, zap.NewNop(),
		config.OutboxConfig{Interval: 5 * time.Millisecond, BatchSize: 10, MaxRetry: 2})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for sender.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if sender.count() != 1 {
		t.Fatalf("delivered %d", sender.count())
	}
	goleak.VerifyNone(t, opt)
}

func TestReconcilerFixesDrift(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a, b, c := e.user(t, "a"), e.user(t, "b"), e.user(t, "c")
	for _, pair := range [][2]uint64{{a.ID, b.ID}, {a.ID, c.ID}, {b.ID, a.ID}} {
		if _, err := e.connections.Connect(ctx, pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}

	r := NewConnectionCountReconciler(&store.ConnectionCountReconcilerRepo{DB: e.db}, zap.NewNop(), time.Minute)
	if n, err := r.ReconcileOnce(ctx); err != nil || n != 0 {
		t.Fatalf("consistent counts reported %d fixes: %v", n, err)
	}

	e.db.Model(&model.User{}).Where("id = ?", a.ID).Updates(map[string]any{"following_count": 9, "follower_count": 0})
	r.batchSize = 1
	n, err := r.ReconcileOnce(ctx)
	if err != nil || n != 2 {
		t.Fatalf("fixed %d: %v", n, err)
	}
	var got model.User
	e.db.First(&got, a.ID)
	if got.FollowingCount != 2 || got.FollowerCount != 1 {
		t.Fatalf("counts = %d/%d", got.FollowingCount, got.FollowerCount)
	}
}
