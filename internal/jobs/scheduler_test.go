package jobs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/homebarber/internal/config"
	"github.com/BruksfildServices01/homebarber/internal/timezone"
)

type mockFetcher struct {
	calls int
	err   error
}

func (m *mockFetcher) Fetch(context.Context) error {
	m.calls++
	return m.err
}

type mockCompleter struct {
	completeFn func(ctx context.Context, now time.Time) (int, error)
}

func (m mockCompleter) CompleteElapsed(ctx context.Context, now time.Time) (int, error) {
	return m.completeFn(ctx, now)
}

func TestRefreshReference_CallsEveryFetcher(t *testing.T) {
	var buf bytes.Buffer
	a := &mockFetcher{}
	b := &mockFetcher{err: errors.New("down")}
	s := NewScheduler(config.JobsConfig{}, []Fetcher{a, b}, nil, timezone.Now, zerolog.New(&buf))

	s.refreshReference()

	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d, %d", a.calls, b.calls)
	}
	if !strings.Contains(buf.String(), "reference refresh failed") {
		t.Errorf("failure not logged: %s", buf.String())
	}
}

func TestCompleteElapsed_UsesClock(t *testing.T) {
	at := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)
	var got time.Time
	s := NewScheduler(config.JobsConfig{}, nil, mockCompleter{completeFn: func(_ context.Context, now time.Time) (int, error) {
		got = now
		return 2, nil
	}}, timezone.Fixed(at), zerolog.Nop())

	s.completeElapsed()

	if !got.Equal(at) {
		t.Errorf("now = %v, want %v", got, at)
	}
}

func TestStart_RejectsBadSpec(t *testing.T) {
	s := NewScheduler(config.JobsConfig{RefreshSpec: "every now and then"}, nil, nil, timezone.Now, zerolog.Nop())
	if err := s.Start(); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(config.JobsConfig{
		RefreshSpec:  "0 */15 * * * *",
		CompleteSpec: "0 0 * * * *",
	}, nil, nil, timezone.Now, zerolog.Nop())

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
