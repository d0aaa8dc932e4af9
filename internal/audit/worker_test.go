package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presensi/internal/audit"
)

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) published() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Event{}, s.events...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorker_PersistsAndMirrors(t *testing.T) {
	store := audit.NewInMemoryStore()
	sink := &recordingSink{}
	inbox := make(chan audit.Event, 4)
	worker := audit.NewWorker(store, sink, inbox, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	inbox <- audit.Event{UserID: "u1", Action: audit.ActionCheckIn, Outcome: audit.OutcomeAccepted}
	inbox <- audit.Event{UserID: "u1", Action: audit.ActionCheckOut, Outcome: audit.OutcomeRejected, Reason: "outside_window"}

	require.Eventually(t, func() bool {
		events, err := store.ListByUser(context.Background(), "u1")
		return err == nil && len(events) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Len(t, sink.published(), 2)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWorker_SinkFailureDoesNotStopProcessing(t *testing.T) {
	store := audit.NewInMemoryStore()
	sink := &recordingSink{err: errors.New("broker down")}
	inbox := make(chan audit.Event, 4)
	worker := audit.NewWorker(store, sink, inbox, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	inbox <- audit.Event{UserID: "u2", Action: audit.ActionFaceEnroll, Outcome: audit.OutcomeAccepted}
	inbox <- audit.Event{UserID: "u2", Action: audit.ActionFaceRemove, Outcome: audit.OutcomeAccepted}

	require.Eventually(t, func() bool {
		events, err := store.ListByUser(context.Background(), "u2")
		return err == nil && len(events) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestWorker_NilSink(t *testing.T) {
	store := audit.NewInMemoryStore()
	inbox := make(chan audit.Event, 1)
	worker := audit.NewWorker(store, nil, inbox, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	inbox <- audit.Event{UserID: "u3", Action: audit.ActionLogin, Outcome: audit.OutcomeAccepted}

	require.Eventually(t, func() bool {
		events, err := store.ListByUser(context.Background(), "u3")
		return err == nil && len(events) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPublisher_DropsWhenInboxFull(t *testing.T) {
	inbox := make(chan audit.Event, 1)
	publisher := audit.NewPublisher(inbox, discardLogger())

	publisher.Emit(context.Background(), audit.Event{Action: audit.ActionCheckIn})
	publisher.Emit(context.Background(), audit.Event{Action: audit.ActionCheckIn})

	assert.Len(t, inbox, 1)
}

func TestNormalizeDevice(t *testing.T) {
	const chrome = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	got := audit.NormalizeDevice(chrome)
	assert.Contains(t, got, "Chrome")
	assert.Contains(t, got, "Windows")

	assert.Equal(t, "", audit.NormalizeDevice(""))
	assert.NotEmpty(t, audit.NormalizeDevice("curl/8.0"))
}
