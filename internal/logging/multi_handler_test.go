package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sinkStub struct {
	level   slog.Level
	fail    error
	handled int
}

func (s *sinkStub) Enabled(_ context.Context, level slog.Level) bool {
	return level >= s.level
}

func (s *sinkStub) Handle(_ context.Context, _ slog.Record) error {
	s.handled++
	return s.fail
}

func (s *sinkStub) WithAttrs(_ []slog.Attr) slog.Handler { return s }
func (s *sinkStub) WithGroup(_ string) slog.Handler      { return s }

func TestMultiHandlerRoutesByLevel(t *testing.T) {
	stdout := &sinkStub{level: slog.LevelInfo}
	store := &sinkStub{level: slog.LevelError}
	m := NewMultiHandler(stdout, store)

	require.True(t, m.Enabled(context.Background(), slog.LevelInfo))

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "report approved", 0)
	require.NoError(t, m.Handle(context.Background(), record))
	require.Equal(t, 1, stdout.handled)
	require.Equal(t, 0, store.handled)

	record = slog.NewRecord(time.Now(), slog.LevelError, "webhook delivery failed", 0)
	require.NoError(t, m.Handle(context.Background(), record))
	require.Equal(t, 2, stdout.handled)
	require.Equal(t, 1, store.handled)
}

func TestMultiHandlerFailingSinkDoesNotBlockOthers(t *testing.T) {
	broken := &sinkStub{level: slog.LevelInfo, fail: errors.New("store down")}
	healthy := &sinkStub{level: slog.LevelInfo}
	m := NewMultiHandler(broken, healthy)

	record := slog.NewRecord(time.Now(), slog.LevelError, "report archive failed", 0)
	err := m.Handle(context.Background(), record)
	require.Error(t, err)
	require.Equal(t, 1, healthy.handled)
}
