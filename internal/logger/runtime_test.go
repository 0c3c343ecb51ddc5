package logger

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureHandler struct {
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r.Clone())
	return nil
}
func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func recordAttrs(r slog.Record) map[string]slog.Value {
	attrs := make(map[string]slog.Value)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})
	return attrs
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithRID(context.Background(), "1:2:3")
	ctx = WithUpdateMeta(ctx, 10, 42, 99)

	assert.Equal(t, "1:2:3", RIDFrom(ctx))
	assert.Equal(t, 10, UpdateIDFrom(ctx))
	assert.Equal(t, int64(42), UserIDFrom(ctx))
	assert.Equal(t, int64(99), ChatIDFrom(ctx))

	assert.Empty(t, RIDFrom(context.Background()))
	assert.Zero(t, UserIDFrom(nil))
}

func TestBuildRID(t *testing.T) {
	assert.Equal(t, "10:99:42", BuildRID(10, 99, 42))
}

func TestMetaAttrs(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(context.Background(), "r"), 1, 2, 3)
	assert.Len(t, MetaAttrs(ctx), 4)
	assert.Empty(t, MetaAttrs(context.Background()))
}

func TestLogCtxAppendsContextMeta(t *testing.T) {
	h := &captureHandler{}
	l := slog.New(h)

	ctx := WithUpdateMeta(WithRID(context.Background(), "10:99:42"), 10, 42, 99)
	LogCtx(ctx, l, slog.LevelError, "session save failed",
		slog.String("event", "session.save"),
	)

	require.Len(t, h.records, 1)
	rec := h.records[0]
	assert.Equal(t, slog.LevelError, rec.Level)
	assert.Equal(t, "session save failed", rec.Message)

	attrs := recordAttrs(rec)
	assert.Equal(t, "session.save", attrs["event"].String())
	assert.Equal(t, "10:99:42", attrs["rid"].String())
	assert.Equal(t, int64(10), attrs["update_id"].Int64())
	assert.Equal(t, int64(42), attrs["user_id"].Int64())
	assert.Equal(t, int64(99), attrs["chat_id"].Int64())
}

func TestLogCtxWithoutMeta(t *testing.T) {
	h := &captureHandler{}
	LogCtx(context.Background(), slog.New(h), slog.LevelInfo, "plain",
		slog.String("event", "test"),
	)

	require.Len(t, h.records, 1)
	attrs := recordAttrs(h.records[0])
	assert.Contains(t, attrs, "event")
	assert.NotContains(t, attrs, "rid")
}

func TestRoundMS(t *testing.T) {
	assert.Equal(t, time.Duration(0), RoundMS(-time.Second))
	assert.Equal(t, 2*time.Millisecond, RoundMS(1500*time.Microsecond))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", Sanitize("he\x00llo"))
	assert.Equal(t, "a\nb\tc", Sanitize("a\nb\tc"))
	assert.Equal(t, "", Sanitize(""))

	assert.Equal(t, "abc", SanitizeLimit("abcdef", 3))
	assert.Equal(t, "", SanitizeLimit("abc", 0))
}
