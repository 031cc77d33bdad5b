package mylog

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForTelegram(t *testing.T) {
	errRecord := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	assert.True(t, forTelegram(context.Background(), errRecord))

	plain := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	assert.False(t, forTelegram(context.Background(), plain))

	marked := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	marked.AddAttrs(slog.Bool(TelegramKey, true))
	assert.True(t, forTelegram(context.Background(), marked))
}
