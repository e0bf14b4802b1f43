package logger

import (
	"context"
	"testing"

	kratoslog "github.com/go-kratos/kratos/v2/log"
)

// recordLogger 记录每次调用级别的Logger实现
type recordLogger struct {
	levels []string
	msgs   []string
}

func (r *recordLogger) Info(ctx context.Context, msg string, fields ...Field) {
	r.levels = append(r.levels, "info")
	r.msgs = append(r.msgs, msg)
}

func (r *recordLogger) Error(ctx context.Context, msg string, fields ...Field) {
	r.levels = append(r.levels, "error")
	r.msgs = append(r.msgs, msg)
}

func (r *recordLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	r.levels = append(r.levels, "warn")
	r.msgs = append(r.msgs, msg)
}

func (r *recordLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	r.levels = append(r.levels, "debug")
	r.msgs = append(r.msgs, msg)
}

func (r *recordLogger) Fatal(ctx context.Context, msg string, fields ...Field) {
	r.levels = append(r.levels, "fatal")
	r.msgs = append(r.msgs, msg)
}

func (r *recordLogger) WithContext(ctx context.Context) Logger {
	return r
}

func TestKratosLoggerLevelRouting(t *testing.T) {
	tests := []struct {
		name      string
		level     kratoslog.Level
		wantLevel string
	}{
		{"debug", kratoslog.LevelDebug, "debug"},
		{"info", kratoslog.LevelInfo, "info"},
		{"warn", kratoslog.LevelWarn, "warn"},
		{"error", kratoslog.LevelError, "error"},
		{"fatal", kratoslog.LevelFatal, "fatal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordLogger{}
			kl := NewKratosLogger(rec)

			if err := kl.Log(tt.level, "msg", "hello", "key", "value"); err != nil {
				t.Fatalf("Log() error = %v", err)
			}

			if len(rec.levels) != 1 || rec.levels[0] != tt.wantLevel {
				t.Errorf("Log() routed to %v, want [%s]", rec.levels, tt.wantLevel)
			}
			if rec.msgs[0] != "hello" {
				t.Errorf("Log() msg = %q, want %q", rec.msgs[0], "hello")
			}
		})
	}
}
