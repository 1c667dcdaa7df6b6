package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LokiLogger struct {
	Logger      *otelzap.Logger
	ServiceName string
	lokiURL     string
	httpClient  *http.Client
}

type LokiLogEntry struct {
	Streams []LokiStream `json:"streams"`
}

type LokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// NewLokiLogger builds a production zap logger with trace correlation. Entries
// are also pushed to Loki when lokiURL is not empty.
func NewLokiLogger(serviceName, lokiURL string) (*LokiLogger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build(zap.Fields(zap.String("service", serviceName)))

	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return newLokiLogger(zapLogger, serviceName, lokiURL), nil
}

// NewQueryLogger builds the zerolog logger that receives SQL statements.
// An unparsable level falls back to debug.
func NewQueryLogger(w io.Writer, level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)

	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.DebugLevel
	}

	return zerolog.New(w).Level(parsed).With().Timestamp().Str("component", "sql").Logger()
}

// NewNopLogger discards everything. Used by tests.
func NewNopLogger() *LokiLogger {
	return newLokiLogger(zap.NewNop(), "test", "")
}

func newLokiLogger(zapLogger *zap.Logger, serviceName, lokiURL string) *LokiLogger {
	logger := &LokiLogger{
		Logger:      otelzap.New(zapLogger, otelzap.WithMinLevel(zapcore.InfoLevel)),
		ServiceName: serviceName,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
	}

	if lokiURL != "" {
		logger.lokiURL = lokiURL + "/loki/api/v1/push"
	}

	return logger
}

func (l *LokiLogger) Sync() error {
	return l.Logger.Sync()
}

func (l *LokiLogger) InfoWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *LokiLogger) ErrorWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.ErrorLevel, msg, fields...)
}

func (l *LokiLogger) logWithTrace(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	switch level {
	case zapcore.ErrorLevel:
		l.Logger.Ctx(ctx).Error(msg, fields...)
	default:
		l.Logger.Ctx(ctx).Info(msg, fields...)
	}

	if l.lokiURL != "" {
		go l.SendToLoki(ctx, level, msg, fields)
	}
}

// SendToLoki pushes one entry. Failures are dropped; the local log line has
// already been written.
func (l *LokiLogger) SendToLoki(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) {
	if l.lokiURL == "" {
		return
	}

	encoder := zapcore.NewMapObjectEncoder()

	for _, field := range fields {
		field.AddTo(encoder)
	}

	logData := encoder.Fields
	logData["timestamp"] = time.Now().Format(time.RFC3339Nano)
	logData["level"] = level.String()
	logData["message"] = msg
	logData["service"] = l.ServiceName

	span := trace.SpanFromContext(ctx)

	if span.SpanContext().IsValid() {
		logData["trace_id"] = span.SpanContext().TraceID().String()
		logData["span_id"] = span.SpanContext().SpanID().String()
	}

	line, err := json.Marshal(logData)

	if err != nil {
		return
	}

	l.push(LokiLogEntry{
		Streams: []LokiStream{
			{
				Stream: map[string]string{
					"service": l.ServiceName,
					"level":   level.String(),
				},
				Values: [][]string{
					{fmt.Sprintf("%d", time.Now().UnixNano()), string(line)},
				},
			},
		},
	})
}

func (l *LokiLogger) push(entry LokiLogEntry) {
	body, err := json.Marshal(entry)

	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, l.lokiURL, bytes.NewReader(body))

	if err != nil {
		return
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)

	if err != nil {
		return
	}

	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
}
