// Package progress delivers pipeline stage-completion events to
// observability sinks, such as the structured log or an append-only file.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Stage is a completed pipeline step
type Stage string

const (
	StageExtract   Stage = "extract"
	StageTransform Stage = "transform"
	StageLoadCSV   Stage = "load_csv"
	StageDBConnect Stage = "db_connect"
	StageLoadDB    Stage = "load_db"
	StageComplete  Stage = "complete"
)

func (s Stage) String() string {
	return string(s)
}

// Message returns the human-readable progress message for the stage
func (s Stage) Message() string {
	switch s {
	case StageExtract:
		return "Data extraction complete. Initializing Transformation process"
	case StageTransform:
		return "Data transformation complete. Initializing Loading process"
	case StageLoadCSV:
		return "Data saved to csv file"
	case StageDBConnect:
		return "SQL Connection initiated"
	case StageLoadDB:
		return "Data loaded to Database as table"
	case StageComplete:
		return "Process Complete"
	default:
		return s.String()
	}
}

// Event is a single stage-completed notification
type Event struct {
	Time  time.Time
	Stage Stage
}

// Sink consumes stage-completed events
type Sink interface {
	StageCompleted(context.Context, Event) error
}

// Discard drops every event
type Discard struct{}

func (Discard) StageCompleted(context.Context, Event) error {
	return nil
}

// LogSink writes events to a structured logger
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a new logger-backed sink
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{
		logger: logger,
	}
}

func (l *LogSink) StageCompleted(ctx context.Context, e Event) error {
	l.logger.InfoContext(
		ctx,
		e.Stage.Message(),
		"stage", e.Stage.String(),
		"at", e.Time.Format(time.RFC3339),
	)

	return nil
}

// TimestampLayout is the file sink timestamp format, e.g. 2024-Jan-05-10:04:31
const TimestampLayout = "2006-Jan-02-15:04:05"

// FileSink appends one "<timestamp> : <message>" line per event to a file.
// The file is opened per event, so no handle outlives a write
type FileSink struct {
	path string

	mu sync.Mutex
}

// NewFileSink creates a new append-only file sink at the given path
func NewFileSink(path string) *FileSink {
	return &FileSink{
		path: path,
	}
}

func (f *FileSink) StageCompleted(_ context.Context, e Event) error {
	return f.Append(e.Time, e.Stage.Message())
}

// Append appends a single message line to the log file
func (f *FileSink) Append(at time.Time, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("unable to open progress log: %w", err)
	}

	line := at.Format(TimestampLayout) + " : " + message + "\n"

	if _, err = file.WriteString(line); err != nil {
		_ = file.Close()

		return fmt.Errorf("unable to write progress log: %w", err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("unable to close progress log: %w", err)
	}

	return nil
}

// MultiSink fans an event out to every sink, in order
type MultiSink []Sink

func (m MultiSink) StageCompleted(ctx context.Context, e Event) error {
	errs := make([]error, 0)

	for _, sink := range m {
		if err := sink.StageCompleted(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
