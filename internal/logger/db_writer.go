package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	common_models "crm-analytics/internal/common/models"
	"crm-analytics/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from zap to the worker
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	Caller    string
	UserID    string
	RequestID string
	Time      time.Time
}

// LogSink persists one log record.
type LogSink interface {
	Insert(ctx context.Context, record common_models.Log) error
}

type mongoLogSink struct {
	collection *mongo.Collection
}

func NewMongoLogSink(mongodb *database.MongodbDB) LogSink {
	return &mongoLogSink{collection: mongodb.DB.Collection("logs")}
}

func (s *mongoLogSink) Insert(ctx context.Context, record common_models.Log) error {
	_, err := s.collection.InsertOne(ctx, record)
	return err
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	sink     LogSink
	logChan  chan LogEntry
	appId    string
	mu       sync.RWMutex
	closed   bool
	finished chan struct{}
}

// NewDBLogWriter initializes the writer and starts its worker
func NewDBLogWriter(sink LogSink, appId string) *DBLogWriter {
	writer := &DBLogWriter{
		sink:     sink,
		logChan:  make(chan LogEntry, 1000),
		appId:    appId,
		finished: make(chan struct{}),
	}

	go writer.processLogs()

	return writer
}

// AddLog never blocks; entries are dropped when the buffer is full or the
// writer is closed.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.logChan <- entry:
	default:
		fmt.Fprintln(os.Stderr, "DB log channel full, dropping log:", entry.Message)
	}
}

// Close stops accepting entries and waits, for at most two seconds, until
// the worker has persisted what is buffered.
func (w *DBLogWriter) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.logChan)
	}
	w.mu.Unlock()

	select {
	case <-w.finished:
	case <-time.After(2 * time.Second):
	}
}

func (w *DBLogWriter) processLogs() {
	defer close(w.finished)
	for entry := range w.logChan {
		created := entry.Time
		if created.IsZero() {
			created = time.Now()
		}
		record := common_models.Log{
			Message:      entry.Message,
			Level:        entry.Level.String(),
			LogLevelId:   mapLevelToInt(entry.Level),
			Caller:       entry.Caller,
			UserId:       entry.UserID,
			RequestId:    entry.RequestID,
			AppId:        w.appId,
			CreatedOnUtc: created.UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// Failures are ignored to keep the app running
		_ = w.sink.Insert(ctx, record)
		cancel()
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
