package logger

import (
	"context"
	"fmt"
	"time"

	"plm-connector/internal/config"
	"plm-connector/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level   zapcore.Level
	Message string
	Caller  string // Function name
	Fields  map[string]interface{}
	Time    time.Time
}

// AppLog is the persisted form of a log entry.
type AppLog struct {
	AppID     string                 `bson:"app_id" json:"app_id"`
	Level     string                 `bson:"level" json:"level"`
	LevelID   int                    `bson:"level_id" json:"level_id"`
	Message   string                 `bson:"message" json:"message"`
	Caller    string                 `bson:"caller,omitempty" json:"caller,omitempty"`
	Fields    map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	collection *mongo.Collection
	logChan    chan LogEntry
	appId      string
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(mongodb *database.MongodbDB, cfg *config.Config) *DBLogWriter {
	writer := &DBLogWriter{
		collection: mongodb.DB.Collection("app_logs"),
		logChan:    make(chan LogEntry, 1000), // Buffer 1000 logs
		appId:      cfg.AppId,
	}

	// Start the background worker immediately
	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap core
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop rather than block the request path
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		record := toAppLog(w.appId, entry)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// Insert errors are ignored to keep the app running
		_, _ = w.collection.InsertOne(ctx, record)
		cancel()
	}
}

func toAppLog(appID string, entry LogEntry) AppLog {
	created := entry.Time
	if created.IsZero() {
		created = time.Now()
	}
	return AppLog{
		AppID:     appID,
		Level:     entry.Level.String(),
		LevelID:   mapLevelToInt(entry.Level),
		Message:   entry.Message,
		Caller:    entry.Caller,
		Fields:    entry.Fields,
		CreatedAt: created.UTC(),
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
