package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// DBCore is a custom Zap Core that intercepts logs.
// Every entry is rendered into the in-memory LogBuffer; entries at Info and above
// are also handed to the async DB writer when one is configured.
type DBCore struct {
	zapcore.Core
	enc    zapcore.Encoder
	buffer *LogBuffer
	writer *DBLogWriter
	fields map[string]interface{}
}

// NewDBCore wraps an existing core (like console logger) and adds buffer and DB logging
func NewDBCore(baseCore zapcore.Core, enc zapcore.Encoder, buffer *LogBuffer, writer *DBLogWriter) zapcore.Core {
	return &DBCore{
		Core:   baseCore,
		enc:    enc,
		buffer: buffer,
		writer: writer,
		fields: map[string]interface{}{},
	}
}

// With keeps the tee in place for child loggers.
func (c *DBCore) With(fields []zapcore.Field) zapcore.Core {
	enc := c.enc.Clone()
	inherited := make(map[string]interface{}, len(c.fields)+len(fields))
	for k, v := range c.fields {
		inherited[k] = v
	}
	mapEnc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
		f.AddTo(mapEnc)
	}
	for k, v := range mapEnc.Fields {
		inherited[k] = v
	}

	return &DBCore{
		Core:   c.Core.With(fields),
		enc:    enc,
		buffer: c.buffer,
		writer: c.writer,
		fields: inherited,
	}
}

// Write is called for every log entry
func (c *DBCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if c.buffer != nil {
		if buf, err := c.enc.EncodeEntry(entry, fields); err == nil {
			c.buffer.Append(strings.TrimRight(buf.String(), "\n"))
			buf.Free()
		}
	}

	if c.writer != nil && entry.Level >= zapcore.InfoLevel {
		mapEnc := zapcore.NewMapObjectEncoder()
		for k, v := range c.fields {
			mapEnc.Fields[k] = v
		}
		for _, f := range fields {
			f.AddTo(mapEnc)
		}

		c.writer.AddLog(LogEntry{
			Level:   entry.Level,
			Message: entry.Message,
			Caller:  entry.Caller.Function,
			Fields:  mapEnc.Fields,
			Time:    entry.Time,
		})
	}

	// Call the underlying core (so it still prints to Console/File)
	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *DBCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
