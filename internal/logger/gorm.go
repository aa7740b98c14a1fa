package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQueryThreshold is the duration after which a query is logged as slow.
const DefaultSlowQueryThreshold = 200 * time.Millisecond

// GormLogger routes GORM's logging through the structured Logger.
type GormLogger struct {
	log           *Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// Gorm returns a gorm logger.Interface backed by l. Record-not-found errors
// are not logged, because repositories treat them as empty results.
func Gorm(l *Logger, level gormlogger.LogLevel) *GormLogger {
	return &GormLogger{
		log:           l.WithComponent("gorm"),
		level:         level,
		slowThreshold: DefaultSlowQueryThreshold,
	}
}

// LogMode implements gormlogger.Interface.
func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface.
func (g *GormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.Info(fmt.Sprintf(msg, args...), nil)
	}
}

// Warn implements gormlogger.Interface.
func (g *GormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.Warn(fmt.Sprintf(msg, args...), nil)
	}
}

// Error implements gormlogger.Interface.
func (g *GormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.Error(fmt.Sprintf(msg, args...), nil, nil)
	}
}

// Trace implements gormlogger.Interface.
func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.log.Error("Query failed", err, map[string]interface{}{
			"sql":         sql,
			"rows":        rows,
			"duration_ms": elapsed.Milliseconds(),
		})
	case elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.log.Warn("Slow query", map[string]interface{}{
			"sql":         sql,
			"rows":        rows,
			"duration_ms": elapsed.Milliseconds(),
			"threshold":   g.slowThreshold.String(),
		})
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.log.Debug("Query executed", map[string]interface{}{
			"sql":         sql,
			"rows":        rows,
			"duration_ms": elapsed.Milliseconds(),
		})
	}
}
