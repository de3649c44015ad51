package logger

import (
	"os"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/config"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger with additional functionality
type Logger struct {
	*logrus.Logger
}

// NewLogger creates a new structured logger instance
func NewLogger(cfg *config.Config) *Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return &Logger{Logger: log}
}

// WithTenant adds the tenant partition to log entries
func (l *Logger) WithTenant(t tenant.Tenant) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"client_id": t.ClientID,
		"tenant":    t.Schema,
	})
}

// WithUser adds user context to log entries
func (l *Logger) WithUser(userID string) *logrus.Entry {
	return l.WithField("user_id", userID)
}

// WithRequest adds request context to log entries
func (l *Logger) WithRequest(requestID string) *logrus.Entry {
	return l.WithField("request_id", requestID)
}

// SecurityEvent returns an entry tagged for access-control auditing
func (l *Logger) SecurityEvent(userID, role, action, resourceID string) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"event":       "security_violation",
		"user_id":     userID,
		"role":        role,
		"action":      action,
		"resource_id": resourceID,
	})
}
