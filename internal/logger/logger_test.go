package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/config"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func newBufferedLogger(buf *bytes.Buffer) *Logger {
	l := &Logger{Logger: logrus.New()}
	l.SetOutput(buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.DebugLevel)
	return l
}

func TestNewLogger(t *testing.T) {
	cfg := &config.Config{Logging: config.LoggingConfig{Level: "debug", Format: "text"}}
	l := NewLogger(cfg)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)

	cfg.Logging = config.LoggingConfig{Level: "bogus", Format: "json"}
	l = NewLogger(cfg)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}

func TestWithTenant(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedLogger(&buf)

	l.WithTenant(tenant.Resolve("Acme-01")).Info("dashboard built")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Acme-01", entry["client_id"])
	assert.Equal(t, "tenant_acme_01", entry["tenant"])
}

func TestGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	g := NewGormLogger(newBufferedLogger(&buf), false)

	g.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, buf.String(), "fast successful queries are not logged without log_queries")

	g.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
	assert.Contains(t, buf.String(), "query failed")

	buf.Reset()
	silent := g.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
	assert.Empty(t, buf.String())
}

func TestSecurityEvent(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedLogger(&buf)

	l.SecurityEvent("u1", "client", "resolve_tenant", "c2").Warn("Security violation detected")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "security_violation", entry["event"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.Equal(t, "resolve_tenant", entry["action"])
	assert.Equal(t, "c2", entry["resource_id"])
	assert.Equal(t, "warning", entry["level"])
}

func TestJSONFieldNames(t *testing.T) {
	l := NewLogger(&config.Config{Logging: config.LoggingConfig{Level: "info", Format: "json"}})
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.Info("ready")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ready", entry["message"])
	assert.Contains(t, entry, "timestamp")
}
