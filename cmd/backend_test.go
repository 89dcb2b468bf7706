package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database/mock"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

func TestOpenStore_RequiresURL(t *testing.T) {
	_, err := openStore(context.Background(), &config.DatabaseConfig{Driver: config.DriverPostgres})
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("expected DATABASE_URL error, got %v", err)
	}
}

func TestOpenStore_UnsupportedDriver(t *testing.T) {
	_, err := openStore(context.Background(), &config.DatabaseConfig{Driver: "sqlite", URL: "file.db"})
	if err == nil || !strings.Contains(err.Error(), "unsupported DATABASE_DRIVER") {
		t.Errorf("expected unsupported driver error, got %v", err)
	}
}

func TestOpenMigrator_UnsupportedDriver(t *testing.T) {
	_, err := openMigrator(&config.DatabaseConfig{Driver: "sqlite", URL: "file.db"})
	if err == nil || !strings.Contains(err.Error(), "unsupported DATABASE_DRIVER") {
		t.Errorf("expected unsupported driver error, got %v", err)
	}
}

func TestAppClose_LogsCloseFailure(t *testing.T) {
	logger.Reset()
	t.Cleanup(logger.Reset)
	var buf bytes.Buffer
	logger.Init(logger.Options{Output: &buf})

	store := mock.NewMockStore()
	store.CloseError = errors.New("connection reset")
	a := &app{cfg: config.Defaults(), store: store}

	a.Close()

	if !store.Closed() {
		t.Error("expected store to be closed")
	}
	if !strings.Contains(buf.String(), "closing database") || !strings.Contains(buf.String(), "connection reset") {
		t.Errorf("expected close failure to be logged, got %q", buf.String())
	}
}
