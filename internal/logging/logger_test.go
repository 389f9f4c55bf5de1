// Package logging includes tests for the zap logger helpers.
package logging

import "testing"

// TestNewDevelopmentLogger confirms the development logger builds and logs.
func TestNewDevelopmentLogger(t *testing.T) {
	t.Parallel()

	logger, err := New(true)
	if err != nil {
		t.Fatalf("New(true) error = %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush
	logger.Info("development logger ready")
}

// TestNewProductionLogger ensures the production logger configuration succeeds.
func TestNewProductionLogger(t *testing.T) {
	t.Parallel()

	logger, err := New(false)
	if err != nil {
		t.Fatalf("New(false) error = %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush
	logger.Info("production logger ready")
}

// TestInitLoggerReplacesGlobal verifies InitLogger swaps the package logger.
func TestInitLoggerReplacesGlobal(t *testing.T) {
	prev := L
	defer func() { L = prev }()

	if err := InitLogger(false); err != nil {
		t.Fatalf("InitLogger(false) error = %v", err)
	}
	if L == prev {
		t.Fatal("expected InitLogger to replace the global logger")
	}
	L.Info("global logger ready")
}
