package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	t.Run("with nil writer defaults to stderr", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected logger to be created")
		}
	})

	t.Run("writes to provided writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello")
		if buf.Len() == 0 {
			t.Error("expected log output")
		}
	})

	t.Run("WithLogger attaches key-value pairs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "engine")
		logger.Info("hello")
		if !strings.Contains(buf.String(), "component=engine") {
			t.Errorf("expected component field in output, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel enables debug output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		logger.Debug("hidden")
		if buf.Len() != 0 {
			t.Errorf("expected debug to be suppressed at default level, got %q", buf.String())
		}

		SetLogLevel(logger, log.DebugLevel)
		logger.Debug("visible")
		if buf.Len() == 0 {
			t.Error("expected debug output after lowering the level")
		}
	})
}

func TestGenerateState(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		state, err := GenerateState()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if state == "" {
			t.Fatal("expected non-empty state")
		}
		if seen[state] {
			t.Fatalf("state %s generated twice", state)
		}
		seen[state] = true
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(pretty) <= len(compact) {
		t.Error("expected pretty output to be longer than compact")
	}
}
