package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	// Create a new logger without webhooks
	l := NewLogger("", "")
	if l == nil {
		t.Fatal("Expected logger to be created, got nil")
	}

	// Test that logger methods don't panic
	l.Info("Test info message", "TEST")
	l.Warn("Test warning message", "TEST")
	l.Debug("Test debug message", "TEST")
	l.System("Test system message", "TEST")
	l.Success("Test success message", "TEST")

	l.Close()
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelSuccess, "SUCCESS"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelSystem, "SYSTEM"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLogLevelColor(t *testing.T) {
	levels := []LogLevel{
		LevelCritical,
		LevelError,
		LevelWarn,
		LevelSuccess,
		LevelInfo,
		LevelDebug,
		LevelSystem,
	}

	for _, level := range levels {
		t.Run(level.String(), func(t *testing.T) {
			color := level.Color()
			if color == "" {
				t.Error("Expected color to be non-empty")
			}
		})
	}
}

func TestLogLevelDiscordColor(t *testing.T) {
	tests := []struct {
		level LogLevel
		color int
	}{
		{LevelCritical, 0xFF0000},
		{LevelError, 0xFF0000},
		{LevelWarn, 0xFFFF00},
		{LevelSuccess, 0x00FF00},
		{LevelInfo, 0x0000FF},
		{LevelDebug, 0x800080},
		{LevelSystem, 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.DiscordColor(); got != tt.color {
				t.Errorf("LogLevel.DiscordColor() = %v, want %v", got, tt.color)
			}
		})
	}
}

func TestLogFileCreation(t *testing.T) {
	// Clean up logs directory before test
	logsDir := filepath.Join(".", "logs")
	os.RemoveAll(logsDir)

	l := NewLogger("", "")
	defer l.Close()

	// Check that logs directory was created
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		t.Error("Expected logs directory to be created")
	}

	// Check that log files were created
	combinedLog := filepath.Join(logsDir, "combined.log")
	errorLog := filepath.Join(logsDir, "error.log")

	if _, err := os.Stat(combinedLog); os.IsNotExist(err) {
		t.Error("Expected combined.log to be created")
	}

	if _, err := os.Stat(errorLog); os.IsNotExist(err) {
		t.Error("Expected error.log to be created")
	}
}

func TestGlobalLoggerInit(t *testing.T) {
	// Reset the global logger for this test
	logger = nil
	once = sync.Once{}

	l := Init("", "")
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}

	// Calling Init again should return the same logger
	l2 := Init("different", "different")
	if l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}

	// Get should return the same logger
	l3 := Get()
	if l != l3 {
		t.Error("Expected Get to return the same logger")
	}

	l.Close()
}

func TestLineFormatter(t *testing.T) {
	entry := logrus.NewEntry(logrus.New())
	entry.Time = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	entry.Message = "saved strikerdata"
	entry.Data = logrus.Fields{fieldLevel: LevelWarn, fieldPrefix: "STORE"}

	plain, err := (&lineFormatter{}).Format(entry)
	if err != nil {
		t.Fatalf("Format() returned error: %v", err)
	}
	want := "[2024-03-01 09:30:00] [WARN] [STORE]: saved strikerdata\n"
	if string(plain) != want {
		t.Errorf("Format() = %q, want %q", plain, want)
	}

	colored, _ := (&lineFormatter{colors: true}).Format(entry)
	if !strings.Contains(string(colored), LevelWarn.Color()+"WARN"+colorReset) {
		t.Errorf("colored Format() = %q, want ANSI level name", colored)
	}
}

func TestErrorFileHookOnlyErrors(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(io.Discard)
	base.SetLevel(logrus.TraceLevel)
	base.AddHook(&errorFileHook{out: &buf, formatter: &lineFormatter{}})

	base.WithFields(logrus.Fields{fieldLevel: LevelInfo, fieldPrefix: "T"}).Info("fine")
	base.WithFields(logrus.Fields{fieldLevel: LevelError, fieldPrefix: "T"}).Error("broken")

	out := buf.String()
	if strings.Contains(out, "fine") {
		t.Errorf("error hook wrote an info entry: %q", out)
	}
	if !strings.Contains(out, "[ERROR] [T]: broken") {
		t.Errorf("error hook output = %q, want the error entry", out)
	}
}

func TestLogrusLevelMapping(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected logrus.Level
	}{
		{LevelCritical, logrus.ErrorLevel},
		{LevelError, logrus.ErrorLevel},
		{LevelWarn, logrus.WarnLevel},
		{LevelSuccess, logrus.InfoLevel},
		{LevelInfo, logrus.InfoLevel},
		{LevelDebug, logrus.DebugLevel},
		{LevelSystem, logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.logrusLevel(); got != tt.expected {
				t.Errorf("logrusLevel() = %v, want %v", got, tt.expected)
			}
		})
	}
}
