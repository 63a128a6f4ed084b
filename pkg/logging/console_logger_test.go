package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLogger_Levels(t *testing.T) {
	tests := []struct {
		name string
		log  func(l *ConsoleLogger)
		want string
	}{
		{"info", func(l *ConsoleLogger) { l.Info("hello world") }, "INFO"},
		{"warn", func(l *ConsoleLogger) { l.Warn("hello world") }, "WARN"},
		{"error", func(l *ConsoleLogger) { l.Error("hello world") }, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewConsoleLoggerTo(&buf, false))

			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "hello world")
		})
	}
}

func TestConsoleLogger_Debug(t *testing.T) {
	var quiet, loud bytes.Buffer
	NewConsoleLoggerTo(&quiet, false).Debug("debug info")
	NewConsoleLoggerTo(&loud, true).Debug("debug info")

	assert.Empty(t, quiet.String())
	assert.Contains(t, loud.String(), "debug info")
}

func TestConsoleLogger_WithFields_PrintsDefaults(t *testing.T) {
	var buf bytes.Buffer
	base := NewConsoleLoggerTo(&buf, false)
	child := base.WithFields(
		StringField("scenario_id", "coupon"),
		StringField("app", "lab"),
	)

	child.Info("applied", IntField("total", 90))

	out := buf.String()
	assert.Contains(t, out, "app=lab, scenario_id=coupon, total=90")

	buf.Reset()
	base.Info("plain")
	assert.NotContains(t, buf.String(), "scenario_id")
}

func TestConsoleLogger_LogDetection(t *testing.T) {
	tests := []struct {
		name      string
		detection DetectionLog
		color     string
		tag       string
	}{
		{
			name: "success",
			detection: DetectionLog{
				ScenarioID: "age-gate",
				Kind:       "success",
				EdgeCaseID: "zero",
				Message:    "Zero accepted.",
			},
			color: colorGreen,
			tag:   "[success:zero]",
		},
		{
			name: "error",
			detection: DetectionLog{
				ScenarioID: "age-gate",
				Kind:       "error",
				Message:    "Please enter an age.",
			},
			color: colorRed,
			tag:   "[error]",
		},
		{
			name: "info",
			detection: DetectionLog{
				ScenarioID: "age-gate",
				Kind:       "info",
				Message:    "Standard valid input.",
			},
			color: colorBlue,
			tag:   "[info]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewConsoleLoggerTo(&buf, false).LogDetection(tt.detection)

			out := buf.String()
			assert.Contains(t, out, tt.color+tt.tag)
			assert.Contains(t, out, tt.detection.Message)
			assert.True(t, strings.HasSuffix(out, "\n"))
		})
	}
}

func TestConsoleLogger_Close(t *testing.T) {
	assert.NoError(t, NewConsoleLoggerTo(&bytes.Buffer{}, false).Close())
}
