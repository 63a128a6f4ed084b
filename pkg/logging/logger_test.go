package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    LogLevel
		wantErr bool
	}{
		{name: "empty", input: "", want: LevelInfo},
		{name: "debug", input: "debug", want: LevelDebug},
		{name: "upper", input: "WARN", want: LevelWarn},
		{name: "warning alias", input: "warning", want: LevelWarn},
		{name: "padded", input: "  error ", want: LevelError},
		{name: "unknown", input: "loud", want: LevelInfo, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldHelpers(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"LogField", LogField("k", 1), "k", 1},
		{"StringField", StringField("k", "v"), "k", "v"},
		{"IntField", IntField("n", 3), "n", 3},
		{"Int64Field", Int64Field("n", 4), "n", int64(4)},
		{"Float64Field", Float64Field("f", 1.5), "f", 1.5},
		{"BoolField", BoolField("b", true), "b", true},
		{"ErrorField", ErrorField(errors.New("boom")), "error", "boom"},
		{"ErrorField nil", ErrorField(nil), "error", "<nil>"},
		{"ScenarioField", ScenarioField("age-gate"), "scenario_id", "age-gate"},
		{"SessionField", SessionField("s-1"), "session_id", "s-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.field.Key)
			assert.Equal(t, tt.value, tt.field.Value)
		})
	}
}

func TestLoggerImplementations(t *testing.T) {
	var _ Logger = (*JSONLogger)(nil)
	var _ Logger = (*ConsoleLogger)(nil)
	var _ Logger = (*MultiLogger)(nil)
	var _ Logger = (*ZapLogger)(nil)
	var _ Logger = NullLogger{}
}
