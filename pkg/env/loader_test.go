package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	assert.NotNil(t, l.vars)
	assert.Equal(t, DefaultPrefix, l.prefix)
	assert.False(t, l.Loaded())
}

func TestDefaultLoader_Load(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := `# Comment
FOO=bar
BAZ="quoted value"
EMPTY=
SINGLE_QUOTE='single'
export EXPORTED=yes
not a pair
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0644))

	l := NewLoader()
	require.NoError(t, l.Load(envFile))
	assert.True(t, l.Loaded())
	assert.Equal(t, "bar", l.vars["FOO"])
	assert.Equal(t, "quoted value", l.vars["BAZ"])
	assert.Equal(t, "", l.vars["EMPTY"])
	assert.Equal(t, "single", l.vars["SINGLE_QUOTE"])
	assert.Equal(t, "yes", l.vars["EXPORTED"])
	assert.Len(t, l.vars, 5)
}

func TestDefaultLoader_Load_FileNotFound(t *testing.T) {
	l := NewLoader()
	err := l.Load("/nonexistent/.env")
	assert.Error(t, err)
	assert.False(t, l.Loaded())
}

func TestDefaultLoader_Get(t *testing.T) {
	l := NewLoader()
	l.vars["QALABS_TEST_KEY"] = "from_file"
	l.vars["QALABS_TEST_SHADOWED"] = "from_file"
	t.Setenv("QALABS_TEST_SHADOWED", "from_os")

	assert.Equal(t, "from_file", l.Get("QALABS_TEST_KEY"))
	assert.Equal(t, "from_os", l.Get("QALABS_TEST_SHADOWED"))
	assert.Equal(t, "", l.Get("QALABS_TEST_NONEXISTENT"))
}

func TestDefaultLoader_Lookup(t *testing.T) {
	l := NewLoader()
	l.vars["QALABS_TEST_EMPTY"] = ""
	l.vars["QALABS_TEST_SET"] = "1"

	tests := []struct {
		key   string
		value string
		ok    bool
	}{
		{"QALABS_TEST_SET", "1", true},
		{"QALABS_TEST_EMPTY", "", false},
		{"QALABS_TEST_MISSING", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, ok := l.Lookup(tt.key)
			assert.Equal(t, tt.value, v)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestDefaultLoader_GetRequired(t *testing.T) {
	l := NewLoader()
	l.vars["EXISTS"] = "value"

	v, err := l.GetRequired("EXISTS")
	assert.NoError(t, err)
	assert.Equal(t, "value", v)

	_, err = l.GetRequired("QALABS_TEST_MISSING")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "QALABS_TEST_MISSING")
}

func TestDefaultLoader_GetWithDefault(t *testing.T) {
	l := NewLoader()
	l.vars["EXISTS"] = "value"

	assert.Equal(t, "value", l.GetWithDefault("EXISTS", "default"))
	assert.Equal(t, "default", l.GetWithDefault("QALABS_TEST_MISSING", "default"))
}

func TestDefaultLoader_Name(t *testing.T) {
	tests := []struct {
		prefix  string
		setting string
		want    string
	}{
		{DefaultPrefix, "server.addr", "QALABS_SERVER_ADDR"},
		{DefaultPrefix, "sessions.idle_timeout", "QALABS_SESSIONS_IDLE_TIMEOUT"},
		{DefaultPrefix, "history_path", "QALABS_HISTORY_PATH"},
		{"LAB_", "log.verbose", "LAB_LOG_VERBOSE"},
		{"", "catalog-path", "CATALOG_PATH"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, NewLoaderWithPrefix(tt.prefix).Name(tt.setting))
		})
	}
}

func TestDefaultLoader_Set(t *testing.T) {
	t.Setenv("QALABS_TEST_SET_VAR", "")
	l := NewLoader()
	require.NoError(t, l.Set("QALABS_TEST_SET_VAR", "my_value"))
	assert.Equal(t, "my_value", l.Get("QALABS_TEST_SET_VAR"))
	assert.Equal(t, "my_value", os.Getenv("QALABS_TEST_SET_VAR"))
}

func TestDefaultLoader_All(t *testing.T) {
	l := NewLoader()
	l.vars["A"] = "1"
	l.vars["B"] = "2"

	all := l.All()
	assert.Equal(t, "1", all["A"])
	assert.Equal(t, "2", all["B"])

	all["C"] = "3"
	assert.Empty(t, l.vars["C"])
}
