package debug

import (
	"bytes"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func reset() {
	l = nopLogger{}
	once = sync.Once{}
}

func TestLogger_Disabled(t *testing.T) {
	reset()
	t.Setenv("LIBADMIN_DEBUG", "")
	buf := captureLog(t)

	Init(false)
	InitLogger()

	GetLogger().Debug("should not appear")
	GetLogger().Debugf("should not appear: %s", "test")

	assert.Zero(t, buf.Len())
}

func TestLogger_EnabledFromConfig(t *testing.T) {
	reset()
	t.Setenv("LIBADMIN_DEBUG", "")
	buf := captureLog(t)

	Init(true)
	InitLogger()
	GetLogger().Debugf("fetched %d users", 3)

	out := buf.String()
	assert.Contains(t, out, "[DEBUG]")
	assert.Contains(t, out, "fetched 3 users")
}

func TestInit_EnvironmentOverride(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"1", true},
		{"true", true},
		{"false", false},
		{"garbage", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("LIBADMIN_DEBUG", tt.env)
			Init(false)
			assert.Equal(t, tt.want, Active.Enabled)
		})
	}
}

func TestInitLogger_DisabledCallDoesNotBlockLaterEnable(t *testing.T) {
	reset()
	t.Setenv("LIBADMIN_DEBUG", "")
	buf := captureLog(t)

	Init(false)
	InitLogger()
	_, isNop := GetLogger().(nopLogger)
	assert.True(t, isNop)

	Init(true)
	InitLogger()
	GetLogger().Debugf("hello")

	_, isStd := GetLogger().(stdLogger)
	assert.True(t, isStd)
	assert.Contains(t, buf.String(), "[DEBUG] hello")
}

func TestInitLogger_OnlyOnce(t *testing.T) {
	reset()
	t.Setenv("LIBADMIN_DEBUG", "")
	buf := captureLog(t)

	Init(true)
	InitLogger()
	InitLogger()

	assert.Equal(t, 1, strings.Count(buf.String(), "Debug logging enabled"))
}
