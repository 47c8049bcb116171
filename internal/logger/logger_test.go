package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"reprasp/internal/config"
)

func TestHelpersUseInstalledLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	UseLogger(zap.New(core))
	t.Cleanup(func() { UseLogger(zap.NewNop()) })

	Infof("purged %d entries", 3)
	Warningf("slow %s", "query")
	L().Error("boom", zap.Int("code", 7))

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, "purged 3 entries", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(7), entries[2].ContextMap()["code"])
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetupWritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Logger: config.LoggerConfig{
		Directory: dir,
		Level:     "debug",
		Format:    "json",
		Rotation:  config.LogRotationConfig{MaxSize: 1, MaxBackups: 1, MaxAge: 1},
	}}
	require.NoError(t, Setup(cfg))
	t.Cleanup(func() { UseLogger(zap.NewNop()) })

	Debugf("hello %s", "file")
	require.NoError(t, SetLevel("error"))
	Infof("filtered")
	Sync()

	files, err := filepath.Glob(filepath.Join(dir, "reprasp-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.NotContains(t, string(data), "filtered")

	assert.Error(t, SetLevel("nope"))
}
