package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.FatalLevel, GetLevel("fatal"))
	assert.Equal(t, logrus.TraceLevel, GetLevel("trace"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("info"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(""))
	assert.Equal(t, logrus.InfoLevel, GetLevel("chatty"))
}

func TestOutput(t *testing.T) {
	assert.Equal(t, os.Stdout, Output(LoggerSetupParams{}))

	name := filepath.Join(t.TempDir(), "server")
	w := Output(LoggerSetupParams{LogFileName: name})
	lj, ok := w.(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, name+".log", lj.Filename)

	_, err := w.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, lj.Close())
	data, err := os.ReadFile(name + ".log")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	mirrored := Output(LoggerSetupParams{LogFileName: name + ".log", LogToStdout: true})
	_, isFile := mirrored.(*lumberjack.Logger)
	assert.False(t, isFile)
}
