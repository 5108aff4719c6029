package enginelog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevelAcceptsKnownVocabulary(t *testing.T) {
	require.Equal(t, LevelFatal, ParseLevel("fatal"))
	require.Equal(t, LevelError, ParseLevel("ERROR"))
	require.Equal(t, LevelWarn, ParseLevel("warning"))
	require.Equal(t, LevelWarn, ParseLevel("warn"))
	require.Equal(t, LevelDebug, ParseLevel("debug"))
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	require.Equal(t, LevelInfo, ParseLevel(""))
	require.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestNewBuildsAWorkingLogger(t *testing.T) {
	l, err := New(Settings{ProcessName: "test", Level: LevelDebug})
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("hello")
	l.Details(LevelInfo, "deploy outcome", map[string]string{"success": "true"})
	_ = l.Sync() // stderr sync commonly errors on some platforms; not a correctness signal
}
