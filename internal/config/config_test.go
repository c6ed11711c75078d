package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trivia-backend/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, ":5555", cfg.TCPAddr)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "scoreboard.txt", cfg.ScoreboardFile)
	require.Equal(t, 5, cfg.QuestionsPerGame)
	require.Equal(t, 60*time.Second, cfg.AnswerTimeout)
	require.Equal(t, int64(4096), cfg.FrameReadLimit)
	require.Equal(t, 0, cfg.ConnRateLimit)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("TRIVIA_TCP_ADDR", ":6666")
	t.Setenv("TRIVIA_QUESTIONS_PER_GAME", "3")
	t.Setenv("TRIVIA_ANSWER_TIMEOUT", "5s")

	cfg, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, ":6666", cfg.TCPAddr)
	require.Equal(t, 3, cfg.QuestionsPerGame)
	require.Equal(t, 5*time.Second, cfg.AnswerTimeout)
}

func TestLoad_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TRIVIA_SCOREBOARD_FILE=scores.csv\n"), 0o644))

	// The loaded file leaks into the process env; undo it for other tests.
	t.Cleanup(func() { os.Unsetenv("TRIVIA_SCOREBOARD_FILE") })

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "scores.csv", cfg.ScoreboardFile)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
}

func TestLoad_InvalidQuestionsPerGame(t *testing.T) {
	t.Setenv("TRIVIA_QUESTIONS_PER_GAME", "0")

	_, err := config.Load("")
	require.Error(t, err)
}
