package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repertoire.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
corpus:
  - openings/stafford.pgn
  - openings/london
watch: true
trainer:
  automated_delay: 500ms
  hint_delay: 1s
  mistakes_before_hint: 2
  explore: true
log:
  level: debug
board:
  svg: board.svg
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"openings/stafford.pgn", "openings/london"}, cfg.Corpus)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 500*time.Millisecond, cfg.Trainer.AutomatedDelay)
	assert.Equal(t, time.Second, cfg.Trainer.HintDelay)
	assert.Equal(t, 2, cfg.Trainer.MistakesBeforeHint)
	assert.True(t, cfg.Trainer.Explore)
	assert.True(t, cfg.Trainer.ShowHints, "unset keys keep their default")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "repertoire.log", cfg.Log.File)
	assert.Equal(t, "board.svg", cfg.Board.SVG)
	assert.Len(t, cfg.TrainerOptions(), 4)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "bad yaml",
			body: "trainer: [",
			want: "parse",
		},
		{
			name: "bad duration",
			body: "trainer:\n  hint_delay: soon\n",
			want: "parse",
		},
		{
			name: "threshold below one",
			body: "trainer:\n  mistakes_before_hint: 0\n",
			want: "MistakesBeforeHint must be at least 1",
		},
		{
			name: "unknown level",
			body: "log:\n  level: loud\n",
			want: "Level must be one of",
		},
		{
			name: "empty corpus entry",
			body: "corpus:\n  - \"\"\n",
			want: "is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q but got %v", tt.want, err)
			}
		})
	}
}
