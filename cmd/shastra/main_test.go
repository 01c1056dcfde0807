package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/shastra/config"
	"github.com/poiesic/shastra/core"
	"github.com/poiesic/shastra/rag"
)

// writeConfig writes a config with an empty store and a catalog whose
// sources do not exist.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.StorePath = filepath.Join(dir, "store")
	cfg.Texts = []config.TextConfig{
		{Name: "Bhagavad Gita", Tradition: "Vedic", Source: filepath.Join(dir, "missing.pdf"), Converter: "gita"},
		{Name: "Upanishads", Tradition: "Vedic", Source: filepath.Join(dir, "missing.json"), Converter: "json"},
	}
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.Save(path, cfg))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"shastra", "--env-file", ""}, args...))
	return out.String(), err
}

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	_, err := runApp(t, "--log-level", "verbose", "texts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestTextsCommand_EmptyStore(t *testing.T) {
	out, err := runApp(t, "--config", writeConfig(t), "texts")
	require.NoError(t, err)
	assert.Contains(t, out, "No texts built yet.")
}

func TestBuildCommand(t *testing.T) {
	t.Run("skips missing sources", func(t *testing.T) {
		out, err := runApp(t, "--config", writeConfig(t), "build", "--progress=false")
		require.NoError(t, err)
		assert.Contains(t, out, "SKIP: Bhagavad Gita")
		assert.Contains(t, out, "SKIP: Upanishads")
		assert.Contains(t, out, "0 of 2 texts built")
	})

	t.Run("unknown text", func(t *testing.T) {
		_, err := runApp(t, "--config", writeConfig(t), "build", "--text", "Vedas")
		require.ErrorIs(t, err, core.ErrScriptureNotFound)
	})
}

func TestAskCommand_RequiresQuestion(t *testing.T) {
	_, err := runApp(t, "--config", writeConfig(t), "ask")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question is required")
}

func TestAskCommand_UnknownText(t *testing.T) {
	_, err := runApp(t, "--config", writeConfig(t), "ask", "--text", "Vedas", "What is dharma?")
	require.ErrorIs(t, err, core.ErrScriptureNotFound)
}

func TestSelectTexts(t *testing.T) {
	cfg := config.Default()

	all, err := selectTexts(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, all, len(cfg.Texts))

	some, err := selectTexts(cfg, []string{"Manusmriti", "Bhagavad Gita"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "Manusmriti", some[0].Name)
	assert.Equal(t, "manusmriti", some[0].Converter)
}

func TestPrintAnswer(t *testing.T) {
	var out bytes.Buffer
	printAnswer(&out, &rag.Result{
		Outcome: rag.OutcomeAnswered,
		Response: core.AnswerResponse{
			Answer: "Nature has three modes [Bhagavad Gita] 14.5.",
			Verses: []core.RetrievedPassage{{
				Passage: core.PassageRecord{
					TextName: "Bhagavad Gita", Chapter: "14", Verse: "5",
					Translation: "Material nature consists of three modes.",
				},
				Scripture: "Bhagavad Gita",
				Score:     0.8123,
			}},
		},
	})

	s := out.String()
	assert.Contains(t, s, "Nature has three modes")
	assert.Contains(t, s, "Bhagavad Gita 14.5")
	assert.Contains(t, s, "0.812")
	assert.Contains(t, s, "Material nature consists of three modes.")
}

func TestPrintAnswer_NoVerses(t *testing.T) {
	var out bytes.Buffer
	printAnswer(&out, &rag.Result{
		Outcome:  rag.OutcomeGuardrailRejected,
		Response: core.AnswerResponse{Answer: rag.PrescriptionAnswer, Verses: []core.RetrievedPassage{}},
	})
	assert.Equal(t, rag.PrescriptionAnswer+"\n", out.String())
}

func TestLoadEnv(t *testing.T) {
	assert.NoError(t, loadEnv(""))
	assert.NoError(t, loadEnv(filepath.Join(t.TempDir(), "absent.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SHASTRA_CLI_TEST_KEY=abc\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SHASTRA_CLI_TEST_KEY") })
	require.NoError(t, loadEnv(path))
	assert.Equal(t, "abc", os.Getenv("SHASTRA_CLI_TEST_KEY"))
}

func TestReembedCommand_UnknownText(t *testing.T) {
	_, err := runApp(t, "--config", writeConfig(t), "reembed", "--text", "Vedas")
	require.ErrorIs(t, err, core.ErrScriptureNotFound)
}

func TestSearchCommand(t *testing.T) {
	t.Run("requires query", func(t *testing.T) {
		_, err := runApp(t, "--config", writeConfig(t), "search")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query is required")
	})

	t.Run("unknown text", func(t *testing.T) {
		_, err := runApp(t, "--config", writeConfig(t), "search", "--text", "Vedas", "karma")
		require.ErrorIs(t, err, core.ErrScriptureNotFound)
	})
}

func TestPrintHits(t *testing.T) {
	var out bytes.Buffer
	printHits(&out, []core.RetrievedPassage{{
		Passage: core.PassageRecord{TextName: "Manusmriti", Chapter: "2", Verse: "6", Translation: "The whole Veda is the source of the sacred law."},
		Score:   0.71234,
	}})
	assert.Equal(t, "Found 1 hits\n0: Manusmriti 2.6 'The whole Veda is the source of the sacred law.' [0.712]\n", out.String())
}
