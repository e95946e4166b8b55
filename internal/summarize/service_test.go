package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacebio/knowledge-engine/internal/config"
)

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("First one. Second one! Third? Fourth without end")
	assert.Equal(t, []string{"First one.", "Second one!", "Third?", "Fourth without end"}, sentences)
}

func TestSplitSentencesKeepsAbbreviationFreeText(t *testing.T) {
	assert.Empty(t, splitSentences(""))
	assert.Equal(t, []string{"One."}, splitSentences("One."))
}

func TestChunk(t *testing.T) {
	t.Run("packs sentences up to limit", func(t *testing.T) {
		text := "Aaaa bbbb. Cccc dddd. Eeee ffff."
		chunks := chunk(text, 22)
		assert.Equal(t, []string{"Aaaa bbbb. Cccc dddd.", "Eeee ffff."}, chunks)
	})

	t.Run("hard cuts an oversized sentence", func(t *testing.T) {
		long := strings.Repeat("x", 45)
		chunks := chunk(long+". Short.", 20)
		require.Len(t, chunks, 4)
		assert.Equal(t, strings.Repeat("x", 20), chunks[0])
		assert.Equal(t, strings.Repeat("x", 20), chunks[1])
		assert.Equal(t, "xxxxx.", chunks[2])
		assert.Equal(t, "Short.", chunks[3])
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 20)
		}
	})

	t.Run("no limit keeps text whole", func(t *testing.T) {
		assert.Equal(t, []string{"abc"}, chunk("abc", 0))
	})
}

func TestFirstSentences(t *testing.T) {
	text := "One. Two. Three. Four."
	assert.Equal(t, "One. Two. Three.", firstSentences(text, 3))
	assert.Equal(t, "One. Two. Three. Four.", firstSentences(text, 10))
}

type stubEngine struct {
	summaries map[string]string
	err       error
	calls     int
}

func (e *stubEngine) Summarize(ctx context.Context, text string) (string, error) {
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	if s, ok := e.summaries[text]; ok {
		return s, nil
	}
	return "summary", nil
}

func testConfig() config.SummarizerConfig {
	return config.SummarizerConfig{
		MaxChunkChars:     1800,
		FallbackSentences: 3,
	}
}

func TestSummarize(t *testing.T) {
	t.Run("empty input yields empty summary", func(t *testing.T) {
		svc := NewService(&stubEngine{}, testConfig(), zerolog.Nop(), nil)
		assert.Empty(t, svc.Summarize(context.Background(), "   "))
	})

	t.Run("no engine uses first sentences", func(t *testing.T) {
		svc := NewService(nil, testConfig(), zerolog.Nop(), nil)
		got := svc.Summarize(context.Background(), "One. Two. Three. Four. Five.")
		assert.Equal(t, "One. Two. Three.", got)
	})

	t.Run("engine summaries are joined per chunk", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxChunkChars = 12
		engine := &stubEngine{summaries: map[string]string{
			"First part.": "fp",
			"Second one.": "so",
		}}
		svc := NewService(engine, cfg, zerolog.Nop(), nil)

		got := svc.Summarize(context.Background(), "First part. Second one.")
		assert.Equal(t, "fp\nso", got)
		assert.Equal(t, 2, engine.calls)
	})

	t.Run("engine failure falls back to first sentences", func(t *testing.T) {
		engine := &stubEngine{err: errors.New("model unavailable")}
		svc := NewService(engine, testConfig(), zerolog.Nop(), nil)

		got := svc.Summarize(context.Background(), "One. Two. Three. Four.")
		assert.Equal(t, "One. Two. Three.", got)
	})
}
