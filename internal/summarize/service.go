package summarize

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spacebio/knowledge-engine/internal/config"
	"github.com/spacebio/knowledge-engine/internal/observability"
)

// Service summarizes free text. With an engine wired, the text is chunked to
// the engine's input window and the per-chunk summaries are joined; without
// one, or when the engine fails, the first sentences of the text stand in.
// The service never fails: empty input yields an empty summary.
type Service struct {
	engine  Engine
	cfg     config.SummarizerConfig
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// NewService creates a summarize service. engine and metrics may be nil.
func NewService(engine Engine, cfg config.SummarizerConfig, logger zerolog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		engine:  engine,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Summarize condenses the text.
func (s *Service) Summarize(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if s.engine == nil {
		return s.fallback(text)
	}

	chunks := chunk(text, s.cfg.MaxChunkChars)
	pieces := make([]string, 0, len(chunks))
	for _, c := range chunks {
		piece, err := s.engine.Summarize(ctx, c)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Summarization engine failed, using extractive fallback")
			return s.fallback(text)
		}
		pieces = append(pieces, strings.TrimSpace(piece))
	}
	return strings.Join(pieces, "\n")
}

func (s *Service) fallback(text string) string {
	s.metrics.RecordSummarizeFallback()
	return firstSentences(text, s.cfg.FallbackSentences)
}
