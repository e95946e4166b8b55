package translate

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/spacebio/knowledge-engine/internal/observability"
)

// DefaultTargetLang is used when the caller names no target language.
const DefaultTargetLang = "en"

// Service translates batches of texts. Each item falls back independently:
// a failed translation returns the original text in its slot, so the output
// always has the same length and order as the input.
type Service struct {
	translator Translator
	logger     zerolog.Logger
	metrics    *observability.Metrics
}

// NewService creates a translate service. translator and metrics may be nil;
// without a translator every item falls back to its original text.
func NewService(translator Translator, logger zerolog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		translator: translator,
		logger:     logger,
		metrics:    metrics,
	}
}

// TranslateAll translates each text into targetLang, item by item.
func (s *Service) TranslateAll(ctx context.Context, texts []string, targetLang string) []string {
	if targetLang == "" {
		targetLang = DefaultTargetLang
	}

	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = text
		if s.translator == nil {
			s.metrics.RecordTranslateFallback()
			continue
		}
		translated, err := s.translator.Translate(ctx, text, targetLang)
		if err != nil {
			s.metrics.RecordTranslateFallback()
			s.logger.Warn().Err(err).Str("lang", targetLang).Msg("Translation failed, returning original text")
			continue
		}
		out[i] = translated
	}
	return out
}
