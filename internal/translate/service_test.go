package translate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTranslator struct {
	out map[string]string
	err map[string]error
}

func (s *stubTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if err, ok := s.err[text]; ok {
		return "", err
	}
	return s.out[text], nil
}

func TestTranslateAll(t *testing.T) {
	t.Run("translates each item", func(t *testing.T) {
		translator := &stubTranslator{out: map[string]string{
			"hola":    "hello",
			"bonjour": "hello there",
		}}
		svc := NewService(translator, zerolog.Nop(), nil)

		got := svc.TranslateAll(context.Background(), []string{"hola", "bonjour"}, "en")
		assert.Equal(t, []string{"hello", "hello there"}, got)
	})

	t.Run("failed item falls back, others still translate", func(t *testing.T) {
		translator := &stubTranslator{
			out: map[string]string{"hola": "hello"},
			err: map[string]error{"kaputt": errors.New("upstream down")},
		}
		svc := NewService(translator, zerolog.Nop(), nil)

		got := svc.TranslateAll(context.Background(), []string{"hola", "kaputt"}, "en")
		assert.Equal(t, []string{"hello", "kaputt"}, got)
	})

	t.Run("no translator returns originals", func(t *testing.T) {
		svc := NewService(nil, zerolog.Nop(), nil)

		got := svc.TranslateAll(context.Background(), []string{"uno", "dos"}, "en")
		assert.Equal(t, []string{"uno", "dos"}, got)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		svc := NewService(nil, zerolog.Nop(), nil)
		assert.Empty(t, svc.TranslateAll(context.Background(), nil, "en"))
	})
}

func TestClientTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/translate", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"translatedText": "hello"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	got, err := client.Translate(context.Background(), "hola", "en")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestClientTranslateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Translate(context.Background(), "hola", "en")
	require.Error(t, err)
}
