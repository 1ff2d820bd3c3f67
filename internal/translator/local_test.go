package translator

import (
	"context"
	"testing"

	"github.com/pricofy/assistant-bridge/internal/language"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTranslator struct {
	source, target string
}

func (r *recordingTranslator) Translate(_ context.Context, texts []string, source, target string) ([]string, error) {
	r.source, r.target = source, target
	return texts, nil
}

func TestLocalIdentify_Identify(t *testing.T) {
	t.Parallel()

	l := NewLocalIdentify(&recordingTranslator{})

	tests := []struct {
		name     string
		text     string
		wantLang string
	}{
		{
			name:     "french",
			text:     "Bonjour, je voudrais réserver une table pour deux personnes ce soir s'il vous plaît.",
			wantLang: "fr",
		},
		{
			name:     "german",
			text:     "Guten Abend, ich möchte bitte einen Tisch für zwei Personen für heute Abend reservieren.",
			wantLang: "de",
		},
		{
			name:     "japanese",
			text:     "こんにちは、今晩二人分の席を予約したいのですが。",
			wantLang: "ja",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := l.Identify(context.Background(), tt.text)
			require.NoError(t, err)

			top, ok := res.Top()
			require.True(t, ok)
			assert.Equal(t, tt.wantLang, top.Language)
			assert.Greater(t, top.Confidence, 0.0)
		})
	}
}

func TestLocalIdentify_NoResult(t *testing.T) {
	t.Parallel()

	l := NewLocalIdentify(&recordingTranslator{})

	for _, text := range []string{"", "   ", "1234 !!"} {
		res, err := l.Identify(context.Background(), text)
		require.NoError(t, err)

		_, ok := res.Top()
		assert.False(t, ok, "text %q should have no result", text)
	}
}

func TestLocalIdentify_DelegatesTranslate(t *testing.T) {
	t.Parallel()

	next := &recordingTranslator{}
	l := NewLocalIdentify(next)

	out, err := l.Translate(context.Background(), []string{"Hola"}, "es", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hola"}, out)
	assert.Equal(t, "es", next.source)
	assert.Equal(t, "en", next.target)
}

func TestLocalIdentify_ServiceCodes(t *testing.T) {
	t.Parallel()

	for lang, code := range serviceCodes {
		assert.True(t, language.IsSupported(code), "%s maps to unsupported code %q", lang, code)
	}
}
