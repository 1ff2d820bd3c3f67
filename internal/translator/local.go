package translator

import (
	"context"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/pricofy/assistant-bridge/internal/domain"
)

// serviceCodes maps detected languages to the codes the translation service
// uses. Other languages keep whatlanggo's own name, which no support table
// lists, so they are reported as unsupported rather than unknown.
var serviceCodes = map[whatlanggo.Lang]string{
	whatlanggo.Arb: "ar",
	whatlanggo.Cmn: "zh",
	whatlanggo.Ces: "cz",
	whatlanggo.Dan: "da",
	whatlanggo.Nld: "nl",
	whatlanggo.Eng: "en",
	whatlanggo.Fin: "fi",
	whatlanggo.Fra: "fr",
	whatlanggo.Deu: "de",
	whatlanggo.Hin: "hi",
	whatlanggo.Hun: "hu",
	whatlanggo.Ita: "it",
	whatlanggo.Jpn: "ja",
	whatlanggo.Kor: "ko",
	whatlanggo.Nob: "nb",
	whatlanggo.Pol: "pl",
	whatlanggo.Por: "pt",
	whatlanggo.Rus: "ru",
	whatlanggo.Spa: "es",
	whatlanggo.Swe: "sv",
	whatlanggo.Tur: "tr",
}

// Translating is the translation half of an engine.
type Translating interface {
	Translate(ctx context.Context, texts []string, source, target string) ([]string, error)
}

// LocalIdentify identifies languages offline and delegates translation to
// the wrapped engine. It saves one remote call per identification.
type LocalIdentify struct {
	Translating
}

// NewLocalIdentify wraps next with offline language identification.
func NewLocalIdentify(next Translating) *LocalIdentify {
	return &LocalIdentify{Translating: next}
}

// Identify detects the language of text. An empty Identification means the
// language could not be determined.
func (l *LocalIdentify) Identify(_ context.Context, text string) (*domain.Identification, error) {
	if strings.TrimSpace(text) == "" {
		return &domain.Identification{}, nil
	}

	info := whatlanggo.Detect(text)
	if info.Lang < 0 || info.Script == nil {
		return &domain.Identification{}, nil
	}

	code, ok := serviceCodes[info.Lang]
	if !ok {
		code = info.Lang.String()
	}

	return &domain.Identification{
		Languages: []domain.LanguageCandidate{{Language: code, Confidence: info.Confidence}},
	}, nil
}
