// Package handler bridges a dialogue engine that only speaks the base
// language and a translation engine, so users can chat in their own language.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pricofy/assistant-bridge/internal/domain"
	"github.com/pricofy/assistant-bridge/internal/language"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/pricofy/assistant-bridge/internal/handler"

// User-facing messages.
const (
	msgUndetected  = "Sorry, I am not able to detect the language you are speaking. Please try rephrasing."
	msgUnsupported = "Sorry, I do not know how to translate between %s and %s yet."
)

// ErrEmptyReply is returned when the dialogue engine produced no non-empty
// output text to send back to the user.
var ErrEmptyReply = errors.New("dialogue engine returned no reply text")

// Assistant runs dialogue turns.
type Assistant interface {
	Message(ctx context.Context, workspaceID, text string, convCtx json.RawMessage) (*domain.DialogueResult, error)
}

// Translator identifies and translates text.
type Translator interface {
	Identify(ctx context.Context, text string) (*domain.Identification, error)
	Translate(ctx context.Context, texts []string, source, target string) ([]string, error)
}

// AssistantFactory builds an Assistant from the caller's apikey.
type AssistantFactory func(apikey string) (Assistant, error)

// TranslatorFactory builds a Translator from the caller's apikey.
type TranslatorFactory func(apikey string) (Translator, error)

// Handler processes bridge requests. It holds no per-request state and is
// safe for concurrent use.
type Handler struct {
	newAssistant  AssistantFactory
	newTranslator TranslatorFactory
	logger        *zap.Logger
	tracer        trace.Tracer
}

// New creates a Handler.
func New(newAssistant AssistantFactory, newTranslator TranslatorFactory, logger *zap.Logger) *Handler {
	return &Handler{
		newAssistant:  newAssistant,
		newTranslator: newTranslator,
		logger:        logger.Named("handler"),
		tracer:        otel.Tracer(tracerName),
	}
}

// Handle processes one user turn.
//
// Anticipated problems (missing configuration, undetectable or unsupported
// language) are answered with a user-facing message and a nil error. Failures
// of the remote services and an empty reply are returned as errors.
func (h *Handler) Handle(ctx context.Context, req domain.Request) (*domain.Response, error) {
	sess, failure := h.setup(req)
	if failure != SetupOK {
		return failedResponse(failure.Message(), domain.EmptyJSON, ""), nil
	}

	text := req.Input.Text
	h.logger.Debug("User input", zap.String("text", text))

	convCtx := parseContext(req.Context)

	lang, ok, err := h.detectLanguage(ctx, sess.translator, text)
	if err != nil {
		return nil, err
	}
	if !ok {
		return failedResponse(msgUndetected, string(convCtx), ""), nil
	}

	h.logger.Debug("Detected user language", zap.String("language", lang))

	if !language.IsSupported(lang) {
		msg := fmt.Sprintf(msgUnsupported, language.Base, lang)
		return failedResponse(msg, string(convCtx), lang), nil
	}

	if lang != language.Base {
		translated, err := h.translate(ctx, sess.translator, []string{text}, lang, language.Base)
		if err != nil {
			return nil, fmt.Errorf("failed to translate input: %w", err)
		}
		text = translated[0]
	}

	// The user's language travels to the dialogue engine as an entity hint.
	text += languageTag(lang)
	h.logger.Debug("Text in base language for the assistant", zap.String("text", text))

	result, err := h.message(ctx, sess, text, convCtx)
	if err != nil {
		return nil, err
	}

	lines := replyLines(result.Output)
	if len(lines) == 0 {
		return nil, ErrEmptyReply
	}

	if lang != language.Base {
		lines, err = h.localizeReply(ctx, sess.translator, lines, lang)
		if err != nil {
			return nil, err
		}
	}

	output := result.Output
	output["text"] = lines

	return &domain.Response{
		Message:  lines[0],
		Context:  rawOr(result.Context, domain.EmptyJSON),
		Output:   output,
		Intents:  rawOr(result.Intents, "[]"),
		Language: lang,
	}, nil
}

// detectLanguage resolves the user's language. ok is false when a result was
// returned but its confidence is too low to trust.
func (h *Handler) detectLanguage(ctx context.Context, tr Translator, text string) (string, bool, error) {
	if text == "" {
		return language.Base, true, nil
	}

	res, err := h.identify(ctx, tr, text)
	if err != nil {
		return "", false, fmt.Errorf("failed to identify input language: %w", err)
	}

	top, found := res.Top()
	if !found {
		return language.Base, true, nil
	}

	if !language.Confident(top.Confidence) {
		h.logger.Info("Language detection below threshold",
			zap.String("language", top.Language),
			zap.Float64("confidence", top.Confidence))
		return "", false, nil
	}

	return top.Language, true, nil
}

// localizeReply translates the reply lines into target unless the reply
// already is in target or its language cannot be told with confidence.
func (h *Handler) localizeReply(ctx context.Context, tr Translator, lines []string, target string) ([]string, error) {
	res, err := h.identify(ctx, tr, strings.Join(lines, "\n"))
	if err != nil {
		return nil, fmt.Errorf("failed to identify reply language: %w", err)
	}

	top, found := res.Top()
	if !found || !language.Confident(top.Confidence) || top.Language == target {
		h.logger.Debug("Reply left untranslated", zap.String("target", target))
		return lines, nil
	}

	h.logger.Debug("Reply needs translation to target language",
		zap.String("detected", top.Language),
		zap.String("target", target))

	translated, err := h.translate(ctx, tr, lines, language.Base, target)
	if err != nil {
		return nil, fmt.Errorf("failed to translate reply: %w", err)
	}

	return translated, nil
}

func (h *Handler) identify(ctx context.Context, tr Translator, text string) (*domain.Identification, error) {
	ctx, span := h.tracer.Start(ctx, "translator.identify",
		trace.WithAttributes(attribute.Int("text.length", len(text))))
	defer span.End()

	res, err := tr.Identify(ctx, text)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	return res, nil
}

func (h *Handler) translate(ctx context.Context, tr Translator, texts []string, source, target string) ([]string, error) {
	ctx, span := h.tracer.Start(ctx, "translator.translate",
		trace.WithAttributes(
			attribute.String("language.source", source),
			attribute.String("language.target", target),
			attribute.Int("texts", len(texts)),
		))
	defer span.End()

	out, err := tr.Translate(ctx, texts, source, target)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	if len(out) != len(texts) {
		err := fmt.Errorf("got %d translations for %d texts", len(out), len(texts))
		fail(span, err)
		return nil, err
	}

	return out, nil
}

func (h *Handler) message(ctx context.Context, sess *session, text string, convCtx json.RawMessage) (*domain.DialogueResult, error) {
	ctx, span := h.tracer.Start(ctx, "assistant.message",
		trace.WithAttributes(attribute.String("workspace.id", sess.workspace)))
	defer span.End()

	result, err := sess.assistant.Message(ctx, sess.workspace, text, convCtx)
	if err != nil {
		fail(span, err)
		return nil, fmt.Errorf("failed to message assistant: %w", err)
	}

	h.logger.Debug("Response from assistant",
		zap.Any("output", result.Output),
		zap.ByteString("intents", result.Intents))

	return result, nil
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// languageTag returns the suffix appended to text sent to the dialogue engine.
func languageTag(lang string) string {
	return " (@lng:" + lang + ")"
}

// replyLines returns the non-empty entries of output["text"], in order.
func replyLines(output map[string]any) []string {
	var lines []string

	switch v := output["text"].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				lines = append(lines, s)
			}
		}
	case []string:
		for _, s := range v {
			if s != "" {
				lines = append(lines, s)
			}
		}
	case string:
		if v != "" {
			lines = append(lines, v)
		}
	}

	return lines
}

// parseContext returns the conversation context as a JSON object. The request
// normally carries it as a JSON-encoded string; a bare object is accepted too.
// Anything that does not decode to an object becomes {}.
func parseContext(raw json.RawMessage) json.RawMessage {
	data := []byte(strings.TrimSpace(string(raw)))
	if len(data) == 0 {
		return json.RawMessage(domain.EmptyJSON)
	}

	if data[0] == '"' {
		var encoded string
		if err := sonic.Unmarshal(data, &encoded); err != nil {
			return json.RawMessage(domain.EmptyJSON)
		}
		data = []byte(strings.TrimSpace(encoded))
	}

	var obj map[string]any
	if len(data) == 0 || data[0] != '{' || sonic.Unmarshal(data, &obj) != nil || obj == nil {
		return json.RawMessage(domain.EmptyJSON)
	}

	return json.RawMessage(data)
}

// rawOr returns raw as a string, or fallback when raw is empty or null.
func rawOr(raw json.RawMessage, fallback string) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return fallback
	}
	return s
}

// failedResponse builds a response that carries only a message.
func failedResponse(msg, convCtx, lang string) *domain.Response {
	return &domain.Response{
		Message:  msg,
		Context:  convCtx,
		Output:   domain.EmptyJSON,
		Intents:  domain.EmptyJSON,
		Language: lang,
	}
}
