package handler

import (
	"github.com/pricofy/assistant-bridge/internal/domain"
	"go.uber.org/zap"
)

// SetupFailure tells which precondition of a request was not met.
type SetupFailure int

const (
	SetupOK SetupFailure = iota
	MissingWorkspace
	AssistantUnavailable
	TranslatorUnavailable
)

// Message returns the user-facing text for f.
func (f SetupFailure) Message() string {
	switch f {
	case MissingWorkspace:
		return "Please bind your assistant workspace ID as parameter"
	case AssistantUnavailable:
		return "Please bind your assistant service"
	case TranslatorUnavailable:
		return "Please bind your language translator service"
	default:
		return ""
	}
}

func (f SetupFailure) String() string {
	switch f {
	case SetupOK:
		return "ok"
	case MissingWorkspace:
		return "missing_workspace"
	case AssistantUnavailable:
		return "assistant_unavailable"
	case TranslatorUnavailable:
		return "translator_unavailable"
	default:
		return "unknown"
	}
}

// session holds the clients built for one request.
type session struct {
	workspace  string
	assistant  Assistant
	translator Translator
}

// setup checks the request preconditions in order and builds the clients.
func (h *Handler) setup(req domain.Request) (*session, SetupFailure) {
	if req.WorkspaceID == "" {
		h.logger.Warn("Request without workspace id")
		return nil, MissingWorkspace
	}

	asst, err := h.newAssistant(req.AssistantAPIKey)
	if err != nil {
		h.logger.Warn("Failed to set up assistant client", zap.Error(err))
		return nil, AssistantUnavailable
	}

	tr, err := h.newTranslator(req.TranslatorAPIKey)
	if err != nil {
		h.logger.Warn("Failed to set up translator client", zap.Error(err))
		return nil, TranslatorUnavailable
	}

	return &session{
		workspace:  req.WorkspaceID,
		assistant:  asst,
		translator: tr,
	}, SetupOK
}
