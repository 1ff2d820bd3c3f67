package main

import (
	"context"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gorilla/mux"
	"github.com/pricofy/assistant-bridge/internal/domain"
	"github.com/pricofy/assistant-bridge/internal/language"
	"go.uber.org/zap"
)

// maxBodyBytes limits request bodies read by the dev server.
const maxBodyBytes = 1 << 20

// Bridge handles one user turn.
type Bridge interface {
	Handle(ctx context.Context, req domain.Request) (*domain.Response, error)
}

type server struct {
	bridge Bridge
	logger *zap.Logger
}

func newRouter(bridge Bridge, logger *zap.Logger) *mux.Router {
	s := &server{bridge: bridge, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/message", s.handleMessage).Methods(http.MethodPost)
	r.HandleFunc("/languages", s.handleLanguages).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	return r
}

func (s *server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "failed to read body"})
		return
	}

	var req domain.Request
	if err := sonic.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	resp, err := s.bridge.Handle(r.Context(), req)
	if err != nil {
		s.logger.Error("Failed to handle message", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"base":      language.Base,
		"languages": language.Entries(),
	})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
