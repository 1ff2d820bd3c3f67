package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/pricofy/assistant-bridge/internal/domain"
	"github.com/pricofy/assistant-bridge/internal/language"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBridge struct {
	got  []domain.Request
	resp *domain.Response
	err  error
}

func (f *fakeBridge) Handle(_ context.Context, req domain.Request) (*domain.Response, error) {
	f.got = append(f.got, req)
	return f.resp, f.err
}

func serve(t *testing.T, bridge Bridge, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	newRouter(bridge, zap.NewNop()).ServeHTTP(rec, req)
	return rec
}

func TestMessage(t *testing.T) {
	bridge := &fakeBridge{resp: &domain.Response{
		Message:  "Bonjour !",
		Context:  `{"conversation_id":"c-1"}`,
		Output:   map[string]any{"text": []string{"Bonjour !"}},
		Intents:  "[]",
		Language: "fr",
	}}

	rec := serve(t, bridge, http.MethodPost, "/message",
		`{"assistant_workspace_id":"ws-1","assistant_apikey":"a","translator_apikey":"t","input":{"text":"Salut"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"message": "Bonjour !",
		"context": "{\"conversation_id\":\"c-1\"}",
		"output": {"text": ["Bonjour !"]},
		"intents": "[]",
		"language": "fr"
	}`, rec.Body.String())

	require.Len(t, bridge.got, 1)
	assert.Equal(t, "Salut", bridge.got[0].Input.Text)
}

func TestMessage_Errors(t *testing.T) {
	rec := serve(t, &fakeBridge{}, http.MethodPost, "/message", `{"input":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, &fakeBridge{err: errors.New("assistant down")}, http.MethodPost, "/message", `{}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"assistant down"}`, rec.Body.String())

	rec = serve(t, &fakeBridge{}, http.MethodGet, "/message", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLanguages(t *testing.T) {
	rec := serve(t, &fakeBridge{}, http.MethodGet, "/languages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Base      string           `json:"base"`
		Languages []language.Entry `json:"languages"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "en", body.Base)
	assert.Equal(t, language.Entries(), body.Languages)
}

func TestHealth(t *testing.T) {
	rec := serve(t, &fakeBridge{}, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
