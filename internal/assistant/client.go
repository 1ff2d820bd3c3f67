// Package assistant is the dialogue engine client. It sends one user turn to
// a workspace and returns the engine's reply, updated context and intents.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pricofy/assistant-bridge/internal/domain"
	"github.com/pricofy/assistant-bridge/internal/watson"
)

// ErrMissingWorkspace is returned when Message is called without a workspace.
var ErrMissingWorkspace = errors.New("workspace id is required")

// Options configures the dialogue client.
type Options struct {
	URL        string
	Version    string
	HTTPClient *http.Client
}

// Client talks to a dialogue service instance over REST.
type Client struct {
	api *watson.Client
}

type messageInput struct {
	Text string `json:"text"`
}

type messageRequest struct {
	Input   messageInput    `json:"input"`
	Context json.RawMessage `json:"context,omitempty"`
}

// New creates a Client authenticated with apikey.
func New(opts Options, apikey string) (*Client, error) {
	api, err := watson.New(watson.Options{
		URL:        opts.URL,
		Version:    opts.Version,
		HTTPClient: opts.HTTPClient,
	}, apikey)
	if err != nil {
		return nil, err
	}

	return &Client{api: api}, nil
}

// Message runs one dialogue turn in workspaceID.
func (c *Client) Message(ctx context.Context, workspaceID, text string, convCtx json.RawMessage) (*domain.DialogueResult, error) {
	if workspaceID == "" {
		return nil, ErrMissingWorkspace
	}

	path := "/v1/workspaces/" + url.PathEscape(workspaceID) + "/message"

	var res domain.DialogueResult
	err := c.api.PostJSON(ctx, path, messageRequest{
		Input:   messageInput{Text: text},
		Context: convCtx,
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("message to workspace %s failed: %w", workspaceID, err)
	}

	return &res, nil
}
