// Package main is the entry point for the assistant bridge Lambda function.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bytedance/sonic"
	"github.com/pricofy/assistant-bridge/internal/domain"
	"github.com/pricofy/assistant-bridge/internal/setup"
	"go.uber.org/zap"
)

// Bridge handles one user turn.
type Bridge interface {
	Handle(ctx context.Context, req domain.Request) (*domain.Response, error)
}

type function struct {
	bridge Bridge
	logger *zap.Logger
}

func main() {
	app, err := setup.InitializeApp(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer app.Cleanup()

	fn := &function{bridge: app.Handler, logger: app.Logger.Named("lambda")}
	lambda.Start(fn.handleRequest)
}

func (f *function) handleRequest(ctx context.Context, event json.RawMessage) (any, error) {
	// Warmup detection must come before any other processing
	if warmup, ok := IsWarmupEvent(event); ok {
		return HandleWarmup(ctx, warmup, f.logger)
	}

	if isHTTPEvent(event) {
		var req events.APIGatewayV2HTTPRequest
		if err := sonic.Unmarshal(event, &req); err != nil {
			return nil, err
		}
		return f.handleHTTP(ctx, req), nil
	}

	var req domain.Request
	if err := sonic.Unmarshal(event, &req); err != nil {
		return nil, err
	}

	return f.bridge.Handle(ctx, req)
}

// isHTTPEvent reports whether event came from a Function URL or an API
// Gateway HTTP API.
func isHTTPEvent(event []byte) bool {
	var probe struct {
		RequestContext *struct {
			HTTP *struct {
				Method string `json:"method"`
			} `json:"http"`
		} `json:"requestContext"`
	}
	if err := sonic.Unmarshal(event, &probe); err != nil {
		return false
	}
	return probe.RequestContext != nil && probe.RequestContext.HTTP != nil && probe.RequestContext.HTTP.Method != ""
}

func (f *function) handleHTTP(ctx context.Context, event events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	if event.RequestContext.HTTP.Method != http.MethodPost {
		return jsonResponse(http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	}

	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return jsonResponse(http.StatusBadRequest, errorBody{Error: "invalid base64 body"})
		}
		body = decoded
	}

	var req domain.Request
	if err := sonic.Unmarshal(body, &req); err != nil {
		return jsonResponse(http.StatusBadRequest, errorBody{Error: "invalid request body"})
	}

	resp, err := f.bridge.Handle(ctx, req)
	if err != nil {
		f.logger.Error("Failed to handle request", zap.Error(err))
		return jsonResponse(http.StatusBadGateway, errorBody{Error: err.Error()})
	}

	return jsonResponse(http.StatusOK, resp)
}

type errorBody struct {
	Error string `json:"error"`
}

func jsonResponse(status int, v any) events.APIGatewayV2HTTPResponse {
	data, err := sonic.Marshal(v)
	if err != nil {
		status, data = http.StatusInternalServerError, []byte(`{"error":"failed to encode response"}`)
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}
}
