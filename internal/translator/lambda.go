package translator

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/bytedance/sonic"
	"github.com/pricofy/assistant-bridge/internal/domain"
	"github.com/pricofy/assistant-bridge/internal/watson"
)

// ErrNoFunction is returned when no translator function name is configured.
var ErrNoFunction = errors.New("translator function name is required")

// Function actions understood by the translator Lambda.
const (
	ActionIdentify  = "identify"
	ActionTranslate = "translate"
)

// Invoker is the part of the Lambda API client used here.
type Invoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// FunctionRequest is the payload sent to the translator Lambda.
type FunctionRequest struct {
	Action string   `json:"action"`
	APIKey string   `json:"apikey"`
	Text   string   `json:"text,omitempty"`
	Texts  []string `json:"texts,omitempty"`
	Source string   `json:"source,omitempty"`
	Target string   `json:"target,omitempty"`
}

// FunctionResponse is the payload returned by the translator Lambda.
type FunctionResponse struct {
	Languages    []domain.LanguageCandidate `json:"languages,omitempty"`
	Translations []string                   `json:"translations,omitempty"`
	Error        string                     `json:"error,omitempty"`
}

// LambdaClient reaches the translation service through a translator Lambda
// function instead of calling it over HTTP directly.
type LambdaClient struct {
	invoker      Invoker
	functionName string
	apikey       string
	maxBytes     int
}

// NewLambdaClient creates a LambdaClient that forwards apikey to functionName.
func NewLambdaClient(invoker Invoker, functionName, apikey string, maxBytes int) (*LambdaClient, error) {
	if functionName == "" {
		return nil, ErrNoFunction
	}
	if err := watson.ValidateAPIKey(apikey); err != nil {
		return nil, err
	}

	return &LambdaClient{
		invoker:      invoker,
		functionName: functionName,
		apikey:       apikey,
		maxBytes:     maxBytes,
	}, nil
}

// Identify returns the candidate languages of text, most likely first.
func (c *LambdaClient) Identify(ctx context.Context, text string) (*domain.Identification, error) {
	resp, err := c.invoke(ctx, FunctionRequest{
		Action: ActionIdentify,
		APIKey: c.apikey,
		Text:   text,
	})
	if err != nil {
		return nil, fmt.Errorf("identify failed: %w", err)
	}
	return &domain.Identification{Languages: resp.Languages}, nil
}

// Translate translates texts from source to target, preserving order.
func (c *LambdaClient) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	return translateChunked(ctx, texts, c.maxBytes, func(ctx context.Context, chunk []string) ([]string, error) {
		resp, err := c.invoke(ctx, FunctionRequest{
			Action: ActionTranslate,
			APIKey: c.apikey,
			Texts:  chunk,
			Source: source,
			Target: target,
		})
		if err != nil {
			return nil, fmt.Errorf("translate %s→%s failed: %w", source, target, err)
		}
		return resp.Translations, nil
	})
}

// invoke calls the translator function synchronously.
func (c *LambdaClient) invoke(ctx context.Context, req FunctionRequest) (*FunctionResponse, error) {
	payload, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := c.invoker.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: &c.functionName,
		Payload:      payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", c.functionName, err)
	}

	if result.FunctionError != nil {
		return nil, fmt.Errorf("lambda error: %s", *result.FunctionError)
	}

	var resp FunctionResponse
	if err := sonic.Unmarshal(result.Payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("translator error: %s", resp.Error)
	}

	return &resp, nil
}
