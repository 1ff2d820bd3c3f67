// Package setup wires configuration, logging and the service clients into a
// ready-to-use handler.
package setup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/pricofy/assistant-bridge/internal/assistant"
	"github.com/pricofy/assistant-bridge/internal/config"
	"github.com/pricofy/assistant-bridge/internal/handler"
	"github.com/pricofy/assistant-bridge/internal/logging"
	"github.com/pricofy/assistant-bridge/internal/translator"
	"go.uber.org/zap"
)

// ErrNoInvoker is returned when the Lambda translator backend is selected but
// no Lambda API client was provided.
var ErrNoInvoker = errors.New("lambda translator backend requires an invoker")

// App bundles the dependencies shared by every request of a process.
type App struct {
	Config  *config.Config   // Process configuration
	Logger  *zap.Logger      // Root logger
	Handler *handler.Handler // Bridge handler
}

// InitializeApp loads the configuration and builds the handler. It runs once
// per cold start.
func InitializeApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.IsDevelopment(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// The Lambda API client is only needed when translations go through a function
	var invoker translator.Invoker
	if cfg.Translator.Backend == config.BackendLambda {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		invoker = lambda.NewFromConfig(awsCfg)
	}

	newAssistant, newTranslator := Factories(cfg, &http.Client{Timeout: cfg.HTTPTimeout}, invoker)

	logger.Info("Bridge initialized",
		zap.String("environment", cfg.Environment),
		zap.String("translator_backend", cfg.Translator.Backend),
		zap.String("identify_mode", cfg.IdentifyMode))

	return &App{
		Config:  cfg,
		Logger:  logger,
		Handler: handler.New(newAssistant, newTranslator, logger),
	}, nil
}

// Factories returns the per-request client constructors for cfg. invoker is
// only used by the Lambda translator backend.
func Factories(cfg *config.Config, httpClient *http.Client, invoker translator.Invoker) (handler.AssistantFactory, handler.TranslatorFactory) {
	newAssistant := func(apikey string) (handler.Assistant, error) {
		asst, err := assistant.New(assistant.Options{
			URL:        cfg.Assistant.URL,
			Version:    cfg.Assistant.Version,
			HTTPClient: httpClient,
		}, apikey)
		if err != nil {
			return nil, err
		}
		return asst, nil
	}

	newTranslator := func(apikey string) (handler.Translator, error) {
		tr, err := newTranslatorBackend(cfg, httpClient, invoker, apikey)
		if err != nil {
			return nil, err
		}

		if cfg.IdentifyMode == config.IdentifyLocal {
			return translator.NewLocalIdentify(tr), nil
		}
		return tr, nil
	}

	return newAssistant, newTranslator
}

func newTranslatorBackend(cfg *config.Config, httpClient *http.Client, invoker translator.Invoker, apikey string) (handler.Translator, error) {
	if cfg.Translator.Backend == config.BackendLambda {
		if invoker == nil {
			return nil, ErrNoInvoker
		}
		tr, err := translator.NewLambdaClient(invoker, cfg.Translator.FunctionName, apikey, cfg.MaxRequestBytes)
		if err != nil {
			return nil, err
		}
		return tr, nil
	}

	tr, err := translator.New(translator.Options{
		URL:             cfg.Translator.URL,
		Version:         cfg.Translator.Version,
		HTTPClient:      httpClient,
		MaxRequestBytes: cfg.MaxRequestBytes,
	}, apikey)
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// Cleanup flushes buffered logs.
func (a *App) Cleanup() {
	if err := a.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}
}
