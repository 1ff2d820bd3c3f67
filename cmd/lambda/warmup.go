// Lambda warmup handling. Scheduled events trigger it periodically to keep
// instances warm and avoid cold starts on user traffic.
package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/bytedance/sonic"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const (
	// WarmupSource identifies warmup events.
	WarmupSource = "warmup"

	// WarmupDelay keeps this instance busy long enough for the copies to overlap.
	WarmupDelay = 75 * time.Millisecond

	// maxWarmupConcurrency caps the self-invoke fan-out.
	maxWarmupConcurrency = 50
)

// WarmupEvent is the scheduled event payload.
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is returned by warmup invocations.
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// Invoker is the part of the Lambda API client used for self-invocation.
type Invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// IsWarmupEvent reports whether event is a warmup event and decodes it.
func IsWarmupEvent(event []byte) (*WarmupEvent, bool) {
	var fields map[string]any
	if err := sonic.Unmarshal(event, &fields); err != nil {
		return nil, false
	}

	source, ok := fields["source"].(string)
	if !ok || source != WarmupSource {
		return nil, false
	}

	warmup := &WarmupEvent{Source: source}
	if concurrency, ok := fields["concurrency"].(float64); ok && concurrency > 0 {
		warmup.Concurrency = min(int(concurrency), maxWarmupConcurrency)
	}

	return warmup, true
}

// HandleWarmup answers a warmup event, first self-invoking Concurrency copies
// so that many instances stay warm.
func HandleWarmup(ctx context.Context, warmup *WarmupEvent, logger *zap.Logger) (*WarmupResponse, error) {
	warmed := 1

	if warmup.Concurrency > 0 {
		invoker, err := newInvoker(ctx)
		if err != nil {
			logger.Warn("Failed to create Lambda client for warmup", zap.Error(err))
		} else if err := selfInvoke(ctx, invoker, os.Getenv("AWS_LAMBDA_FUNCTION_NAME"), warmup.Concurrency); err != nil {
			logger.Warn("Warmup self-invoke failed", zap.Error(err))
		} else {
			warmed += warmup.Concurrency
		}
	}

	time.Sleep(WarmupDelay)

	logger.Debug("Instance warmed", zap.Int("instances", warmed))

	return &WarmupResponse{Status: "warm", InstancesWarmed: warmed}, nil
}

func newInvoker(ctx context.Context) (Invoker, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return lambdasdk.NewFromConfig(cfg), nil
}

// selfInvoke asynchronously invokes functionName count times. The copies get
// concurrency 0 so they do not fan out again.
func selfInvoke(ctx context.Context, invoker Invoker, functionName string, count int) error {
	payload, err := sonic.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}

	p := pool.New().WithContext(ctx)
	for i := 0; i < count; i++ {
		p.Go(func(ctx context.Context) error {
			_, err := invoker.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			return err
		})
	}

	return p.Wait()
}
