package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWarmupEvent(t *testing.T) {
	tests := []struct {
		name            string
		event           string
		wantOK          bool
		wantConcurrency int
	}{
		{name: "warmup without concurrency", event: `{"source":"warmup"}`, wantOK: true},
		{name: "warmup with concurrency", event: `{"source":"warmup","concurrency":5}`, wantOK: true, wantConcurrency: 5},
		{name: "concurrency capped", event: `{"source":"warmup","concurrency":500}`, wantOK: true, wantConcurrency: maxWarmupConcurrency},
		{name: "negative concurrency", event: `{"source":"warmup","concurrency":-3}`, wantOK: true},
		{name: "other source", event: `{"source":"aws.events"}`, wantOK: false},
		{name: "bridge request", event: `{"input":{"text":"hi"}}`, wantOK: false},
		{name: "invalid json", event: `not json`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warmup, ok := IsWarmupEvent([]byte(tt.event))
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, warmup)
				return
			}
			assert.Equal(t, tt.wantConcurrency, warmup.Concurrency)
		})
	}
}

type recordingInvoker struct {
	mu    sync.Mutex
	calls []*lambdasdk.InvokeInput
	err   error
}

func (r *recordingInvoker) Invoke(_ context.Context, params *lambdasdk.InvokeInput, _ ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, params)
	if r.err != nil {
		return nil, r.err
	}
	return &lambdasdk.InvokeOutput{StatusCode: 202}, nil
}

func TestSelfInvoke(t *testing.T) {
	invoker := &recordingInvoker{}

	err := selfInvoke(context.Background(), invoker, "bridge-fn", 4)
	require.NoError(t, err)
	require.Len(t, invoker.calls, 4)

	for _, call := range invoker.calls {
		assert.Equal(t, "bridge-fn", *call.FunctionName)
		assert.Equal(t, types.InvocationTypeEvent, call.InvocationType)

		var child WarmupEvent
		require.NoError(t, sonic.Unmarshal(call.Payload, &child))
		assert.Equal(t, WarmupEvent{Source: WarmupSource}, child, "children must not fan out")
	}
}

func TestSelfInvoke_Error(t *testing.T) {
	errThrottled := errors.New("throttled")
	invoker := &recordingInvoker{err: errThrottled}

	err := selfInvoke(context.Background(), invoker, "bridge-fn", 2)
	require.ErrorIs(t, err, errThrottled)
}
