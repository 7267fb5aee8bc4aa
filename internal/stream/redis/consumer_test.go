package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sreedevigattu/recipegenerator/internal/recipe"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

type fakeStreamClient struct {
	groupErr error
	added    []*redis.XAddArgs
	acked    []string
}

func (f *fakeStreamClient) XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd {
	return redis.NewStatusResult("OK", f.groupErr)
}

func (f *fakeStreamClient) XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd {
	return redis.NewXStreamSliceCmdResult(nil, redis.Nil)
}

func (f *fakeStreamClient) XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd {
	f.acked = append(f.acked, ids...)
	return redis.NewIntResult(int64(len(ids)), nil)
}

func (f *fakeStreamClient) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.added = append(f.added, a)
	return redis.NewStringResult("1-0", nil)
}

type fakeGenerator struct {
	err      error
	requests []recipe.GenerateRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, req recipe.GenerateRequest) (*recipe.Recipe, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &recipe.Recipe{ID: req.RequestID, Ingredient: req.Ingredient, Content: "Fried rice"}, nil
}

type fakeSaver struct {
	saved []string
}

func (f *fakeSaver) Save(ctx context.Context, r *recipe.Recipe) error {
	f.saved = append(f.saved, r.ID)
	return nil
}

func decodeResult(t *testing.T, args *redis.XAddArgs) Result {
	t.Helper()
	values := args.Values.(map[string]any)
	var result Result
	if err := json.Unmarshal([]byte(values[payloadField].(string)), &result); err != nil {
		t.Fatalf("Failed to decode published result: %v", err)
	}
	return result
}

func newTestConsumer(client StreamClient, generator Generator, saver Saver) *Consumer {
	cfg := NewRedisStreamConfig("localhost:6379", "", "", "", "", "test-worker")
	return NewConsumer(client, cfg, generator, saver, newTestLogger())
}

func TestConsumer_Process_Success(t *testing.T) {
	client := &fakeStreamClient{}
	generator := &fakeGenerator{}
	saver := &fakeSaver{}
	consumer := newTestConsumer(client, generator, saver)

	consumer.process(context.Background(), redis.XMessage{
		ID:     "5-0",
		Values: map[string]any{"payload": `{"request_id":"r-1","ingredient":"rice"}`},
	})

	if len(generator.requests) != 1 || generator.requests[0].Ingredient != "rice" {
		t.Fatalf("Expected one generation for rice, got %+v", generator.requests)
	}
	if len(client.added) != 1 {
		t.Fatalf("Expected one published result, got %d", len(client.added))
	}
	if client.added[0].Stream != DefaultResultStream {
		t.Errorf("Expected result stream %s, got %s", DefaultResultStream, client.added[0].Stream)
	}

	result := decodeResult(t, client.added[0])
	if result.RequestID != "r-1" || result.Recipe == nil || result.Recipe.Content != "Fried rice" {
		t.Errorf("Unexpected result: %+v", result)
	}
	if len(saver.saved) != 1 {
		t.Errorf("Expected recipe to be saved, got %v", saver.saved)
	}
	if len(client.acked) != 1 || client.acked[0] != "5-0" {
		t.Errorf("Expected ACK of 5-0, got %v", client.acked)
	}
}

func TestConsumer_Process_DefaultsRequestIDToMessageID(t *testing.T) {
	client := &fakeStreamClient{}
	generator := &fakeGenerator{}
	consumer := newTestConsumer(client, generator, nil)

	consumer.process(context.Background(), redis.XMessage{
		ID:     "9-1",
		Values: map[string]any{"payload": `{"ingredient":"egg"}`},
	})

	if generator.requests[0].RequestID != "9-1" {
		t.Errorf("Expected request ID 9-1, got %s", generator.requests[0].RequestID)
	}
}

func TestConsumer_Process_GenerationError(t *testing.T) {
	client := &fakeStreamClient{}
	generator := &fakeGenerator{err: errors.New("endpoint unavailable")}
	saver := &fakeSaver{}
	consumer := newTestConsumer(client, generator, saver)

	consumer.process(context.Background(), redis.XMessage{
		ID:     "6-0",
		Values: map[string]any{"payload": `{"request_id":"r-2","ingredient":"rice"}`},
	})

	if len(generator.requests) != 1 {
		t.Errorf("Expected exactly one attempt, got %d", len(generator.requests))
	}

	result := decodeResult(t, client.added[0])
	if result.Error != "endpoint unavailable" || result.Recipe != nil {
		t.Errorf("Expected error result, got %+v", result)
	}
	if len(saver.saved) != 0 {
		t.Errorf("Expected nothing saved, got %v", saver.saved)
	}
	if len(client.acked) != 1 {
		t.Errorf("Expected failed message to be ACKed")
	}
}

func TestConsumer_Process_MalformedPayload(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{name: "missing payload", values: map[string]any{"other": "x"}},
		{name: "invalid json", values: map[string]any{"payload": "{not json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeStreamClient{}
			generator := &fakeGenerator{}
			consumer := newTestConsumer(client, generator, nil)

			consumer.process(context.Background(), redis.XMessage{ID: "7-0", Values: tt.values})

			if len(generator.requests) != 0 {
				t.Error("Expected no generation for malformed message")
			}
			if len(client.added) != 0 {
				t.Error("Expected no result for malformed message")
			}
			if len(client.acked) != 1 {
				t.Error("Expected malformed message to be ACKed")
			}
		})
	}
}

func TestConsumer_Setup(t *testing.T) {
	consumer := newTestConsumer(&fakeStreamClient{groupErr: errors.New("BUSYGROUP Consumer Group name already exists")}, &fakeGenerator{}, nil)
	if err := consumer.Setup(context.Background()); err != nil {
		t.Errorf("Expected existing group to be accepted, got %v", err)
	}

	consumer = newTestConsumer(&fakeStreamClient{groupErr: errors.New("NOAUTH")}, &fakeGenerator{}, nil)
	if err := consumer.Setup(context.Background()); err == nil {
		t.Error("Expected setup error")
	}
}

func TestConsumer_Start_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	consumer := newTestConsumer(&fakeStreamClient{}, &fakeGenerator{}, nil)
	if err := consumer.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPublish(t *testing.T) {
	client := &fakeStreamClient{}

	id, err := Publish(context.Background(), client, DefaultRequestStream, recipe.GenerateRequest{RequestID: "p-1", Ingredient: "rice"})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if id != "1-0" {
		t.Errorf("Expected id 1-0, got %s", id)
	}

	values := client.added[0].Values.(map[string]any)
	if values[payloadField] != `{"request_id":"p-1","ingredient":"rice"}` {
		t.Errorf("Unexpected payload: %v", values[payloadField])
	}
}
