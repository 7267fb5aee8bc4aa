package redis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sreedevigattu/recipegenerator/internal/recipe"
)

const payloadField = "payload"

// StreamClient is the subset of *redis.Client the consumer needs.
type StreamClient interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

type Generator interface {
	Generate(ctx context.Context, req recipe.GenerateRequest) (*recipe.Recipe, error)
}

type Saver interface {
	Save(ctx context.Context, r *recipe.Recipe) error
}

// Result is published to the result stream for every request consumed.
type Result struct {
	RequestID string         `json:"request_id"`
	Recipe    *recipe.Recipe `json:"recipe,omitempty"`
	Error     string         `json:"error,omitempty"`
}

type Consumer struct {
	client    StreamClient
	cfg       *RedisStreamConfig
	generator Generator
	saver     Saver
	logger    *zerolog.Logger
}

// NewConsumer builds a consumer; saver may be nil.
func NewConsumer(client StreamClient, cfg *RedisStreamConfig, generator Generator, saver Saver, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:    client,
		cfg:       cfg,
		generator: generator,
		saver:     saver,
		logger:    logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// Start reads one message at a time until ctx is done.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.cfg.Stream).
		Str("group", c.cfg.Group).
		Str("consumer", c.cfg.ConsumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.ConsumerName,
			Streams:  []string{c.cfg.Stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

// Stop closes the underlying client when it owns a connection.
func (c *Consumer) Stop() error {
	if closer, ok := c.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")
	defer c.ack(ctx, msg.ID)

	req, err := decodeRequest(msg)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Skipping malformed message")
		return
	}
	if req.RequestID == "" {
		req.RequestID = msg.ID
	}

	result := Result{RequestID: req.RequestID}
	generated, err := c.generator.Generate(ctx, req)
	if err != nil {
		c.logger.Error().Err(err).Str("request_id", req.RequestID).Msg("Recipe generation failed")
		result.Error = err.Error()
	} else {
		result.Recipe = generated
		if c.saver != nil {
			if err := c.saver.Save(ctx, generated); err != nil {
				c.logger.Error().Err(err).Str("recipe_id", generated.ID).Msg("Failed to save recipe")
			}
		}
	}

	c.publish(ctx, result)
}

func (c *Consumer) publish(ctx context.Context, result Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Error().Err(err).Str("request_id", result.RequestID).Msg("Failed to encode result")
		return
	}

	id, err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.cfg.ResultStream,
		Values: map[string]any{payloadField: string(payload)},
	}).Result()
	if err != nil {
		c.logger.Error().Err(err).Str("request_id", result.RequestID).Msg("Failed to publish result")
		return
	}

	c.logger.Info().
		Str("request_id", result.RequestID).
		Str("result_id", id).
		Bool("failed", result.Error != "").
		Msg("Result published")
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}

func decodeRequest(msg redis.XMessage) (recipe.GenerateRequest, error) {
	var req recipe.GenerateRequest

	payload, ok := msg.Values[payloadField].(string)
	if !ok {
		return req, errors.New("missing payload field")
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return req, err
	}
	return req, nil
}
