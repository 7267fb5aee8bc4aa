package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sreedevigattu/recipegenerator/internal/config"
	"github.com/sreedevigattu/recipegenerator/internal/recipe"
	red "github.com/sreedevigattu/recipegenerator/internal/redis"
	"github.com/sreedevigattu/recipegenerator/internal/stream/redis"
)

func main() {
	ingredient := flag.String("ingredient", "", "Main ingredient of the requested recipe")
	requestID := flag.String("id", "", "Optional request ID (defaults to the stream entry ID)")
	stream := flag.String("stream", redis.DefaultRequestStream, "Stream name")
	flag.Parse()

	if *ingredient == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -ingredient <name> [-id <request id>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	req := recipe.GenerateRequest{RequestID: *requestID, Ingredient: *ingredient}
	if err := run(req, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(req recipe.GenerateRequest, stream string) error {
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := red.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, 3, &log.Logger)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := redis.Publish(ctx, client, stream, req)
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", id).Str("ingredient", req.Ingredient).Msg("Published successfully!")
	return nil
}
