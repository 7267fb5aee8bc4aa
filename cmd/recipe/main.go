package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/sreedevigattu/recipegenerator/internal/config"
	"github.com/sreedevigattu/recipegenerator/internal/setup"
	"github.com/sreedevigattu/recipegenerator/internal/setup/logger"
)

const defaultIngredient = "rice"

func main() {
	envFile := flag.String("env", config.DefaultEnvFile, "dotenv file with endpoint credentials")
	flag.Parse()

	ingredient := defaultIngredient
	if flag.NArg() > 0 {
		ingredient = flag.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *envFile, ingredient); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, envFile, ingredient string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		log := logger.NewConsole(zerolog.LevelInfoValue)
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log := logger.NewConsole(cfg.LogLevel)

	deps, err := setup.Wire(ctx, cfg, &log)
	if err != nil {
		log.Error().Err(err).Msg("Unable to load dependencies")
		return err
	}
	defer deps.Close()

	log.Debug().
		Str("provider", cfg.DefaultProvider).
		Strs("input_variables", deps.Generator.Template().InputVariables).
		Str("template", deps.Generator.Template().Text).
		Msg("Prompt template")

	if _, err := deps.Generator.GenerateCompletion(ctx, ingredient, os.Stdout); err != nil {
		log.Error().Err(err).Str("ingredient", ingredient).Msg("Recipe generation failed")
		return err
	}
	return nil
}
