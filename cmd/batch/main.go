package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sreedevigattu/recipegenerator/internal/batch"
	"github.com/sreedevigattu/recipegenerator/internal/config"
	"github.com/sreedevigattu/recipegenerator/internal/setup"
)

func main() {
	startTime := time.Now()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Input file: JSONL requests or a YAML ingredient list ('-' for JSONL on stdin)")
	output := flag.String("output", "", "Output file relative path")
	format := flag.String("format", batch.FormatJSONL, "Output file format. Supported formats: 'jsonl', 'summary'")
	continueOnError := flag.Bool("continue-on-error", true, "Continue on generation failures")
	dryRun := flag.Bool("dry-run", false, "Validate input without generating")

	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}
	if !batch.ValidFormat(*format) {
		log.Fatal().
			Str("format", *format).
			Msg("Invalid format. Supported: jsonl, summary")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	records, err := readRecords(ctx, *input)
	if err != nil {
		log.Fatal().Err(err).Str("file", *input).Msg("Failed to read input")
	}
	log.Info().Int("total", len(records)).Msg("Input file parsed")

	// Dry run validation
	if *dryRun {
		dryRunAndExit(records)
	}

	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// Open output file
	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
		log.Info().Msg("Writing to stdout")
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	writer, err := batch.NewWriter(outputFile, *format, deps.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}

	// Stopping early cancels the processor before it sends the next request.
	procCtx, stopProcessing := context.WithCancel(ctx)
	defer stopProcessing()

	processor := batch.NewProcessor(deps.Generator, deps.Logger)
	results := processor.Process(procCtx, records)

	successCount := 0
	errorCount := 0

	for result := range results {
		if err := writer.Write(result); err != nil {
			log.Error().Err(err).Int("line", result.LineNumber).Msg("Failed to write result")
			errorCount++
		} else if result.Failed() {
			errorCount++
		} else {
			successCount++
		}

		if errorCount > 0 && !*continueOnError {
			log.Error().Int("line", result.LineNumber).Msg("Stopping after first failure")
			stopProcessing()
			break
		}
	}

	if err := writer.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to finish output")
	}

	log.Info().
		Int("success", successCount).
		Int("errors", errorCount).
		Dur("duration", time.Since(startTime)).
		Msg("Batch processing complete")

	if errorCount > 0 && !*continueOnError {
		os.Exit(1)
	}
}

func readRecords(ctx context.Context, input string) ([]batch.InputRecord, error) {
	ext := strings.ToLower(filepath.Ext(input))
	if ext == ".yaml" || ext == ".yml" {
		log.Info().Str("file", input).Msg("Reading ingredient list")
		list, err := config.LoadIngredients(input)
		if err != nil {
			return nil, err
		}
		return batch.FromIngredients(list), nil
	}

	var inputFile io.Reader
	if input == "-" {
		inputFile = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		inputFile = f
		log.Info().Str("file", input).Msg("Reading input file")
	}

	var records []batch.InputRecord
	for record := range batch.NewReader(inputFile, &log.Logger).ReadAll(ctx) {
		records = append(records, record)
	}
	return records, nil
}

func dryRunAndExit(records []batch.InputRecord) {
	errorCount := 0
	for _, record := range records {
		if record.Error != nil {
			log.Error().
				Int("line", record.LineNumber).
				Err(record.Error).
				Msg("Validation error")
			errorCount++
		}
	}

	if errorCount > 0 {
		log.Fatal().Int("errors", errorCount).Msg("Validation failed")
	}

	log.Info().Msg("Validation successful")
	os.Exit(0)
}
