package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

func ValidFormat(format string) bool {
	return format == FormatJSONL || format == FormatSummary
}

// Writer emits results as JSON lines, or collects them and prints a table on Close.
type Writer struct {
	w       io.Writer
	format  string
	encoder *json.Encoder
	records []OutputRecord
	logger  *zerolog.Logger
}

func NewWriter(w io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	if !ValidFormat(format) {
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}

	return &Writer{
		w:       w,
		format:  format,
		encoder: json.NewEncoder(w),
		logger:  logger,
	}, nil
}

func (w *Writer) Write(record OutputRecord) error {
	if w.format == FormatSummary {
		w.records = append(w.records, record)
		return nil
	}

	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write record for line %d: %w", record.LineNumber, err)
	}
	return nil
}

func (w *Writer) Close() error {
	if w.format != FormatSummary {
		return nil
	}

	failed := 0
	tw := tabwriter.NewWriter(w.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tINGREDIENT\tSTATUS\tDETAIL")
	for _, r := range w.records {
		status, detail := "ok", r.ID
		if r.Failed() {
			status, detail = "failed", r.Error
			failed++
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.LineNumber, r.Ingredient, status, detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w.w, "\nTotal: %d  Succeeded: %d  Failed: %d\n", len(w.records), len(w.records)-failed, failed)
	w.logger.Debug().Int("records", len(w.records)).Msg("Summary written")
	return err
}
