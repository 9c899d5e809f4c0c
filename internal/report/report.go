package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/samorobo/twitter-trends-bot/internal/storage"
)

// TimestampLayout is the run-completion timestamp format in the output
// document, in local time.
const TimestampLayout = "2006-01-02 15:04:05"

// Build assembles the run record: it stamps the current time, fixes the
// country label, and carries the enriched trends in their existing order.
func Build(country, source string, trends []storage.Trend, duration time.Duration) *storage.RunRecord {
	return &storage.RunRecord{
		ID:        uuid.New().String(),
		Country:   country,
		Source:    source,
		Trends:    trends,
		Duration:  duration,
		CreatedAt: time.Now(),
	}
}

// Document is the serialized output shape handed to consumers.
type Document struct {
	Timestamp string          `json:"timestamp"`
	Country   string          `json:"country"`
	Trends    []storage.Trend `json:"trends"`
}

// NewDocument converts a run record into its output document.
func NewDocument(record *storage.RunRecord) Document {
	trends := record.Trends
	if trends == nil {
		trends = []storage.Trend{}
	}
	return Document{
		Timestamp: record.CreatedAt.Format(TimestampLayout),
		Country:   record.Country,
		Trends:    trends,
	}
}

// WriteJSON writes the record's output document to the provided writer in
// two-space indented JSON.
func WriteJSON(w io.Writer, record *storage.RunRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(record)); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// WriteText writes a human-readable run summary to the provided writer.
func WriteText(w io.Writer, record *storage.RunRecord) error {
	const textTmpl = `Trends Run Summary
------------------
Time:     {{.Record.CreatedAt.Format "2006-01-02 15:04:05"}}
Country:  {{.Record.Country}}
Source:   {{.Record.Source}}
Duration: {{.Record.Duration}}

Trends:
{{- range $i, $t := .Record.Trends}}
  {{inc $i}}. {{$t.Name}}
     {{$t.ImageURL}}
{{- else}}
  None
{{- end}}
`

	t, err := template.New("textReport").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("parse text template: %w", err)
	}

	if err := t.Execute(w, struct{ Record *storage.RunRecord }{record}); err != nil {
		return fmt.Errorf("render text report: %w", err)
	}

	return nil
}
