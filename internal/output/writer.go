// Package output serializes extracted records to the supported formats.
package output

import (
	"fmt"
	"io"

	"github.com/pageforge/pageforge/pkg/elements"
)

// Format names an output serialization.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Writer receives records one at a time; Flush completes the stream.
type Writer interface {
	Write(record any) error
	Flush() error
}

// NewWriter builds the writer for a format.
func NewWriter(w io.Writer, format Format, opts ...Option) (Writer, error) {
	cfg := config{indent: "  "}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch format {
	case FormatJSON:
		return newJSONWriter(w, cfg), nil
	case FormatJSONL:
		return newJSONLWriter(w), nil
	case FormatYAML:
		return newYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// Option tweaks a writer.
type Option func(*config)

type config struct {
	compact bool
	indent  string
}

// Compact disables pretty-printing for formats that have it.
func Compact() Option {
	return func(c *config) { c.compact = true }
}

// Drain writes every record of a sequence, flushes, and surfaces the
// sequence error if the extraction failed partway.
func Drain[T any](w Writer, seq *elements.Seq[T]) (int, error) {
	n := 0
	for seq.Next() {
		if err := w.Write(seq.Item()); err != nil {
			return n, err
		}
		n++
	}
	if err := seq.Err(); err != nil {
		return n, err
	}
	return n, w.Flush()
}
