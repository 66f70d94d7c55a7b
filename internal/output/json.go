package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// jsonWriter streams records as one JSON array, emitted incrementally so a
// long listing never sits whole in memory.
type jsonWriter struct {
	w       *bufio.Writer
	cfg     config
	started bool
}

func newJSONWriter(w io.Writer, cfg config) *jsonWriter {
	return &jsonWriter{w: bufio.NewWriter(w), cfg: cfg}
}

func (j *jsonWriter) Write(record any) error {
	var data []byte
	var err error
	if j.cfg.compact {
		data, err = json.Marshal(record)
	} else {
		data, err = json.MarshalIndent(record, j.cfg.indent, j.cfg.indent)
	}
	if err != nil {
		return err
	}

	sep := ",\n"
	if !j.started {
		sep = "[\n"
		j.started = true
	}
	if _, err := j.w.WriteString(sep); err != nil {
		return err
	}
	if !j.cfg.compact {
		if _, err := j.w.WriteString(j.cfg.indent); err != nil {
			return err
		}
	}
	_, err = j.w.Write(data)
	return err
}

func (j *jsonWriter) Flush() error {
	if !j.started {
		if _, err := j.w.WriteString("[]\n"); err != nil {
			return err
		}
		return j.w.Flush()
	}
	if _, err := j.w.WriteString("\n]\n"); err != nil {
		return err
	}
	return j.w.Flush()
}

// jsonlWriter emits newline-delimited JSON, one record per line.
type jsonlWriter struct {
	w *bufio.Writer
}

func newJSONLWriter(w io.Writer) *jsonlWriter {
	return &jsonlWriter{w: bufio.NewWriter(w)}
}

func (j *jsonlWriter) Write(record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if _, err := j.w.Write(data); err != nil {
		return err
	}
	return j.w.WriteByte('\n')
}

func (j *jsonlWriter) Flush() error { return j.w.Flush() }
