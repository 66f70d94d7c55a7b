package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlWriter emits a YAML stream, one document per record.
type yamlWriter struct {
	w   *bufio.Writer
	enc *yaml.Encoder
}

func newYAMLWriter(w io.Writer) *yamlWriter {
	bw := bufio.NewWriter(w)
	enc := yaml.NewEncoder(bw)
	enc.SetIndent(2)
	return &yamlWriter{w: bw, enc: enc}
}

func (y *yamlWriter) Write(record any) error {
	return y.enc.Encode(record)
}

func (y *yamlWriter) Flush() error {
	if err := y.enc.Close(); err != nil {
		return err
	}
	return y.w.Flush()
}
