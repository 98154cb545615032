// Package report renders detection results: per-finding CSV files, the
// plain-text and HTML summaries, and JSON or YAML encodings of the summary.
package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/claims-risk-cli/internal/model"
)

// Summary output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options selects which artifacts WriteAll produces.
type Options struct {
	Dir  string
	CSV  bool
	HTML bool
}

// WriteAll writes every enabled artifact into opts.Dir, creating it if
// needed, and returns the paths written. The text summary is always written.
func WriteAll(opts Options, columns []string, s model.Summary, findings *model.Findings) ([]string, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "report: create output dir %s", opts.Dir)
	}

	var written []string
	if opts.CSV {
		paths, err := WriteFindingCSVs(opts.Dir, columns, findings)
		written = append(written, paths...)
		if err != nil {
			return written, err
		}
	}

	path, err := WriteTextFile(opts.Dir, s)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	if opts.HTML {
		path, err := WriteHTMLFile(opts.Dir, s, findings)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	zap.L().Info("report: artifacts written",
		zap.String("dir", opts.Dir),
		zap.Int("files", len(written)),
	)
	return written, nil
}

// Encode writes the summary to w in the given format.
func Encode(w io.Writer, format string, s model.Summary) error {
	switch format {
	case FormatText, "":
		return WriteText(w, s)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(s), "report: encode json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return eris.Wrap(err, "report: encode yaml")
		}
		return eris.Wrap(enc.Close(), "report: close yaml encoder")
	}
	return eris.Errorf("report: unknown format %q", format)
}
