// Package export renders the plain record list to files for use outside the
// store. It is presentation only: it never reads or writes the encrypted store.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an export file format; its value doubles as the file extension.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatXLSX     Format = "xlsx"
)

// Formats lists the supported formats.
var Formats = []Format{FormatXLSX, FormatJSON, FormatCSV, FormatYAML, FormatMarkdown, FormatHTML}

// Header is the column header row used by tabular formats, one per
// model.Fields entry followed by the id.
var Header = []string{"Resource", "Link", "Login", "Email", "Password", "Other data", "Codes", "ID in database"}

// baseName is the stem of every exported file.
const baseName = "database"

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Render writes records to w in the given format.
func Render(w io.Writer, records []model.Record, format Format) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, records)
	case FormatCSV:
		return renderCSV(w, records)
	case FormatYAML:
		return renderYAML(w, records)
	case FormatMarkdown:
		_, err := io.WriteString(w, markdownTable(records))
		return err
	case FormatHTML:
		return renderHTML(w, records)
	case FormatXLSX:
		return renderXLSX(w, records)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Export writes records into dir under the first free name among
// "database.<ext>", "database (1).<ext>", "database (2).<ext>", ... and
// returns the path written.
func Export(dir string, records []model.Record, format Format) (string, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return "", err
	}

	for i := 0; ; i++ {
		name := fmt.Sprintf("%s.%s", baseName, format)
		if i > 0 {
			name = fmt.Sprintf("%s (%d).%s", baseName, i, format)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create export file: %w", err)
		}

		if err := Render(f, records, format); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return "", fmt.Errorf("render %s export: %w", format, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close export file: %w", err)
		}
		return path, nil
	}
}

// row returns the tabular cells for one record.
func row(r model.Record) []string {
	cells := r.Values()
	id := ""
	if r.HasID() {
		id = strconv.Itoa(*r.ID)
	}
	return append(cells, id)
}

func renderJSON(w io.Writer, records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	b, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func renderCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderYAML(w io.Writer, records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
