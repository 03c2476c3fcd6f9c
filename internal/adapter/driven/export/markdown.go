package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
}

// mdEscaper backslash-escapes Markdown punctuation so cell values render
// literally, and turns newlines into line breaks inside table cells.
var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`|`, `\|`,
	`~`, `\~`,
	`#`, `\#`,
	`!`, `\!`,
	`&`, `\&`,
	"\r\n", "<br>",
	"\n", "<br>",
	"\r", "<br>",
)

// markdownTable renders records as a GFM table.
func markdownTable(records []model.Record) string {
	var buf strings.Builder

	writeRow := func(cells []string) {
		for _, c := range cells {
			buf.WriteString("| ")
			buf.WriteString(c)
			buf.WriteByte(' ')
		}
		buf.WriteString("|\n")
	}

	writeRow(Header)
	sep := make([]string, len(Header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)

	for _, r := range records {
		cells := row(r)
		for i, c := range cells {
			cells[i] = mdEscaper.Replace(c)
		}
		writeRow(cells)
	}
	return buf.String()
}

// renderHTML converts the Markdown table to sanitized HTML inside a minimal
// standalone document.
func renderHTML(w io.Writer, records []model.Record) error {
	var body bytes.Buffer
	if err := mdRenderer.Convert([]byte(markdownTable(records)), &body); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>credstash export</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		htmlSanitizer.Sanitize(body.String()))
	return err
}
