package tabio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/annot/pkg/annot/dataset"
)

// ReadHTMLDir loads a dataset from a directory of HTML documents: one row
// per *.html or *.htm file, with the extracted text under field and the
// file name under "source".
func ReadHTMLDir(dir, field string) (*dataset.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read html dir %s: %w", dir, err)
	}

	var rows []dataset.Row
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".html" && ext != ".htm" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read html file %s: %w", e.Name(), err)
		}
		rows = append(rows, dataset.Row{
			"source": e.Name(),
			field:    StripHTML(string(data)),
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no html files found in %s", dir)
	}
	return dataset.FromRows(rows), nil
}

// StripHTML extracts the visible text from an HTML fragment.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
