// Package readme regenerates the repository status document. Rendering is a
// pure function of the clock and the static group metadata, so a re-render
// with the same timestamp is byte-identical.
package readme

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
	"time"

	"stockdata/pkg/domain"
)

const readmeTemplate = `# Tech-Stocks-Data

A repository containing historical stock data for major tech indices and companies.

## Data Collections

{{range .Groups}}- **{{.Title}}**: {{.Description}}
{{end}}
## Data Update Frequency

Data is updated daily via a CI scheduler. Each update fully replaces the previous state.

## Last Updated

{{.LastUpdated}}

## Data Source

All stock data is fetched from the Yahoo Finance chart API.

## Usage

The data is stored in CSV format, one file per ticker, and can be used for financial analysis, machine learning models, or visualization projects.
`

// groupTitles maps group names to their display titles in the README.
var groupTitles = map[domain.GroupName]string{
	domain.GroupSP500:    "S&P 500",
	domain.GroupHangSeng: "Hang Seng Tech Index",
	domain.GroupMag7:     "MAG7",
	domain.GroupIndexes:  "Market Indexes",
}

var tmpl = template.Must(template.New("readme").Parse(readmeTemplate))

type templateGroup struct {
	Title       string
	Description string
}

type templateData struct {
	Groups      []templateGroup
	LastUpdated string
}

// Render produces the status document for the given timestamp and groups.
func Render(now time.Time, groups []domain.Group) (string, error) {
	data := templateData{
		LastUpdated: now.UTC().Format("2006-01-02 15:04:05") + " UTC",
	}
	for _, g := range groups {
		title := groupTitles[g.Name]
		if title == "" {
			title = string(g.Name)
		}
		data.Groups = append(data.Groups, templateGroup{
			Title:       title,
			Description: g.Description,
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render readme: %w", err)
	}
	return buf.String(), nil
}

// Write renders the document and replaces the file at path wholesale.
func Write(path string, now time.Time, groups []domain.Group) error {
	content, err := Render(now, groups)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write readme %s: %w", path, err)
	}
	return nil
}
