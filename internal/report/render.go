package report

import (
	"bytes"
	_ "embed"
	"text/template"

	"daybrief/internal/catalog"
	"daybrief/internal/model"
)

type section struct {
	Key      string
	Label    string
	Articles []model.Article
}

type data struct {
	Title     string
	Report    model.Report
	Sections  []section
	Failures  map[string]string
	Generated string
}

//go:embed report.tmpl
var reportTpl string

var compiled = template.Must(template.New("report").Parse(reportTpl))

// Render formats a report as Markdown. Morning sections follow order; categories not
// in order are dropped.
func Render(r model.Report, order []string) (string, error) {
	d := data{
		Report:    r,
		Failures:  r.Failures,
		Generated: r.GeneratedAt.Format("2006-01-02 15:04"),
	}
	d.Title = title(r)
	for _, key := range order {
		if arts := r.Categories[key]; len(arts) > 0 {
			d.Sections = append(d.Sections, section{Key: key, Label: catalog.Label(key), Articles: arts})
		}
	}
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func title(r model.Report) string {
	if r.Type == model.ReportMorning {
		return "Morning briefing " + r.Date
	}
	return "Evening briefing " + r.Date
}
