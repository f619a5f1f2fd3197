package report

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"daybrief/internal/markdown"
	"daybrief/internal/model"
)

type frontmatter struct {
	Title     string            `yaml:"title"`
	Type      model.ReportType  `yaml:"type"`
	Date      string            `yaml:"date"`
	Generated string            `yaml:"generated"`
	Articles  int               `yaml:"articles"`
	Failures  map[string]string `yaml:"failures,omitempty"`
}

// ArchivePath is where the report of type t for date is written inside dir.
func ArchivePath(dir string, t model.ReportType, date string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.md", t, date))
}

// Archive renders r and writes it with YAML frontmatter into dir. It returns the file path.
func Archive(dir string, r model.Report, order []string) (string, error) {
	body, err := Render(r, order)
	if err != nil {
		return "", err
	}
	count := len(r.Headlines)
	for _, arts := range r.Categories {
		count += len(arts)
	}
	fm := frontmatter{
		Title:     title(r),
		Type:      r.Type,
		Date:      r.Date,
		Generated: r.GeneratedAt.Format("2006-01-02 15:04"),
		Articles:  count,
		Failures:  r.Failures,
	}
	path := ArchivePath(dir, r.Type, r.Date)
	if err := markdown.WriteFile(path, fm, body); err != nil {
		return "", fmt.Errorf("archive %s report: %w", r.Type, err)
	}
	return path, nil
}

// Archived reports whether dir already holds the report of type t for date.
func Archived(dir string, t model.ReportType, date string) (bool, error) {
	doc, err := markdown.ParseFile(ArchivePath(dir, t, date))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	got, _ := doc.Frontmatter["date"].(string)
	kind, _ := doc.Frontmatter["type"].(string)
	return got == date && kind == string(t), nil
}
