// Package markdown reads and writes Markdown documents with YAML frontmatter.
package markdown

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Document is a Markdown file split into frontmatter and body.
type Document struct {
	Frontmatter map[string]any
	Body        string
}

// ParseFile reads path and splits off the frontmatter block between two "---" lines.
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse splits r into frontmatter and body. A document without a leading fence
// has empty frontmatter and is returned whole as the body.
func Parse(r io.Reader) (Document, error) {
	br := bufio.NewReader(r)
	d := Document{Frontmatter: map[string]any{}}

	first, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Document{}, err
	}
	if strings.TrimSpace(first) != fence {
		rest, err := io.ReadAll(br)
		if err != nil {
			return Document{}, err
		}
		d.Body = first + string(rest)
		return d, nil
	}

	var fm strings.Builder
	for {
		l, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Document{}, err
		}
		if strings.TrimSpace(l) == fence {
			break
		}
		fm.WriteString(l)
		if errors.Is(err, io.EOF) {
			return Document{}, errors.New("markdown: unterminated frontmatter")
		}
	}
	if err := yaml.Unmarshal([]byte(fm.String()), &d.Frontmatter); err != nil {
		return Document{}, fmt.Errorf("markdown: frontmatter: %w", err)
	}
	rest, err := io.ReadAll(br)
	if err != nil {
		return Document{}, err
	}
	d.Body = strings.TrimLeft(string(rest), "\n")
	return d, nil
}

// WriteFile writes frontmatter and body to path, replacing any existing file.
func WriteFile(path string, frontmatter any, body string) error {
	meta, err := yaml.Marshal(frontmatter)
	if err != nil {
		return fmt.Errorf("markdown: frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	buf.Write(meta)
	buf.WriteString(fence + "\n\n")
	buf.WriteString(body)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".brief-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
