package markdown

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseWithFrontmatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "morning-2024-05-01.md")
	content := "" +
		"---\n" +
		"title: Morning briefing 2024-05-01\n" +
		"type: morning\n" +
		"date: \"2024-05-01\"\n" +
		"partial: true\n" +
		"---\n\n" +
		"## Technology\n\n- [Chips](https://example.com)\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	for _, key := range []string{"title", "type", "date", "partial"} {
		if _, ok := doc.Frontmatter[key]; !ok {
			t.Errorf("missing %s in frontmatter", key)
		}
	}
	if doc.Frontmatter["date"] != "2024-05-01" {
		t.Errorf("date = %#v", doc.Frontmatter["date"])
	}
	if !strings.HasPrefix(doc.Body, "## Technology") {
		t.Errorf("unexpected body: %q", doc.Body)
	}
}

func TestParseWithoutFrontmatter(t *testing.T) {
	body := "# Hello\n\nNo frontmatter here.\n"
	doc, err := Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(doc.Frontmatter) != 0 {
		t.Fatalf("expected empty frontmatter, got: %+v", doc.Frontmatter)
	}
	if doc.Body != body {
		t.Errorf("body mismatch.\nwant: %q\n got: %q", body, doc.Body)
	}
}

func TestParseUnterminated(t *testing.T) {
	if _, err := Parse(strings.NewReader("---\ntitle: x\n")); err == nil {
		t.Fatal("expected error for unterminated frontmatter")
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive", "evening-2024-05-01.md")
	meta := map[string]any{"type": "evening", "date": "2024-05-01", "articles": 5}
	if err := WriteFile(path, meta, "# Evening briefing\n"); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if doc.Frontmatter["type"] != "evening" || doc.Frontmatter["articles"] != 5 {
		t.Errorf("frontmatter = %+v", doc.Frontmatter)
	}
	if doc.Body != "# Evening briefing\n" {
		t.Errorf("body = %q", doc.Body)
	}
}
