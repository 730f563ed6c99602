package markdown

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/lesson.md")

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if fm.Course != "algebra-101" {
		t.Fatalf("FrontMatter Course mismatch, got %q", fm.Course)
	}
	if fm.CourseTitle != "Algebra Fundamentals" {
		t.Fatalf("FrontMatter CourseTitle mismatch, got %q", fm.CourseTitle)
	}
	if fm.Slug != "linear-equations" {
		t.Fatalf("FrontMatter Slug mismatch, got %q", fm.Slug)
	}
	if fm.Position != 2 || fm.DurationMinutes != 25 {
		t.Fatalf("FrontMatter position/duration mismatch: %d/%d", fm.Position, fm.DurationMinutes)
	}
	if fm.Required == nil || !*fm.Required {
		t.Fatalf("FrontMatter Required mismatch: %#v", fm.Required)
	}
	if fm.Status != "published" {
		t.Fatalf("FrontMatter Status mismatch, got %q", fm.Status)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "math" {
		t.Fatalf("FrontMatter Tags mismatch: %#v", fm.Tags)
	}
	if fm.Custom["grade_band"] != "middle-school" {
		t.Fatalf("FrontMatter Custom grade_band missing: %#v", fm.Custom)
	}
	if fm.Raw["summary"] != "Solving single-variable linear equations" {
		t.Fatalf("FrontMatter Raw summary missing: %#v", fm.Raw)
	}
	if len(body) == 0 || !strings.Contains(string(body), "# Linear Equations") {
		t.Fatalf("Markdown body not returned correctly: %q", string(body))
	}
}

func TestBuildDocument(t *testing.T) {
	data := readFixture(t, "testdata/lesson.md")
	modified := time.Now().UTC()

	doc, err := BuildDocument("testdata/lesson.md", data, modified)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}

	if doc.FilePath != "testdata/lesson.md" {
		t.Fatalf("expected FilePath to be set, got %q", doc.FilePath)
	}
	if doc.LastModified != modified {
		t.Fatalf("expected LastModified to equal the provided timestamp")
	}
	if len(doc.Body) == 0 {
		t.Fatalf("expected Body to contain markdown content")
	}
	if len(doc.BodyHTML) != 0 {
		t.Fatalf("expected BodyHTML to stay empty until rendered")
	}
}

func TestGoldmarkParserParse(t *testing.T) {
	parser := NewGoldmarkParser(ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered HTML to include <h1>Heading</h1>, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
}

func TestGoldmarkParserSanitize(t *testing.T) {
	parser := NewGoldmarkParser(ParseOptions{})

	unsafe, err := parser.Parse([]byte("before\n\n<script>alert(1)</script>\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(string(unsafe), "<script>") {
		t.Fatalf("expected default render to pass raw HTML through, got %q", string(unsafe))
	}

	safe, err := parser.ParseWithOptions([]byte("before\n\n<script>alert(1)</script>\n"), ParseOptions{Sanitize: true})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if strings.Contains(string(safe), "<script>") {
		t.Fatalf("expected sanitized render to strip raw HTML, got %q", string(safe))
	}
}

func TestGoldmarkParserExtensions(t *testing.T) {
	parser := NewGoldmarkParser(ParseOptions{})

	html, err := parser.Parse([]byte("- [ ] practice\n\nhttps://example.com/portal\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, "checkbox") {
		t.Fatalf("expected tasklist extension output, got %q", got)
	}
	if !strings.Contains(got, "<a href=\"https://example.com/portal\"") {
		t.Fatalf("expected linkify extension output, got %q", got)
	}

	plain, err := parser.ParseWithOptions([]byte("https://example.com/portal\n"), ParseOptions{Extensions: []string{"table"}})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if strings.Contains(string(plain), "<a href=") {
		t.Fatalf("expected explicit extension list to disable linkify, got %q", string(plain))
	}
}

func readFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
