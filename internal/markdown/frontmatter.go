package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter carries the lesson metadata extracted from a document header.
type FrontMatter struct {
	Course          string
	CourseTitle     string
	Slug            string
	Title           string
	Summary         string
	Position        int
	DurationMinutes int
	Required        *bool
	Status          string
	Tags            []string
	Draft           bool
	Custom          map[string]any
	Raw             map[string]any
}

// Document is a parsed Markdown file ready for import.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	Checksum     []byte
	LastModified time.Time
}

// ParseFrontMatter extracts metadata and the Markdown body from the provided
// source bytes. It returns the structured frontmatter, the body without
// delimiters, and any error encountered.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles a Document from the supplied file path, raw content,
// and modification time. BodyHTML is intentionally left empty so callers can
// render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &Document{
		FilePath:     path,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Course      string         `yaml:"course"`
	CourseTitle string         `yaml:"course_title"`
	Slug        string         `yaml:"slug"`
	Title       string         `yaml:"title"`
	Summary     string         `yaml:"summary"`
	Position    int            `yaml:"position"`
	Duration    int            `yaml:"duration"`
	Required    *bool          `yaml:"required"`
	Status      string         `yaml:"status"`
	Tags        []string       `yaml:"tags"`
	Draft       bool           `yaml:"draft"`
	Custom      map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+10)
	for key, value := range env.Custom {
		raw[key] = value
	}

	if env.Course != "" {
		raw["course"] = env.Course
	}
	if env.CourseTitle != "" {
		raw["course_title"] = env.CourseTitle
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}
	if env.Position != 0 {
		raw["position"] = env.Position
	}
	if env.Duration != 0 {
		raw["duration"] = env.Duration
	}
	if env.Required != nil {
		raw["required"] = *env.Required
	}
	if env.Status != "" {
		raw["status"] = env.Status
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	raw["draft"] = env.Draft

	return FrontMatter{
		Course:          env.Course,
		CourseTitle:     env.CourseTitle,
		Slug:            env.Slug,
		Title:           env.Title,
		Summary:         env.Summary,
		Position:        env.Position,
		DurationMinutes: env.Duration,
		Required:        env.Required,
		Status:          env.Status,
		Tags:            append([]string(nil), env.Tags...),
		Draft:           env.Draft,
		Custom:          cloneMap(env.Custom),
		Raw:             raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
