package markdown_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-lms/internal/markdown"
	"github.com/goliatone/go-lms/internal/runtimeconfig"
)

const variablesSource = `---
course: algebra-101
slug: variables
title: Variables
position: 1
duration: 15
---
# Variables

A variable names a value.
`

const equationsSource = `---
course: algebra-101
slug: linear-equations
title: Linear Equations
position: 2
duration: 25
---
# Linear Equations

Solve for x.
`

func newTestService(t *testing.T, filesystem fstest.MapFS) *markdown.Service {
	t.Helper()
	svc, err := markdown.NewService(markdown.ConfigFromRuntime(runtimeconfig.MarkdownConfig{
		ContentDir: "content",
		Pattern:    "*.md",
		Recursive:  true,
	}), newCatalog(), nil, markdown.WithFilesystem(filesystem))
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func contentFS() fstest.MapFS {
	return fstest.MapFS{
		"algebra-101/01-variables.md":        &fstest.MapFile{Data: []byte(variablesSource)},
		"algebra-101/02-linear-equations.md": &fstest.MapFile{Data: []byte(equationsSource)},
		"algebra-101/notes.txt":              &fstest.MapFile{Data: []byte("ignored")},
	}
}

func TestServiceLoadDirectoryRendersDocuments(t *testing.T) {
	svc := newTestService(t, contentFS())

	docs, err := svc.LoadDirectory(context.Background(), ".")
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected two markdown documents, got %d", len(docs))
	}
	if docs[0].FrontMatter.Slug != "variables" {
		t.Fatalf("expected documents sorted by path, got %q first", docs[0].FrontMatter.Slug)
	}
	if !strings.Contains(string(docs[0].BodyHTML), "<h1") {
		t.Fatalf("expected rendered body HTML, got %q", string(docs[0].BodyHTML))
	}
	if len(docs[0].Checksum) == 0 {
		t.Fatalf("expected document checksum to be populated")
	}
}

func TestServiceLoadSingleFile(t *testing.T) {
	svc := newTestService(t, contentFS())

	doc, err := svc.Load(context.Background(), "algebra-101/01-variables.md")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if doc.FrontMatter.Course != "algebra-101" {
		t.Fatalf("expected course code from frontmatter, got %q", doc.FrontMatter.Course)
	}
}

func TestServiceImportDirectory(t *testing.T) {
	filesystem := contentFS()
	courses := newCatalog()
	svc, err := markdown.NewService(markdown.Config{Pattern: "*.md", Recursive: true}, courses, nil, markdown.WithFilesystem(filesystem))
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	result, err := svc.ImportDirectory(context.Background(), ".", markdown.ImportOptions{})
	if err != nil {
		t.Fatalf("ImportDirectory returned error: %v", err)
	}

	if len(result.CreatedCourseIDs) != 1 || len(result.CreatedLessonIDs) != 2 {
		t.Fatalf("expected one course and two lessons created, got %+v", result)
	}

	course := mustCourse(t, courses, "algebra-101")
	lessons, err := courses.ListLessons(context.Background(), course.ID)
	if err != nil {
		t.Fatalf("ListLessons returned error: %v", err)
	}
	if len(lessons) != 2 || lessons[0].Slug != "variables" {
		t.Fatalf("expected imported lessons in position order, got %#v", lessons)
	}
}

func TestServiceSyncRemovesMissingFiles(t *testing.T) {
	filesystem := contentFS()
	courses := newCatalog()
	svc, err := markdown.NewService(markdown.Config{Pattern: "*.md", Recursive: true}, courses, nil, markdown.WithFilesystem(filesystem))
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if _, err := svc.ImportDirectory(context.Background(), ".", markdown.ImportOptions{}); err != nil {
		t.Fatalf("seed import returned error: %v", err)
	}

	delete(filesystem, "algebra-101/02-linear-equations.md")

	result, err := svc.Sync(context.Background(), ".", markdown.SyncOptions{DeleteOrphaned: true})
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if result.Deleted != 1 {
		t.Fatalf("expected one orphaned lesson removed, got %d", result.Deleted)
	}
	if result.Skipped != 1 {
		t.Fatalf("expected remaining lesson to be skipped as unchanged, got %d", result.Skipped)
	}
}
