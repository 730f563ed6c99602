// Package links resolves portal URLs for courses, lessons, and students using
// go-urlkit route groups. Exported spreadsheets and the admin API embed the
// resulting links.
package links

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/runtimeconfig"
)

var ErrRouteConfigRequired = errors.New("links: navigation route config is required")

// BuilderOptions configure the go-urlkit backed link builder.
type BuilderOptions struct {
	Manager      *urlkit.RouteManager
	DefaultGroup string
	CourseRoute  string
	LessonRoute  string
	StudentRoute string
	CourseParam  string
	LessonParam  string
	StudentParam string
}

// Builder resolves portal URLs through a go-urlkit RouteManager.
type Builder struct {
	manager *urlkit.RouteManager

	defaultGroup string
	courseRoute  string
	lessonRoute  string
	studentRoute string
	courseParam  string
	lessonParam  string
	studentParam string

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

// NewBuilder constructs a link builder backed by go-urlkit.
func NewBuilder(opts BuilderOptions) *Builder {
	if opts.DefaultGroup == "" {
		opts.DefaultGroup = "portal"
	}
	if opts.CourseRoute == "" {
		opts.CourseRoute = "course"
	}
	if opts.LessonRoute == "" {
		opts.LessonRoute = "lesson"
	}
	if opts.StudentRoute == "" {
		opts.StudentRoute = "student"
	}
	if opts.CourseParam == "" {
		opts.CourseParam = "course_id"
	}
	if opts.LessonParam == "" {
		opts.LessonParam = "lesson_id"
	}
	if opts.StudentParam == "" {
		opts.StudentParam = "student_id"
	}

	return &Builder{
		manager:      opts.Manager,
		defaultGroup: strings.TrimSpace(opts.DefaultGroup),
		courseRoute:  strings.TrimSpace(opts.CourseRoute),
		lessonRoute:  strings.TrimSpace(opts.LessonRoute),
		studentRoute: strings.TrimSpace(opts.StudentRoute),
		courseParam:  opts.CourseParam,
		lessonParam:  opts.LessonParam,
		studentParam: opts.StudentParam,
		groupCache:   make(map[string]*urlkit.Group),
	}
}

// FromRuntime wires a builder from the module navigation configuration.
func FromRuntime(cfg runtimeconfig.NavigationConfig) (*Builder, error) {
	if cfg.RouteConfig == nil {
		return nil, ErrRouteConfigRequired
	}
	manager := urlkit.NewRouteManager(cfg.RouteConfig)
	return NewBuilder(BuilderOptions{
		Manager:      manager,
		DefaultGroup: cfg.URLKit.DefaultGroup,
		CourseRoute:  cfg.URLKit.CourseRoute,
		LessonRoute:  cfg.URLKit.LessonRoute,
		StudentRoute: cfg.URLKit.StudentRoute,
		CourseParam:  cfg.URLKit.CourseParam,
		LessonParam:  cfg.URLKit.LessonParam,
		StudentParam: cfg.URLKit.StudentParam,
	}), nil
}

// CourseURL resolves the portal URL for a course.
func (b *Builder) CourseURL(courseID uuid.UUID) (string, error) {
	return b.build(b.courseRoute, map[string]any{
		b.courseParam: courseID.String(),
	})
}

// LessonURL resolves the portal URL for a lesson within a course.
func (b *Builder) LessonURL(courseID, lessonID uuid.UUID) (string, error) {
	return b.build(b.lessonRoute, map[string]any{
		b.courseParam: courseID.String(),
		b.lessonParam: lessonID.String(),
	})
}

// StudentURL resolves the portal URL for a student profile.
func (b *Builder) StudentURL(studentID uuid.UUID) (string, error) {
	return b.build(b.studentRoute, map[string]any{
		b.studentParam: studentID.String(),
	})
}

func (b *Builder) build(route string, params map[string]any) (string, error) {
	if b == nil || b.manager == nil {
		return "", nil
	}
	if route == "" {
		return "", nil
	}

	group, err := b.groupForPath(b.defaultGroup)
	if err != nil || group == nil {
		return "", err
	}

	builder, err := safeBuilder(group, route)
	if err != nil || builder == nil {
		return "", err
	}

	for key, val := range params {
		builder.WithParam(key, val)
	}

	return builder.Build()
}

func (b *Builder) groupForPath(path string) (*urlkit.Group, error) {
	if path == "" {
		return nil, nil
	}

	b.mu.RLock()
	group, ok := b.groupCache[path]
	b.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	root, err := lookupGroup(b.manager, parts[0])
	if err != nil {
		return nil, err
	}
	current := root
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	b.mu.Lock()
	b.groupCache[path] = current
	b.mu.Unlock()
	return current, nil
}

// The urlkit lookups panic on unknown names; the named returns let the
// deferred recover surface that as an error instead.
func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("links: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("links: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("links: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("links: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, fmt.Errorf("links: parent group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("links: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, nil
}
