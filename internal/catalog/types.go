package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-lms/internal/domain"
)

// Course is the root catalog entity. Lessons hang off a course and
// enrollments reference it by ID.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID          uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	Code        string        `bun:"code,notnull,unique" json:"code"`
	Title       string        `bun:"title,notnull" json:"title"`
	Description *string       `bun:"description" json:"description,omitempty"`
	Status      domain.Status `bun:"status,notnull,default:'draft'" json:"status"`
	// Capacity bounds active enrollments. Zero means unlimited.
	Capacity    int        `bun:"capacity,notnull,default:0" json:"capacity"`
	PublishAt   *time.Time `bun:"publish_at" json:"publish_at,omitempty"`
	UnpublishAt *time.Time `bun:"unpublish_at" json:"unpublish_at,omitempty"`
	Tags        []string   `bun:"tags,array" json:"tags,omitempty"`
	DeletedAt   *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Lessons []*Lesson `bun:"rel:has-many,join:id=course_id" json:"lessons,omitempty"`
}

// Lesson is an ordered unit of content within a course. Positions run 1..n
// per course with no gaps; every mutation keeps the sequence dense.
type Lesson struct {
	bun.BaseModel `bun:"table:lessons,alias:l"`

	ID       uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CourseID uuid.UUID `bun:"course_id,notnull,type:uuid" json:"course_id"`
	Slug     string    `bun:"slug,notnull" json:"slug"`
	Title    string    `bun:"title,notnull" json:"title"`
	// Body holds the markdown source; BodyHTML the rendered output.
	Body     string `bun:"body" json:"body,omitempty"`
	BodyHTML string `bun:"body_html" json:"body_html,omitempty"`
	Position int    `bun:"position,notnull,default:0" json:"position"`
	// Required lessons gate enrollment completion.
	Required        bool       `bun:"required,notnull,default:true" json:"required"`
	DurationMinutes int        `bun:"duration_minutes,notnull,default:0" json:"duration_minutes"`
	DeletedAt       *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Course *Course `bun:"rel:belongs-to,join:course_id=id" json:"course,omitempty"`
}

// lessonKey formats a composite lookup key for course-scoped lesson slugs.
func lessonKey(courseID uuid.UUID, slug string) string {
	return courseID.String() + ":" + slug
}
