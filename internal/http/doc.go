// Package http provides optional HTTP adapters for the LMS admin API.
//
// Routes mount under /admin/api and follow method+path ServeMux patterns:
//   - Courses: /courses, /courses/{id}, /courses/{id}/publish,
//     /courses/{id}/unpublish, /courses/{id}/archive
//   - Lessons: /courses/{id}/lessons, /courses/{id}/lessons/reorder, /lessons/{id}
//   - Students: /students, /students/{id}, /students/{id}/deactivate
//   - Consents: /students/{id}/consents, /students/{id}/consents/{purpose}
//   - Enrollments: /enrollments, /enrollments/{id}, lifecycle verbs under
//     /enrollments/{id}/..., /courses/{id}/enrollments, /students/{id}/enrollments
//   - Progress: /enrollments/{id}/lessons/{lessonID}/start|complete|time,
//     /enrollments/{id}/progress, /enrollments/{id}/summary
//   - Assessments: /courses/{id}/assessments, /assessments/{id},
//     /assessments/{id}/publish, /assessments/{id}/attempts, /attempts/{id},
//     /attempts/{id}/submit
//   - AI interactions: /interactions, /students/{id}/interactions
//   - Analytics: /courses/{id}/analytics/..., /students/{id}/analytics/overview
//
// Host applications register the handlers on their own mux as needed.
package http
