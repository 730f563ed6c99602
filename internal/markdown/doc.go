// Package markdown implements the lesson authoring pipeline: discovering
// Markdown files on disk, extracting lesson frontmatter, rendering bodies to
// HTML with goldmark, and upserting the results through the course catalog.
package markdown
