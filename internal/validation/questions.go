package validation

import (
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-lms/internal/assessment"
)

// questionSetSchema is the canonical shape for question sets. The answer key
// is optional here because assignment prompts carry none; the assessment
// service requires it for auto-graded kinds.
const questionSetSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["id", "type", "prompt", "points"],
    "additionalProperties": false,
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "type": {"enum": ["multiple_choice", "true_false", "short_answer"]},
      "prompt": {"type": "string", "minLength": 1},
      "options": {
        "type": "array",
        "items": {"type": "string", "minLength": 1}
      },
      "answer": {"type": "string", "minLength": 1},
      "points": {"type": "number", "exclusiveMinimum": 0}
    },
    "allOf": [
      {
        "if": {"properties": {"type": {"const": "multiple_choice"}}},
        "then": {
          "required": ["options"],
          "properties": {"options": {"minItems": 2}}
        }
      },
      {
        "if": {"properties": {"type": {"const": "true_false"}}},
        "then": {"properties": {"answer": {"enum": ["true", "false"]}}}
      }
    ]
  }
}`

// QuestionSchemaValidator validates question sets against the canonical
// JSON schema. It satisfies the assessment service's validator contract.
type QuestionSchemaValidator struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// NewQuestionSchemaValidator creates a validator with a lazily compiled schema.
func NewQuestionSchemaValidator() *QuestionSchemaValidator {
	return &QuestionSchemaValidator{}
}

// ValidateQuestions validates a question set, returning a
// PayloadValidationError describing each failing question.
func (v *QuestionSchemaValidator) ValidateQuestions(questions []assessment.Question) error {
	v.once.Do(func() {
		v.schema, v.err = compileSchemaBytes([]byte(questionSetSchema))
	})
	if v.err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, v.err)
	}
	return validateWith(v.schema, questions)
}
