package analyze

import (
	"errors"
	"fmt"

	"careerkit-backend/internal/gemini"
)

var (
	// ErrMalformedOutput means the model's answer held no parseable JSON object.
	ErrMalformedOutput = errors.New("no JSON object in model response")
	// ErrIncompleteOutput means the JSON object was missing required fields.
	ErrIncompleteOutput = errors.New("incomplete model response")
	// ErrPDFParse means the upload could not be read as a PDF.
	ErrPDFParse = errors.New("failed to parse PDF file")
)

// ValidationError rejects a submission before any external call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// GenerationError wraps a failed generation call with its classification.
type GenerationError struct {
	Kind gemini.FailureKind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
