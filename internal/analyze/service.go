package analyze

import (
	"context"
	"errors"
	"fmt"

	"careerkit-backend/internal/extract"
	"careerkit-backend/internal/gemini"
)

const maxFileBytes = 5 * 1024 * 1024

// Submission is the validated unit of work: one resume plus the job fields.
// It lives for a single request and is never persisted.
type Submission struct {
	FileName       string
	FileType       string
	File           []byte
	JobTitle       string
	JobDescription string
}

// Generator issues one generation call per invocation. Implemented by
// gemini.Client; stubbed in tests.
type Generator interface {
	Generate(ctx context.Context, key, prompt string) (string, error)
}

// Extractor pulls plain text from PDF bytes.
type Extractor func(data []byte) (string, error)

// Service runs the server-side pipeline: validate, extract, generate, parse.
// Each step is a hard gate; a failure is terminal for the submission.
type Service struct {
	Generator Generator
	Extract   Extractor
}

// NewService constructs a Service with the default PDF extractor.
func NewService(gen Generator) *Service {
	return &Service{Generator: gen, Extract: extract.Text}
}

// Validate applies the authoritative server-side checks. The client runs
// the same checks as a pre-flight, but this is the gate that counts.
func (s *Service) Validate(sub Submission) error {
	if len(sub.File) == 0 || sub.JobTitle == "" || sub.JobDescription == "" {
		return invalid("All fields are required")
	}
	if sub.FileType != "application/pdf" {
		return invalid("Only PDF files are allowed")
	}
	if len(sub.File) > maxFileBytes {
		return invalid("File size must be less than 5MB")
	}
	if len(sub.JobDescription) < 20 {
		return invalid("Job description must be at least 20 characters")
	}
	return nil
}

// Analyze processes one submission with the resolved key and returns the
// parsed result. No step retries; the caller must resubmit on failure.
func (s *Service) Analyze(ctx context.Context, sub Submission, key string) (*GenerationResult, error) {
	if err := s.Validate(sub); err != nil {
		return nil, err
	}

	extractor := s.Extract
	if extractor == nil {
		extractor = extract.Text
	}
	text, err := extractor(sub.File)
	if err != nil {
		if errors.Is(err, extract.ErrNoText) {
			return nil, extract.ErrNoText
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFParse, err)
	}

	prompt := BuildPrompt(text, sub.JobTitle, sub.JobDescription)

	raw, err := s.Generator.Generate(ctx, key, prompt)
	if err != nil {
		return nil, &GenerationError{Kind: gemini.Classify(err), Err: err}
	}

	return ParseModelOutput(raw)
}
