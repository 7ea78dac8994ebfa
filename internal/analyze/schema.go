package analyze

import (
	"encoding/json"
	"fmt"
	"strings"
)

// YouTubeLink is one suggested search result in the learning material list.
type YouTubeLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ResumeAnalysis scores the resume against the job description.
type ResumeAnalysis struct {
	MissingSkills       []string `json:"missing_skills"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Score               int      `json:"score"`
	Feedback            string   `json:"feedback"`
}

// InterviewQuestions groups generated questions by category.
type InterviewQuestions struct {
	TechnicalQuestions    []string `json:"technical_questions"`
	BehavioralQuestions   []string `json:"behavioral_questions"`
	SystemDesignQuestions []string `json:"system_design_questions"`
	JobSpecificQuestions  []string `json:"job_specific_questions"`
}

// GenerationResult is the structured output parsed from the model's answer.
// cover_letter, learning_roadmap, study_notes and youtube_links are
// mandatory; the rest is best effort.
type GenerationResult struct {
	CoverLetter        string              `json:"cover_letter"`
	LearningRoadmap    string              `json:"learning_roadmap"`
	StudyNotes         string              `json:"study_notes"`
	YouTubeLinks       []YouTubeLink       `json:"youtube_links"`
	ResumeAnalysis     *ResumeAnalysis     `json:"resume_analysis,omitempty"`
	InterviewQuestions *InterviewQuestions `json:"interview_questions,omitempty"`
}

// ParseModelOutput runs the strict two-stage parse of the model's free-text
// answer: extract the candidate substring from the first '{' to the last
// '}', then decode and verify the required fields. Text around the object
// is ignored; anything less than a complete result fails closed.
func ParseModelOutput(raw string) (*GenerationResult, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, ErrMalformedOutput
	}
	blob := []byte(raw[start : end+1])

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(blob, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	var result GenerationResult
	if err := json.Unmarshal(blob, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if result.CoverLetter == "" || result.LearningRoadmap == "" || result.StudyNotes == "" {
		return nil, ErrIncompleteOutput
	}
	if !isJSONArray(probe["youtube_links"]) {
		return nil, ErrIncompleteOutput
	}
	if result.YouTubeLinks == nil {
		result.YouTubeLinks = []YouTubeLink{}
	}
	return &result, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}
