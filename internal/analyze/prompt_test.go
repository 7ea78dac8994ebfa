package analyze

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildPromptTruncatesByCharacterCount(t *testing.T) {
	resume := strings.Repeat("r", maxResumeChars+500)
	jd := strings.Repeat("d", maxJobDescChars+500)

	prompt := BuildPrompt(resume, "Backend Engineer", jd)

	if strings.Contains(prompt, strings.Repeat("r", maxResumeChars+1)) {
		t.Fatal("resume text not truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("r", maxResumeChars)) {
		t.Fatal("resume text truncated below the ceiling")
	}
	if strings.Contains(prompt, strings.Repeat("d", maxJobDescChars+1)) {
		t.Fatal("job description not truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("d", maxJobDescChars)) {
		t.Fatal("job description truncated below the ceiling")
	}
}

func TestBuildPromptTruncatesMultibyteByRunes(t *testing.T) {
	resume := strings.Repeat("é", maxResumeChars+500)
	jd := strings.Repeat("ü", maxJobDescChars+500)

	prompt := BuildPrompt(resume, "Backend Engineer", jd)

	if !utf8.ValidString(prompt) {
		t.Fatal("prompt contains invalid UTF-8 after truncation")
	}
	if !strings.Contains(prompt, strings.Repeat("é", maxResumeChars)) {
		t.Fatal("resume text truncated below the character ceiling")
	}
	if strings.Contains(prompt, strings.Repeat("é", maxResumeChars+1)) {
		t.Fatal("resume text not truncated at the character ceiling")
	}
	if !strings.Contains(prompt, strings.Repeat("ü", maxJobDescChars)) {
		t.Fatal("job description truncated below the character ceiling")
	}
	if strings.Contains(prompt, strings.Repeat("ü", maxJobDescChars+1)) {
		t.Fatal("job description not truncated at the character ceiling")
	}
}

func TestBuildPromptKeepsShortInputsIntact(t *testing.T) {
	prompt := BuildPrompt("five years of Go", "Backend Engineer", "build services in Go")

	for _, want := range []string{"five years of Go", "Backend Engineer", "build services in Go", "ONLY a valid JSON object"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}
