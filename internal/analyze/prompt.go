package analyze

import (
	"fmt"
	"unicode/utf8"
)

// Truncation ceilings are in characters, not tokens, and do not depend on
// the job title length.
const (
	maxResumeChars  = 8000
	maxJobDescChars = 3000
)

const promptTemplate = `You are an expert career counselor and AI assistant. Based on the provided resume and job description, generate a professional cover letter, a learning roadmap, study notes, curated YouTube search links, a resume analysis, and interview questions.

**IMPORTANT: You must respond with ONLY a valid JSON object in the exact format specified below. Do not include any other text, explanations, or markdown formatting.**

Resume Content:
%s

Job Title: %s

Job Description:
%s

Generate a JSON response with the following structure:
{
  "cover_letter": "A professional cover letter that focuses ONLY on skills and experiences that directly match the job requirements. Do not mention any skills that are not in the resume. Do not mention where the job was advertised. Do not include any placeholders or brackets. Format the closing with line breaks between each element.",
  "learning_roadmap": "A markdown-formatted 6-month learning roadmap targeting the gaps between the resume and the job description, organized by month with concrete topics and milestones.",
  "study_notes": "Comprehensive study notes covering key technologies and skills from the job description.",
  "youtube_links": [
    {"title": "Topic name", "url": "https://www.youtube.com/results?search_query=<url-encoded topic>"}
  ],
  "resume_analysis": {
    "missing_skills": ["Skills required by the job description that are missing from the resume"],
    "areas_for_improvement": ["Specific areas where the resume could be improved"],
    "score": 75,
    "feedback": "Detailed feedback on how well the resume matches the job description and specific recommendations for improvement."
  },
  "interview_questions": {
    "technical_questions": ["..."],
    "behavioral_questions": ["..."],
    "system_design_questions": ["..."],
    "job_specific_questions": ["..."]
  }
}

Resume Analysis Requirements:
1. Analyze the resume against the job description and identify missing skills that are required for the position
2. Identify areas where the resume could be improved (e.g., formatting, missing information, weak action verbs)
3. Provide a score out of 100 based on how well the resume matches the job description
4. Give specific, actionable feedback for improvement

Cover Letter Requirements:
1. Do not mention where the job was advertised
2. Only include skills that are both in the resume and relevant to the job
3. If a required skill is missing from the resume, do not mention it at all
4. For projects, include the project URL in parentheses immediately after the project name
5. Do not include project links at the end of the cover letter
6. Only include portfolio, GitHub, and LinkedIn in the contact information section`

// BuildPrompt assembles the single generation request sent to the model.
// Resume text and job description are truncated to fixed character
// ceilings so the prompt stays bounded regardless of upload size.
func BuildPrompt(resumeText, jobTitle, jobDescription string) string {
	return fmt.Sprintf(promptTemplate,
		truncate(resumeText, maxResumeChars),
		jobTitle,
		truncate(jobDescription, maxJobDescChars),
	)
}

// truncate keeps the first max characters. Ceilings count runes, not
// bytes, so multibyte text is never cut mid-rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
