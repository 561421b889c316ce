package analyzer

import (
	"fmt"
	"strings"
)

const roleInstruction = "You are an AI Interview Analyst. Your task is to evaluate a candidate's interview performance based on their transcript, their resume, and the job description. Provide a structured analysis."

const analysisGuidelines = `--- Analysis Guidelines ---
Provide your analysis in a JSON format with the following keys:
{
  "summary": "A concise summary of the interview's overall impression.",
  "strengths": ["List specific strengths of the candidate demonstrated in the interview relative to the job and resume."],
  "weaknesses": ["List specific weaknesses or areas for improvement demonstrated in the interview relative to the job and resume."],
  "potential_red_flags": ["List any inconsistencies, vague answers, or concerning behaviors observed."],
  "suitability_score": "A score from 1 to 10 (10 being highly suitable), indicating how well the candidate fits the role based on all provided information.",
  "recommendations": ["Suggestions for next steps (e.g., proceed to next round, ask follow-up questions, consider for different role)."]
}
Ensure the JSON is well-formed and valid.`

const answerDelimiter = "--- Begin Analysis JSON ---"

// buildRetrievalQuery concatenates the transcript, resume and job text under
// labeled sections for the similarity search.
func buildRetrievalQuery(transcript, resume, job string) string {
	return fmt.Sprintf("Interview discussion about: %s\nCandidate background: %s\nJob requirements: %s", transcript, resume, job)
}

// buildPrompt assembles the full generation prompt: role instruction, the
// complete documents, the retrieved context block, the schema instruction
// and the answer delimiter.
func buildPrompt(resume, job, transcript string, chunks []string) string {
	var sb strings.Builder

	sb.WriteString(roleInstruction)
	sb.WriteString("\n\n--- Candidate Resume ---\n")
	sb.WriteString(resume)
	sb.WriteString("\n\n--- Job Description ---\n")
	sb.WriteString(job)
	sb.WriteString("\n\n--- Interview Transcript ---\n")
	sb.WriteString(transcript)
	sb.WriteString("\n\n--- Relevant Context from Documents (for deeper insights) ---\n")
	sb.WriteString(strings.Join(chunks, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString(analysisGuidelines)
	sb.WriteString("\n\n")
	sb.WriteString(answerDelimiter)

	return sb.String()
}
