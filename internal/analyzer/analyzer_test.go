package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/interviewlens/interviewlens/internal/document"
)

type stubGenerator struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type stubRetriever struct {
	chunks    []string
	err       error
	lastQuery string
	lastTopK  int
}

func (s *stubRetriever) Retrieve(_ context.Context, query string, topK int) ([]string, error) {
	s.lastQuery = query
	s.lastTopK = topK
	return s.chunks, s.err
}

const cannedResponse = `Here is the analysis you requested:
{
  "summary": "Solid backend candidate with limited frontend depth.",
  "strengths": ["Python experience", "Project leadership"],
  "weaknesses": ["No backend discussion in interview"],
  "potential_red_flags": ["Interview covered only frontend work despite backend role"],
  "suitability_score": 4,
  "recommendations": ["Ask targeted backend follow-up questions"]
}
Thank you.`

func newTestAnalyzer(t *testing.T, gen *stubGenerator, ret *stubRetriever) (*Analyzer, *document.Library) {
	t.Helper()

	dataDir := t.TempDir()
	for _, sub := range []string{"candidates", "jobs"} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	lib := document.NewLibrary(dataDir)
	return New(lib, ret, gen, zap.NewNop(), 5), lib
}

func writeDoc(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestAnalyzeInterview(t *testing.T) {
	gen := &stubGenerator{response: cannedResponse}
	ret := &stubRetriever{chunks: []string{"5 years Python, led 3 projects", "3+ years backend experience"}}
	a, lib := newTestAnalyzer(t, gen, ret)

	writeDoc(t, lib.CandidatePath("candidate_john_doe_resume"), "5 years Python, led 3 projects")
	writeDoc(t, lib.JobPath("job_backend"), "3+ years backend experience required")

	report, err := a.AnalyzeInterview(context.Background(), "candidate_john_doe_resume", "job_backend", "We mostly discussed frontend work.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Summary != "Solid backend candidate with limited frontend depth." {
		t.Errorf("unexpected summary: %q", report.Summary)
	}
	if len(report.PotentialRedFlags) == 0 {
		t.Error("expected non-empty potential_red_flags")
	}
	if report.SuitabilityScore == nil || *report.SuitabilityScore > 5 {
		t.Errorf("expected mid-range score, got %v", report.SuitabilityScore)
	}
	if gen.calls != 1 {
		t.Errorf("expected exactly one generation call, got %d", gen.calls)
	}

	// The prompt carries the full documents, the retrieved chunks
	// and the answer delimiter
	for _, want := range []string{
		"--- Candidate Resume ---",
		"5 years Python, led 3 projects",
		"--- Job Description ---",
		"--- Interview Transcript ---",
		"We mostly discussed frontend work.",
		"3+ years backend experience",
		"--- Begin Analysis JSON ---",
	} {
		if !strings.Contains(gen.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// The retrieval query is the labeled composite of all three texts
	for _, want := range []string{"Interview discussion about:", "Candidate background:", "Job requirements:"} {
		if !strings.Contains(ret.lastQuery, want) {
			t.Errorf("retrieval query missing %q", want)
		}
	}
	if ret.lastTopK != 5 {
		t.Errorf("expected top_k 5, got %d", ret.lastTopK)
	}
}

func TestAnalyzeInterviewCandidateNotFound(t *testing.T) {
	gen := &stubGenerator{response: cannedResponse}
	a, lib := newTestAnalyzer(t, gen, &stubRetriever{})

	writeDoc(t, lib.JobPath("job_backend"), "jd")

	_, err := a.AnalyzeInterview(context.Background(), "no_such_candidate", "job_backend", "transcript")
	if !errors.Is(err, document.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("no generation call may happen when a document is missing, got %d", gen.calls)
	}
}

func TestAnalyzeInterviewJobNotFound(t *testing.T) {
	gen := &stubGenerator{response: cannedResponse}
	a, lib := newTestAnalyzer(t, gen, &stubRetriever{})

	writeDoc(t, lib.CandidatePath("candidate_a"), "resume")

	_, err := a.AnalyzeInterview(context.Background(), "candidate_a", "no_such_job", "transcript")
	if !errors.Is(err, document.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("no generation call may happen when a document is missing, got %d", gen.calls)
	}
}

func TestAnalyzeInterviewMalformedOutput(t *testing.T) {
	longTail := strings.Repeat("x", 1000)
	gen := &stubGenerator{response: "I cannot produce JSON today. " + longTail}
	a, lib := newTestAnalyzer(t, gen, &stubRetriever{})

	writeDoc(t, lib.CandidatePath("candidate_a"), "resume")
	writeDoc(t, lib.JobPath("job_b"), "jd")

	_, err := a.AnalyzeInterview(context.Background(), "candidate_a", "job_b", "transcript")

	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if got := len([]rune(formatErr.Excerpt)); got > maxExcerptRunes+3 {
		t.Errorf("excerpt not truncated: %d runes", got)
	}
}

func TestAnalyzeInterviewGenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("api quota exceeded")}
	a, lib := newTestAnalyzer(t, gen, &stubRetriever{})

	writeDoc(t, lib.CandidatePath("candidate_a"), "resume")
	writeDoc(t, lib.JobPath("job_b"), "jd")

	_, err := a.AnalyzeInterview(context.Background(), "candidate_a", "job_b", "transcript")

	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected CallError, got %v", err)
	}
	if !strings.Contains(callErr.Error(), "api quota exceeded") {
		t.Errorf("expected underlying message preserved, got %q", callErr.Error())
	}
}

func TestAnalyzeInterviewRetrievalFailure(t *testing.T) {
	gen := &stubGenerator{response: cannedResponse}
	ret := &stubRetriever{err: fmt.Errorf("store unavailable")}
	a, lib := newTestAnalyzer(t, gen, ret)

	writeDoc(t, lib.CandidatePath("candidate_a"), "resume")
	writeDoc(t, lib.JobPath("job_b"), "jd")

	_, err := a.AnalyzeInterview(context.Background(), "candidate_a", "job_b", "transcript")

	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected CallError, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generation must not be attempted after retrieval failure")
	}
}
