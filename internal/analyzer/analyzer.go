// Package analyzer orchestrates a single interview analysis: document
// resolution, context retrieval, one generation call and response parsing.
package analyzer

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/interviewlens/interviewlens/internal/document"
	"github.com/interviewlens/interviewlens/internal/logger"
)

const defaultMaxLogLength = 200

// ContentGenerator produces free-form text for a prompt.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Retriever returns the texts of the chunks most similar to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]string, error)
}

// Analyzer evaluates interview transcripts against resumes and job
// descriptions.
type Analyzer struct {
	library   *document.Library
	retriever Retriever
	generator ContentGenerator
	log       *zap.Logger
	topK      int
	maxLogLen int
}

// New creates an analyzer. topK controls how many retrieved chunks are
// injected into the prompt.
func New(library *document.Library, retriever Retriever, generator ContentGenerator, log *zap.Logger, topK int) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	if topK <= 0 {
		topK = 5
	}
	return &Analyzer{
		library:   library,
		retriever: retriever,
		generator: generator,
		log:       log,
		topK:      topK,
		maxLogLen: defaultMaxLogLength,
	}
}

// AnalyzeInterview evaluates the transcript for the given candidate and job.
// It fails with document.ErrNotFound before any generation call when either
// document is missing, with *FormatError when the model output cannot be
// parsed into a Report, and with *CallError on any other failure.
func (a *Analyzer) AnalyzeInterview(ctx context.Context, candidateID, jobID, transcript string) (*Report, error) {
	resume, err := a.library.Read(a.library.CandidatePath(candidateID))
	if err != nil {
		return nil, err
	}

	job, err := a.library.Read(a.library.JobPath(jobID))
	if err != nil {
		return nil, err
	}

	query := buildRetrievalQuery(transcript, resume, job)
	chunks, err := a.retriever.Retrieve(ctx, query, a.topK)
	if err != nil {
		return nil, &CallError{Err: fmt.Errorf("context retrieval: %w", err)}
	}

	a.log.Debug("retrieved context",
		zap.String("candidate_id", candidateID),
		zap.String("job_id", jobID),
		zap.Int("chunks", len(chunks)),
	)

	prompt := buildPrompt(resume, job, transcript, chunks)

	a.log.Debug("generate content request",
		zap.String("candidate_id", candidateID),
		zap.String("job_id", jobID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, &CallError{Err: err}
	}

	a.log.Debug("generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	report, err := parseReport(raw)
	if err != nil {
		a.log.Warn("analysis response did not parse",
			zap.String("candidate_id", candidateID),
			zap.String("job_id", jobID),
			zap.Error(err),
		)
		return nil, err
	}

	return report, nil
}
