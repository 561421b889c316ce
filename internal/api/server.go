package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/interviewlens/interviewlens/internal/analyzer"
	"github.com/interviewlens/interviewlens/internal/config"
	"github.com/interviewlens/interviewlens/internal/document"
)

// InterviewAnalyzer runs one interview analysis.
type InterviewAnalyzer interface {
	AnalyzeInterview(ctx context.Context, candidateID, jobID, transcript string) (*analyzer.Report, error)
}

// GenerationBackend exposes the health of the generation API.
type GenerationBackend interface {
	CheckHealth(ctx context.Context) error
	Model() string
}

// ChunkCounter reports how many chunks are indexed.
type ChunkCounter interface {
	ChunkCount() (int, error)
}

// Server represents the HTTP API server
type Server struct {
	config   *config.Config
	router   *gin.Engine
	library  *document.Library
	analyzer InterviewAnalyzer
	backend  GenerationBackend
	counter  ChunkCounter
	log      *zap.Logger
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, library *document.Library, ia InterviewAnalyzer, backend GenerationBackend, counter ChunkCounter, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		config:   cfg,
		router:   gin.New(),
		library:  library,
		analyzer: ia,
		backend:  backend,
		counter:  counter,
		log:      log,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware(s.config.Server.AllowedOrigin))

	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/get-available-documents", s.handleGetAvailableDocuments)
	s.router.POST("/analyze-interview", s.handleAnalyzeInterview)
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails. On cancellation in-flight requests get a grace period to finish.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info("starting API server", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Router exposes the gin engine for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// corsMiddleware adds CORS headers for the configured frontend origin
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// handleRoot is the liveness message endpoint
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "AI Interview Detector Backend (RAG+LLM) is running!",
	})
}

// handleHealth reports generation backend reachability and index size
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	backendStatus := "ok"
	model := ""
	if s.backend != nil {
		model = s.backend.Model()
		if err := s.backend.CheckHealth(ctx); err != nil {
			backendStatus = fmt.Sprintf("error: %v", err)
		}
	} else {
		backendStatus = "not configured"
	}

	storeStatus := "ok"
	chunkCount := 0
	if s.counter != nil {
		n, err := s.counter.ChunkCount()
		if err != nil {
			storeStatus = fmt.Sprintf("error: %v", err)
		} else {
			chunkCount = n
		}
	} else {
		storeStatus = "not configured"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"model":       model,
		"generation":  backendStatus,
		"store":       storeStatus,
		"chunk_count": chunkCount,
	})
}

// DocumentInfo describes one available document
type DocumentInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
}

// handleGetAvailableDocuments lists the candidate and job documents present
// on disk at call time
func (s *Server) handleGetAvailableDocuments(c *gin.Context) {
	candidateInfos, err := s.library.ListCandidates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	jobInfos, err := s.library.ListJobs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	candidates := make([]DocumentInfo, 0, len(candidateInfos))
	for _, info := range candidateInfos {
		candidates = append(candidates, DocumentInfo{ID: info.ID, Name: info.Label})
	}

	jobs := make([]DocumentInfo, 0, len(jobInfos))
	for _, info := range jobInfos {
		jobs = append(jobs, DocumentInfo{ID: info.ID, Title: info.Label})
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": candidates,
		"jobs":       jobs,
	})
}

// AnalyzeInterviewRequest represents an analysis request
type AnalyzeInterviewRequest struct {
	CandidateID string `json:"candidate_id" binding:"required"`
	JobID       string `json:"job_id" binding:"required"`
	Transcript  string `json:"interview_transcript" binding:"required"`
}

// handleAnalyzeInterview runs one interview analysis
func (s *Server) handleAnalyzeInterview(c *gin.Context) {
	var req AnalyzeInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := s.analyzer.AnalyzeInterview(c.Request.Context(), req.CandidateID, req.JobID, req.Transcript)
	if err != nil {
		s.writeAnalyzeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// writeAnalyzeError maps analyzer failures onto HTTP status codes
func (s *Server) writeAnalyzeError(c *gin.Context, err error) {
	if errors.Is(err, document.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate resume or job description not found."})
		return
	}

	var formatErr *analyzer.FormatError
	if errors.As(err, &formatErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "LLM response not in expected JSON format. Raw: " + formatErr.Excerpt,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
