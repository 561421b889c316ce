package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/interviewlens/interviewlens/internal/analyzer"
	"github.com/interviewlens/interviewlens/internal/api"
	"github.com/interviewlens/interviewlens/internal/chunker"
	"github.com/interviewlens/interviewlens/internal/config"
	"github.com/interviewlens/interviewlens/internal/document"
	"github.com/interviewlens/interviewlens/internal/embedding"
	"github.com/interviewlens/interviewlens/internal/llm/gemini"
	"github.com/interviewlens/interviewlens/internal/logger"
	"github.com/interviewlens/interviewlens/internal/rag"
	"github.com/interviewlens/interviewlens/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Ingest the document library and start the HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}

	logger.Info("starting interviewlens",
		zap.String("version", version),
		zap.String("data_dir", cfg.Docs.DataDir),
		zap.String("store", cfg.Store.Type),
		zap.String("embedding", cfg.Embedding.Provider),
		zap.String("model", cfg.Gemini.Model),
	)

	library := document.NewLibrary(cfg.Docs.DataDir)

	pipeline, err := buildPipeline(cfg, library, logger)
	if err != nil {
		logger.Fatal("building ingestion pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	apiKey := os.Getenv(cfg.Gemini.APIKeyEnv)
	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		logger.Fatal("creating gemini generator",
			zap.Error(err),
			zap.String("hint", "set the "+cfg.Gemini.APIKeyEnv+" environment variable"),
		)
	}

	ingestLibrary(ctx, library, pipeline, logger)

	ia := analyzer.New(library, pipeline, generator, logger, cfg.Retrieval.TopK)
	server := api.NewServer(cfg, library, ia, generator, pipeline, logger)

	// Fatal would skip the deferred pipeline and logger shutdown
	if err := server.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}

// buildPipeline wires the chunker, embedding provider and vector store.
func buildPipeline(cfg *config.Config, library *document.Library, logger *zap.Logger) (*rag.Pipeline, error) {
	provider, err := embedding.NewProvider(cfg.Embedding)
	if err != nil {
		return nil, err
	}

	vectors, err := store.New(cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	splitter := chunker.New(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	return rag.NewPipeline(library, splitter, provider, vectors, logger), nil
}

// ingestLibrary bulk-ingests every document found in the library. Requests
// arriving before this completes retrieve no context but do not fail.
func ingestLibrary(ctx context.Context, library *document.Library, pipeline *rag.Pipeline, logger *zap.Logger) {
	paths, err := library.AllPaths()
	if err != nil {
		logger.Fatal("listing document library", zap.Error(err))
	}

	if len(paths) == 0 {
		logger.Warn("no documents found to ingest",
			zap.String("candidates_dir", library.CandidatesDir()),
			zap.String("jobs_dir", library.JobsDir()),
		)
		return
	}

	if err := pipeline.Ingest(ctx, paths); err != nil {
		logger.Fatal("initial ingestion failed", zap.Error(err))
	}

	chunks, err := pipeline.ChunkCount()
	if err != nil {
		logger.Warn("could not read chunk count", zap.Error(err))
	}

	logger.Info("initial documents ingested",
		zap.Int("documents", len(paths)),
		zap.Int("chunks", chunks),
	)
}
