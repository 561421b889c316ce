package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/interviewlens/interviewlens/internal/config"
	"github.com/interviewlens/interviewlens/internal/document"
	"github.com/interviewlens/interviewlens/internal/logger"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Chunk, embed and index the document library without starting the server",
	Run: func(cmd *cobra.Command, _ []string) {
		ingest()
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func ingest() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}

	library := document.NewLibrary(cfg.Docs.DataDir)

	pipeline, err := buildPipeline(cfg, library, logger)
	if err != nil {
		logger.Fatal("building ingestion pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	ingestLibrary(ctx, library, pipeline, logger)
}
