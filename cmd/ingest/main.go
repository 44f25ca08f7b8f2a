package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"assistant-orchestrator/internal/di"
	"assistant-orchestrator/internal/infra/config"
)

var (
	version = "dev"

	// Global flags
	verbose bool

	// Run command flags
	dir         string
	concurrency int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "ingest",
	Short:   "Ingest documents into the assistant's vector store",
	Version: version,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Ingest all PDF files from a directory",
	Long: `Ingest every PDF file found in a directory: extract text, chunk it,
embed the chunks and upsert them into the configured vector store.

Examples:
  # Ingest all PDFs in ./docs
  ingest run --dir ./docs

  # Adjust concurrency
  ingest run --dir ./docs --concurrency 4`,
	RunE: runIngest,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection counters",
	RunE:  showStats,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	runCmd.Flags().StringVar(&dir, "dir", ".", "directory to scan for PDF files")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 2, "number of concurrent ingestions")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

func runIngest(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := di.NewApplicationComponents(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("wire components: %w", err)
	}
	defer components.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		fmt.Printf("No PDF files found in %s\n", dir)
		return nil
	}

	logger.Info("starting ingestion",
		slog.String("dir", dir),
		slog.Int("file_count", len(paths)),
		slog.Int("concurrency", concurrency),
	)

	// Stop on SIGINT; files already upserted stay upserted.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down...", slog.String("signal", sig.String()))
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, path := range paths {
		g.Go(func() error {
			result, err := components.IngestUsecase.IngestFile(gctx, path)
			if err != nil {
				return fmt.Errorf("ingest %s: %w", path, err)
			}
			fmt.Printf("Ingested %s: %d chunks in %.2fs\n", result.Source, result.ChunkCount, result.Elapsed)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() == context.Canceled {
			logger.Info("ingestion interrupted")
			return nil
		}
		return err
	}

	fmt.Printf("Ingestion complete. Files: %d\n", len(paths))
	return nil
}

func showStats(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	components, err := di.NewApplicationComponents(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("wire components: %w", err)
	}
	defer components.Close()

	info, err := components.RAGUsecase.CollectionStats(ctx)
	if err != nil {
		return fmt.Errorf("get collection stats: %w", err)
	}

	fmt.Printf("Collection Status:\n")
	fmt.Printf("  Name:          %s\n", info.Name)
	fmt.Printf("  Points Count:  %d\n", info.PointsCount)
	fmt.Printf("  Vectors Count: %d\n", info.VectorsCount)

	return nil
}
