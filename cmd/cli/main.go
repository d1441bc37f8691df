// Package main provides the artifact-service CLI: one-shot artifact analysis
// and model catalog inspection from the terminal, without running the server.
//
// Run with: go run ./cmd/cli analyze --image pot.jpg --notes "found near Knossos"
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/artifactlab/artifact-service/internal/ai"
	"github.com/artifactlab/artifact-service/internal/catalog"
	"github.com/artifactlab/artifact-service/internal/config"
	"github.com/artifactlab/artifact-service/internal/diagnose"
	"github.com/artifactlab/artifact-service/internal/model"
	"github.com/artifactlab/artifact-service/internal/service"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "artifact-cli",
		Short: "Artifact analysis CLI tools",
	}

	root.AddCommand(analyzeCmd())
	root.AddCommand(modelsCmd())
	return root
}

func analyzeCmd() *cobra.Command {
	var imagePath, notes, output string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Generate an archaeological report for an artifact image",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(imagePath, notes, output)
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "Path to a JPEG or PNG artifact image (required)")
	cmd.Flags().StringVar(&notes, "notes", "", "Optional context: provenance, inscriptions, suspected period")
	cmd.Flags().StringVar(&output, "output", model.ReportFilename, "Output file for the markdown report (\"-\" for stdout)")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "Show the resolved model catalog and selected model",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels()
		},
	}
}

// setup loads config, builds the logger, and resolves the model catalog.
// The CLI requires the credential up front — there is no degraded mode here.
func setup(ctx context.Context) (*service.Analyzer, *zap.Logger, error) {
	cfg, err := config.Load(os.Getenv("ARTIFACT_CONFIG_PATH"))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if !cfg.Gemini.Configured() {
		return nil, nil, fmt.Errorf("gemini.api_key is not configured (set ARTIFACT_GEMINI_API_KEY)")
	}

	// Always development mode for the CLI
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}

	client, err := ai.NewGeminiClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("creating provider client: %w", err)
	}

	cat := catalog.Resolve(ctx, client, cfg.Catalog.Preferred, logger)

	// No audit database for one-shot CLI runs
	return service.NewAnalyzer(client, cat, nil, logger), logger, nil
}

func runAnalyze(imagePath, notes, output string) error {
	ctx, cancel := signalContext()
	defer cancel()

	analyzer, logger, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	img, err := service.NormalizeImage(data)
	if err != nil {
		return fmt.Errorf("could not load image: %w", err)
	}

	report, err := analyzer.Analyze(ctx, notes, img)
	if err != nil {
		advice := diagnose.Classify(err)
		fmt.Fprintf(os.Stderr, "\n%s\n%s\n\n", advice.Summary, advice.Remediation)
		return err
	}

	if output == "-" {
		fmt.Println(report.Markdown)
		return nil
	}

	if err := os.WriteFile(output, []byte(report.Markdown), 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Printf("report written to %s (model: %s)\n", output, report.Model)
	return nil
}

func runModels() error {
	ctx, cancel := signalContext()
	defer cancel()

	analyzer, logger, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cat := analyzer.Catalog()
	fmt.Printf("selected: %s\n", cat.Selected())
	if cat.FromFallback {
		fmt.Println("(catalog query failed, static fallback list in use)")
	}
	for _, m := range cat.Models {
		fmt.Printf("  %s\n", m)
	}
	return nil
}

// signalContext returns a context cancelled on Ctrl+C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
