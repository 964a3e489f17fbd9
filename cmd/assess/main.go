package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"ventureshield/internal/app"
	"ventureshield/internal/catalog"
	"ventureshield/internal/config"
	"ventureshield/internal/model"
	"ventureshield/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "assess",
		Short:        "Score startup security self-assessments offline",
		SilenceUsage: true,
	}

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newPreScoreCmd())
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newTokenCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	var file, catalogPath string
	var noEnrich bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Produce a full risk report for a submission",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			a, err := buildApp(ctx, cmd, catalogPath, noEnrich)
			if err != nil {
				return err
			}
			defer a.Close()

			sub, err := readSubmission(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			result, source, err := a.Analysis.Analyze(ctx, sub)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Report source: %s\n", source)
			return writeIndented(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "submission JSON file ('-' for stdin)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "question catalog YAML (default: built-in)")
	cmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "skip enrichment and use the deterministic report")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newPreScoreCmd() *cobra.Command {
	var file, catalogPath string

	cmd := &cobra.Command{
		Use:   "prescore",
		Short: "Compute deterministic section and composite scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), cmd, catalogPath, true)
			if err != nil {
				return err
			}
			defer a.Close()

			sub, err := readSubmission(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			pre, err := a.Analysis.PreScore(cmd.Context(), sub)
			if err != nil {
				return err
			}
			return writeIndented(cmd.OutOrStdout(), pre)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "submission JSON file ('-' for stdin)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "question catalog YAML (default: built-in)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the question catalog",
	}

	var catalogPath string
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check a catalog file against the catalog invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(catalogPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog OK: %d sections, %d questions\n",
				len(cat.Sections()), cat.QuestionCount())
			return nil
		},
	}
	validate.Flags().StringVar(&catalogPath, "catalog", "", "question catalog YAML (default: built-in)")

	cmd.AddCommand(validate)
	return cmd
}

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API client tokens",
	}

	var clientID string
	var ttl time.Duration
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign a client token with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			auth := service.NewAuthService(config.Load().JWTSecret)
			resp, err := auth.IssueClientToken(clientID, ttl)
			if err != nil {
				return err
			}
			return writeIndented(cmd.OutOrStdout(), resp)
		},
	}
	issue.Flags().StringVar(&clientID, "client", "", "client id recorded in the token")
	issue.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime (0 = never expires)")
	issue.MarkFlagRequired("client")

	cmd.AddCommand(issue)
	return cmd
}

func buildApp(ctx context.Context, cmd *cobra.Command, catalogPath string, noEnrich bool) (*app.App, error) {
	cfg := config.Load()
	if catalogPath != "" {
		cfg.CatalogPath = catalogPath
	}
	logger := config.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, "text")

	if ctx == nil {
		ctx = context.Background()
	}
	return app.New(ctx, cfg, logger, app.Options{
		DisableEnrichment: noEnrich,
		DisableCache:      true,
	})
}

func readSubmission(stdin io.Reader, path string) (*model.Submission, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}

	var sub model.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("decode submission: %w", err)
	}
	return &sub, nil
}

func writeIndented(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
