package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/frenchreader-backend/internal/app"
	"github.com/heartmarshall/frenchreader-backend/internal/config"
	"github.com/heartmarshall/frenchreader-backend/internal/domain"
	"github.com/heartmarshall/frenchreader-backend/internal/service/analysis"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		file  string
		level string
		save  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Annotate an article with the configured model and print the aligned result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lvl, ok := domain.ParseCEFRLevel(level)
			if !ok {
				return fmt.Errorf("unknown level %q", level)
			}
			content, err := readInput(cmd, file)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg.Log)

			deps, err := app.Build(cmd.Context(), cfg, logger)
			defer deps.Close()
			if err != nil {
				return err
			}

			out, err := deps.Analysis.Analyze(cmd.Context(), analysis.AnalyzeInput{
				Content: content,
				Level:   lvl,
				Save:    save,
			})
			if err != nil {
				return err
			}
			if out.ArticleID != nil {
				logger.Info("analysis saved", "article_id", out.ArticleID.String())
			}
			return printJSON(cmd.OutOrStdout(), out.Result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "article text file, - for stdin")
	cmd.Flags().StringVarP(&level, "level", "l", string(domain.DefaultLevel), "learner level A1..C2")
	cmd.Flags().BoolVar(&save, "save", false, "store the analysis when a database is configured")
	return cmd
}

// readInput reads a whole file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
