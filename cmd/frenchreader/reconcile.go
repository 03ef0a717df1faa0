package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/frenchreader-backend/internal/align"
	"github.com/heartmarshall/frenchreader-backend/internal/domain"
	"github.com/heartmarshall/frenchreader-backend/internal/payload"
)

func newReconcileCmd() *cobra.Command {
	var (
		file        string
		payloadPath string
		render      bool
		levels      []string
		category    string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Align a saved model payload onto an article without calling the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(payloadPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", payloadPath, err)
			}

			p, err := payload.Decode(raw)
			if err != nil {
				return fmt.Errorf("payload %s: %w", payloadPath, err)
			}
			content := domain.NormalizeText(text)
			result := align.Reconcile(p, content)

			if !render {
				return printJSON(cmd.OutOrStdout(), result)
			}

			filter, err := parseFilter(levels, category)
			if err != nil {
				return err
			}
			segments := align.Project(content, result.Items(), filter)
			if err := writeMarked(cmd.OutOrStdout(), segments); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "matched %d/%d items (%d%%)\n",
				result.Stats.TotalMatched, result.Stats.TotalItems, result.Stats.MatchRate)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "article text file, - for stdin")
	cmd.Flags().StringVarP(&payloadPath, "payload", "p", "", "model JSON payload file")
	cmd.Flags().BoolVar(&render, "render", false, "print the text with [[...]] around highlights instead of JSON")
	cmd.Flags().StringSliceVar(&levels, "levels", nil, "levels to highlight, default all")
	cmd.Flags().StringVar(&category, "category", string(domain.FilterAll), "all, word, expression or grammar")
	_ = cmd.MarkFlagRequired("payload")
	return cmd
}

func parseFilter(levels []string, category string) (align.Filter, error) {
	f := align.Filter{
		Levels:   domain.AllLevels,
		Category: domain.CategoryFilter(strings.ToLower(strings.TrimSpace(category))),
	}
	if !f.Category.IsValid() {
		return align.Filter{}, fmt.Errorf("unknown category %q", category)
	}
	if len(levels) > 0 {
		f.Levels = make([]domain.CEFRLevel, 0, len(levels))
		for _, s := range levels {
			l, ok := domain.ParseCEFRLevel(s)
			if !ok {
				return align.Filter{}, fmt.Errorf("unknown level %q", s)
			}
			f.Levels = append(f.Levels, l)
		}
	}
	return f, nil
}

// writeMarked prints segments back to back, wrapping highlighted ones in [[ ]].
func writeMarked(w io.Writer, segments []align.Segment) error {
	var b strings.Builder
	for _, s := range segments {
		if s.Highlighted() {
			b.WriteString("[[")
			b.WriteString(s.Text)
			b.WriteString("]]")
			continue
		}
		b.WriteString(s.Text)
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
