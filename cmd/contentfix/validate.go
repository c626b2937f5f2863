package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newValidateCmd reports problems without changing the document
func newValidateCmd(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report nesting, whitespace and stylesheet problems",
		Long: `Validate reads HTML from --input or stdin and lists what a normal run would
repair. The document itself is not modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			normalizer, err := opts.newNormalizer(cmd)
			if err != nil {
				return err
			}

			inputContent, name, err := opts.readInput(cmd)
			if err != nil {
				return err
			}

			issues, err := normalizer.Validate(inputContent)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			// Show validation results
			w := cmd.OutOrStdout()
			if len(issues) == 0 {
				if !opts.quiet {
					fmt.Fprintf(w, "✓ %s: No issues found\n", name)
				}
				return nil
			}

			errorCount := 0
			fmt.Fprintf(w, "✗ %s: Found %d issues:\n", name, len(issues))
			for _, issue := range issues {
				if issue.Severity == "error" {
					errorCount++
				}
				fmt.Fprintf(w, "  [%s] %s: %s\n", strings.ToUpper(issue.Severity), issue.Type, issue.Message)
				if issue.Element != "" {
					fmt.Fprintf(w, "         Element: %s\n", issue.Element)
				}
				if issue.Property != "" {
					fmt.Fprintf(w, "         Property: %s\n", issue.Property)
				}
			}
			opts.logger.Debug("validated document",
				zap.String("input", name),
				zap.Int("issues", len(issues)),
				zap.Int("errors", errorCount))

			if strict && errorCount > 0 {
				return fmt.Errorf("%s: %d error(s)", name, errorCount)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any error-level issue is found")
	return cmd
}
