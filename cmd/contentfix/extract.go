package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newExtractCmd cuts a range of content out of a document
func newExtractCmd(opts *options) *cobra.Command {
	var (
		startSelector string
		endSelector   string
		remainingFile string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Cut the content between two elements out of a document",
		Long: `Extract removes everything from the first element matching --start up to,
but not including, the first element matching --end. The extracted fragment
is written to --output or stdout. Elements split by the range are cloned so
the fragment stays well formed.`,
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

			result, err := normalizer.Extract(inputContent, startSelector, endSelector)
			if err != nil {
				return fmt.Errorf("failed to extract from %s: %w", name, err)
			}

			if err := writeOutput(cmd.OutOrStdout(), result.Fragment, opts.outputFile); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			if remainingFile != "" {
				if err := writeOutput(nil, result.Remaining, remainingFile); err != nil {
					return fmt.Errorf("failed to write remaining document: %w", err)
				}
			}

			if opts.stats || opts.verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nExtracted %d node(s) from %s\n", result.Nodes, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startSelector, "start", "", "Selector of the first element extracted")
	cmd.Flags().StringVar(&endSelector, "end", "", "Selector of the element the range stops before")
	cmd.Flags().StringVar(&remainingFile, "remaining", "", "Write the document left after extraction to this file")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
