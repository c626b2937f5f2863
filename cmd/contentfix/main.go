package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"contentfix/internal/config"
	"contentfix/pkg/contentfix"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

// options holds the flags shared by every command
type options struct {
	// Input/Output flags
	inputFile  string
	outputFile string
	inputDir   string
	outputDir  string

	// Configuration flags
	configPath       string
	profile          string
	rootSelector     string
	fixNesting       bool
	removeWhiteSpace bool
	preserveNewLines bool
	ignoreClass      string
	useStylesheets   bool
	codeAsBlock      bool

	// Output control flags
	verbose bool
	quiet   bool
	stats   bool

	// Performance flags
	benchmark bool
	workers   int

	logger *zap.Logger
}

func main() {
	if err := newRootCmd(&options{}).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree with its flags bound to opts
func newRootCmd(opts *options) *cobra.Command {
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:   "contentfix",
		Short: "Normalize rich-text editor HTML",
		Long: `contentfix repairs HTML produced by rich-text editors and pasted content.

Blocks nested inside inline elements are lifted out, lists placed directly
inside lists are moved into list items, and whitespace that does not render
is removed. HTML is read from --input, every .html file below --input-dir, or
stdin.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validateArgs(); err != nil {
				return err
			}

			// Initialize logger
			logConfig := zap.NewProductionConfig()
			switch {
			case opts.verbose:
				logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			case opts.quiet:
				logConfig.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
			}
			logger, err := logConfig.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.inputFile, "input", "", "Input HTML file path")
	flags.StringVar(&opts.outputFile, "output", "", "Output file path (default: stdout)")
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&opts.profile, "profile", "default", "Configuration profile ("+strings.Join(config.Profiles, ", ")+")")
	flags.StringVar(&opts.rootSelector, "root", defaults.RootSelector, "Selector of the element(s) whose content is normalized")
	flags.BoolVar(&opts.fixNesting, "fix-nesting", defaults.FixNesting, "Repair block/inline and list nesting")
	flags.BoolVar(&opts.removeWhiteSpace, "remove-whitespace", defaults.RemoveWhiteSpace, "Remove whitespace that does not render")
	flags.BoolVar(&opts.preserveNewLines, "preserve-newlines", defaults.PreserveNewLines, "Keep line breaks when collapsing whitespace")
	flags.StringVar(&opts.ignoreClass, "ignore-class", defaults.IgnoreClass, "Class of editor-internal elements to look past")
	flags.BoolVar(&opts.useStylesheets, "use-stylesheets", defaults.UseStylesheets, "Honor white-space rules in <style> blocks")
	flags.BoolVar(&opts.codeAsBlock, "code-as-block", defaults.CodeAsBlock, "Treat <code> as a block element")
	flags.BoolVar(&opts.verbose, "verbose", false, "Verbose output with processing statistics")
	flags.BoolVar(&opts.quiet, "quiet", false, "Suppress all output except errors")
	flags.BoolVar(&opts.stats, "stats", false, "Show processing statistics")
	flags.BoolVar(&opts.benchmark, "benchmark", false, "Show processing time")

	rootCmd.Flags().StringVar(&opts.inputDir, "input-dir", "", "Process all HTML files in directory")
	rootCmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Output directory for batch processing")
	rootCmd.Flags().IntVar(&opts.workers, "workers", 4, "Files processed concurrently in batch mode")

	rootCmd.AddCommand(newValidateCmd(opts), newExtractCmd(opts))
	return rootCmd
}

// validateArgs validates command line arguments
func (o *options) validateArgs() error {
	if o.inputFile != "" && o.inputDir != "" {
		return fmt.Errorf("cannot specify both --input and --input-dir")
	}

	if o.inputDir != "" && o.outputDir == "" {
		return fmt.Errorf("--output-dir required when using --input-dir")
	}

	if o.quiet && o.verbose {
		return fmt.Errorf("cannot specify both --quiet and --verbose")
	}

	if o.workers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", o.workers)
	}

	// Validate profile
	if _, ok := config.GetProfile(o.profile); !ok {
		return fmt.Errorf("invalid profile: %s (valid: %s)", o.profile, strings.Join(config.Profiles, ", "))
	}

	return nil
}

// buildConfig creates the configuration: the profile or config file first,
// then any flag given on the command line
func (o *options) buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, _ := config.GetProfile(o.profile)
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.RootSelector = o.rootSelector
	}
	if flags.Changed("fix-nesting") {
		cfg.FixNesting = o.fixNesting
	}
	if flags.Changed("remove-whitespace") {
		cfg.RemoveWhiteSpace = o.removeWhiteSpace
	}
	if flags.Changed("preserve-newlines") {
		cfg.PreserveNewLines = o.preserveNewLines
	}
	if flags.Changed("ignore-class") {
		cfg.IgnoreClass = o.ignoreClass
	}
	if flags.Changed("use-stylesheets") {
		cfg.UseStylesheets = o.useStylesheets
	}
	if flags.Changed("code-as-block") {
		cfg.CodeAsBlock = o.codeAsBlock
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newNormalizer creates the normalizer for a command
func (o *options) newNormalizer(cmd *cobra.Command) (*contentfix.Normalizer, error) {
	cfg, err := o.buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("configuration",
		zap.String("root", cfg.RootSelector),
		zap.Bool("fix_nesting", cfg.FixNesting),
		zap.Bool("remove_whitespace", cfg.RemoveWhiteSpace),
		zap.Bool("preserve_newlines", cfg.PreserveNewLines),
		zap.Bool("use_stylesheets", cfg.UseStylesheets))
	return contentfix.New(cfg, contentfix.WithLogger(o.logger)), nil
}

// readInput reads the input file, or stdin when none is given
func (o *options) readInput(cmd *cobra.Command) (string, string, error) {
	if o.inputFile != "" {
		content, err := os.ReadFile(o.inputFile)
		if err != nil {
			return "", "", fmt.Errorf("failed to read input file %s: %w", o.inputFile, err)
		}
		return string(content), o.inputFile, nil
	}
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	return string(content), "<stdin>", nil
}

// runNormalize routes to the appropriate processing mode
func runNormalize(cmd *cobra.Command, opts *options) error {
	normalizer, err := opts.newNormalizer(cmd)
	if err != nil {
		return err
	}

	startTime := time.Now()
	if opts.inputDir != "" {
		err = runBatchProcessing(cmd, opts, normalizer)
	} else {
		err = runSingle(cmd, opts, normalizer)
	}
	if err != nil {
		return err
	}

	// Show performance metrics if requested
	if opts.benchmark {
		fmt.Fprintf(cmd.ErrOrStderr(), "Processing completed in %v\n", time.Since(startTime))
	}
	return nil
}

// runSingle processes a single input file or stdin
func runSingle(cmd *cobra.Command, opts *options, normalizer *contentfix.Normalizer) error {
	inputContent, name, err := opts.readInput(cmd)
	if err != nil {
		return err
	}

	// Process the HTML
	result, err := normalizer.Normalize(inputContent)
	if err != nil {
		return fmt.Errorf("failed to normalize %s: %w", name, err)
	}

	// Write output
	if err := writeOutput(cmd.OutOrStdout(), result.HTML, opts.outputFile); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// Show statistics to stderr so they don't interfere with HTML output
	if opts.stats || opts.verbose {
		showProcessingStats(cmd.ErrOrStderr(), result, name)
	}
	return nil
}

// batchTotals accumulates statistics across concurrently processed files
type batchTotals struct {
	mu               sync.Mutex
	files            int
	failed           int
	nestingFixes     int
	listFixes        int
	removedTextNodes int
	processingTimeMs int64
}

func (b *batchTotals) add(result *contentfix.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files++
	b.nestingFixes += result.NestingFixes
	b.listFixes += result.ListFixes
	b.removedTextNodes += result.RemovedTextNodes
	b.processingTimeMs += result.ProcessingStats.ProcessingTimeMs
}

func (b *batchTotals) fail() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failed++
}

// runBatchProcessing processes all HTML files in a directory
func runBatchProcessing(cmd *cobra.Command, opts *options, normalizer *contentfix.Normalizer) error {
	// Find all HTML files in input directory
	htmlFiles, err := findHTMLFiles(opts.inputDir)
	if err != nil {
		return fmt.Errorf("failed to find HTML files: %w", err)
	}

	if len(htmlFiles) == 0 {
		return fmt.Errorf("no HTML files found in directory: %s", opts.inputDir)
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers)

	totals := &batchTotals{}
	for i, inputPath := range htmlFiles {
		i, inputPath := i, inputPath
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			opts.logger.Debug("processing file",
				zap.Int("index", i+1),
				zap.Int("total", len(htmlFiles)),
				zap.String("path", inputPath))

			// Failures are reported per file and do not stop the batch
			if err := processFile(normalizer, opts, inputPath, totals); err != nil {
				opts.logger.Warn("skipping file", zap.String("path", inputPath), zap.Error(err))
				totals.fail()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Show batch statistics
	if opts.stats || opts.verbose {
		w := cmd.ErrOrStderr()
		fmt.Fprintf(w, "\nBatch Processing Summary:\n")
		fmt.Fprintf(w, "Files processed: %d\n", totals.files)
		fmt.Fprintf(w, "Files failed: %d\n", totals.failed)
		fmt.Fprintf(w, "Nesting fixes: %d\n", totals.nestingFixes)
		fmt.Fprintf(w, "List fixes: %d\n", totals.listFixes)
		fmt.Fprintf(w, "Text nodes removed: %d\n", totals.removedTextNodes)
		fmt.Fprintf(w, "Total processing time: %dms\n", totals.processingTimeMs)
	}
	return nil
}

// processFile normalizes one file of a batch into the output directory
func processFile(normalizer *contentfix.Normalizer, opts *options, inputPath string, totals *batchTotals) error {
	// Read input file
	inputContent, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read: %w", err)
	}

	// Process the HTML
	result, err := normalizer.Normalize(string(inputContent))
	if err != nil {
		return fmt.Errorf("failed to process: %w", err)
	}

	// Generate output path
	relPath, err := filepath.Rel(opts.inputDir, inputPath)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}
	outputPath := filepath.Join(opts.outputDir, relPath)

	// Create output subdirectory if needed
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write output file
	if err := writeOutput(nil, result.HTML, outputPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	totals.add(result)
	return nil
}

// writeOutput writes content to a file, or to w when no file is given
func writeOutput(w io.Writer, content, filename string) error {
	if filename == "" {
		_, err := io.WriteString(w, content)
		return err
	}

	// Write to file
	return os.WriteFile(filename, []byte(content), 0o644)
}

// findHTMLFiles finds all HTML files in a directory
func findHTMLFiles(dir string) ([]string, error) {
	var htmlFiles []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			ext := strings.ToLower(filepath.Ext(path))
			if ext == ".html" || ext == ".htm" {
				htmlFiles = append(htmlFiles, path)
			}
		}

		return nil
	})

	return htmlFiles, err
}

// showProcessingStats displays processing statistics
func showProcessingStats(w io.Writer, result *contentfix.Result, filename string) {
	fmt.Fprintf(w, "\nProcessing Statistics for %s:\n", filename)
	fmt.Fprintf(w, "  Nesting fixes: %d\n", result.NestingFixes)
	fmt.Fprintf(w, "  List fixes: %d\n", result.ListFixes)
	fmt.Fprintf(w, "  Text nodes removed: %d\n", result.RemovedTextNodes)
	fmt.Fprintf(w, "  CSS rules parsed: %d\n", result.ProcessingStats.CSSRulesParsed)
	fmt.Fprintf(w, "  Roots processed: %d\n", result.ProcessingStats.RootsProcessed)
	fmt.Fprintf(w, "  Elements processed: %d\n", result.ProcessingStats.ElementsProcessed)
	fmt.Fprintf(w, "  Processing time: %dms\n", result.ProcessingStats.ProcessingTimeMs)
	if len(result.SkippedSelectors) > 0 {
		fmt.Fprintf(w, "  Skipped selectors: %s\n", strings.Join(result.SkippedSelectors, ", "))
	}
}
