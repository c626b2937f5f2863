package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contentfix/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the command tree with args and stdin, returning stdout
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(&options{})
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestValidateArgs(t *testing.T) {
	tests := []struct {
		name    string
		opts    options
		wantErr string
	}{
		{name: "stdin", opts: options{profile: "default", workers: 1}},
		{name: "batch", opts: options{inputDir: "in", outputDir: "out", profile: "default", workers: 4}},
		{
			name:    "input and input dir",
			opts:    options{inputFile: "a.html", inputDir: "in", outputDir: "out", profile: "default", workers: 1},
			wantErr: "cannot specify both --input and --input-dir",
		},
		{
			name:    "missing output dir",
			opts:    options{inputDir: "in", profile: "default", workers: 1},
			wantErr: "--output-dir required",
		},
		{
			name:    "quiet and verbose",
			opts:    options{quiet: true, verbose: true, profile: "default", workers: 1},
			wantErr: "cannot specify both --quiet and --verbose",
		},
		{
			name:    "no workers",
			opts:    options{profile: "default"},
			wantErr: "--workers must be at least 1",
		},
		{
			name:    "unknown profile",
			opts:    options{profile: "legacy", workers: 1},
			wantErr: "invalid profile: legacy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.validateArgs()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestBuildConfig(t *testing.T) {
	opts := &options{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--profile", "structure-only", "--preserve-newlines", "--root", "#editor"}))

	cfg, err := opts.buildConfig(cmd)
	require.NoError(t, err)

	want, _ := config.GetProfile("structure-only")
	want.PreserveNewLines = true
	want.RootSelector = "#editor"
	assert.Equal(t, want, cfg)
}

func TestBuildConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contentfix.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root_selector: article\nuse_stylesheets: false\n"), 0o644))

	opts := &options{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--code-as-block=false"}))

	cfg, err := opts.buildConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "article", cfg.RootSelector)
	assert.False(t, cfg.UseStylesheets)
	assert.False(t, cfg.CodeAsBlock)
	assert.True(t, cfg.FixNesting)
}

func TestBuildConfigInvalid(t *testing.T) {
	opts := &options{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--fix-nesting=false", "--remove-whitespace=false"}))

	_, err := opts.buildConfig(cmd)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestFindHTMLFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.html", "b.HTM", "notes.txt", filepath.Join("nested", "c.html")} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("<p>x</p>"), 0o644))
	}

	files, err := findHTMLFiles(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.html"),
		filepath.Join(dir, "b.HTM"),
		filepath.Join(dir, "nested", "c.html"),
	}, files)

	_, err = findHTMLFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRunStdin(t *testing.T) {
	out, err := execute(t, `<p>  a   b  </p><b><div>X</div></b>`, "--quiet")
	require.NoError(t, err)
	assert.Equal(t, `<p>a b</p><div>X</div><b></b>`, out)
}

func TestRunSingleFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.html")
	output := filepath.Join(dir, "out.html")
	require.NoError(t, os.WriteFile(input, []byte("<ul><ul><li>x</li></ul></ul>"), 0o644))

	out, err := execute(t, "", "--quiet", "--input", input, "--output", output)
	require.NoError(t, err)
	assert.Empty(t, out)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "<ul><li><ul><li>x</li></ul></li></ul>", string(written))
}

func TestRunBatch(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(filepath.Join(inDir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "one.html"), []byte("<p> one </p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "sub", "two.html"), []byte("<p> two </p>"), 0o644))

	_, err := execute(t, "", "--quiet", "--input-dir", inDir, "--output-dir", outDir, "--workers", "2")
	require.NoError(t, err)

	one, err := os.ReadFile(filepath.Join(outDir, "one.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>one</p>", string(one))

	two, err := os.ReadFile(filepath.Join(outDir, "sub", "two.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>two</p>", string(two))
}

func TestRunBatchEmptyDir(t *testing.T) {
	_, err := execute(t, "", "--quiet", "--input-dir", t.TempDir(), "--output-dir", t.TempDir())
	assert.ErrorContains(t, err, "no HTML files found")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, `<span><div>X</div></span>`, "validate", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 issues")
	assert.Contains(t, out, "[ERROR] nesting: block <div> inside inline <span>")
	assert.Contains(t, out, "Element: body > span > div")

	_, err = execute(t, `<span><div>X</div></span>`, "validate", "--quiet", "--strict")
	assert.ErrorContains(t, err, "1 error(s)")

	out, err = execute(t, `<p>clean</p>`, "validate", "--quiet")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExtractCommand(t *testing.T) {
	remaining := filepath.Join(t.TempDir(), "rest.html")
	src := `<p id="a">one</p><p id="b">two</p><p id="c">three</p>`

	out, err := execute(t, src, "extract", "--quiet", "--start", "#a", "--end", "#c", "--remaining", remaining)
	require.NoError(t, err)
	assert.Equal(t, `<p id="a">one</p><p id="b">two</p>`, out)

	rest, err := os.ReadFile(remaining)
	require.NoError(t, err)
	assert.Equal(t, `<p id="c">three</p>`, string(rest))

	_, err = execute(t, src, "extract", "--quiet", "--start", "#a")
	assert.Error(t, err)
}
