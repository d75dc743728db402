package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/pipeline"
	"github.com/matzehuels/labelsheet/pkg/records"
	"github.com/matzehuels/labelsheet/pkg/render"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	sheet   sheetFlags
	output  string // output base path; a format extension is stripped
	stream  bool   // write the PDF page by page instead of building it in memory
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <records>",
		Short: "Render records (.json, .csv or - for stdin) to label sheets",
		Long: `Render a list of records to printable label sheets.

Each record becomes one label: a barcode for the serial number with the
serial, category and subcategory printed beneath it. Labels fill the grid
row by row and continue on new pages.

PDF and JSON produce one file; SVG and PNG produce one file per page.`,
		Example: `  labelsheet render items.json
  labelsheet render items.csv -f pdf,svg -o out/labels
  labelsheet fetch | labelsheet render - --columns 3 --rows 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &opts)
		},
	}

	opts.sheet.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: input name)")
	cmd.Flags().BoolVar(&opts.stream, "stream", false, "stream the PDF page by page (pdf only, no cache)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	recs, err := records.Import(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded records", "input", input, "count", len(recs))
	return c.renderRecords(cmd, recs, outputBase(opts.output, input), opts)
}

// renderRecords is shared by render and batch.
func (c *CLI) renderRecords(cmd *cobra.Command, recs []sheet.Record, base string, opts *renderOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts, err := optionsFromConfig(cfg)
	if err != nil {
		return err
	}
	if err := opts.sheet.apply(cmd, &popts); err != nil {
		return err
	}
	popts.BaseName = filepath.Base(base)
	popts.Refresh = opts.refresh
	dir := filepath.Dir(base)

	if opts.stream {
		return c.streamPDF(ctx, recs, dir, popts)
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Generating labels...")
	spinner.Start()
	result, err := runner.Execute(ctx, recs, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create output dir %s", dir)
	}
	printSuccess("Rendered %d labels", len(recs))
	printStats(result.Stats.Records, result.Stats.Pages, result.CacheInfo.RenderHit)
	for _, format := range sortedFormats(result.Artifacts) {
		for _, art := range result.Artifacts[format] {
			path := filepath.Join(dir, art.Name)
			if err := writeFile(path, art.Data); err != nil {
				return err
			}
			printFile(path)
		}
	}
	prog.done("Done")
	return nil
}

// streamPDF writes the PDF straight to its file. A failed run removes the
// partial file.
func (c *CLI) streamPDF(ctx context.Context, recs []sheet.Record, dir string, opts pipeline.Options) error {
	if len(opts.Formats) > 0 && !slices.Equal(opts.Formats, []string{render.FormatPDF}) {
		return errors.New(errors.ErrCodeInvalidInput, "--stream only writes pdf, got %s", strings.Join(opts.Formats, ","))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create output dir %s", dir)
	}
	path := filepath.Join(dir, opts.BaseName+"."+render.FormatPDF)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	prog := newProgress(c.Logger)
	if err := runner.Stream(ctx, f, recs, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	printSuccess("Streamed %d labels", len(recs))
	printFile(path)
	prog.done("Done")
	return nil
}

// outputBase derives the output base path from the output flag and the
// input file. A known format extension on output is stripped, so
// "-o sheet.pdf" writes sheet.pdf rather than sheet.pdf.pdf.
func outputBase(output, input string) string {
	if output == "" {
		if input == records.Stdin || input == "" {
			return render.DefaultBaseName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func sortedFormats(arts map[string][]render.Artifact) []string {
	formats := make([]string, 0, len(arts))
	for f := range arts {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
