package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/pipeline"
)

// gridFlags overrides single grid fields. Only flags the user set are
// applied, so a config file can supply the rest.
type gridFlags struct {
	grid layout.GridConfig
}

func (f *gridFlags) register(cmd *cobra.Command) {
	d := layout.DefaultGrid()
	fs := cmd.Flags()
	fs.IntVar(&f.grid.Columns, "columns", d.Columns, "labels per row")
	fs.IntVar(&f.grid.Rows, "rows", d.Rows, "rows per page")
	fs.Float64Var(&f.grid.LabelWidth, "label-width", d.LabelWidth, "label width in mm")
	fs.Float64Var(&f.grid.LabelHeight, "label-height", d.LabelHeight, "label height in mm")
	fs.Float64Var(&f.grid.Margin, "margin", d.Margin, "page margin in mm")
	fs.Float64Var(&f.grid.ColumnGap, "column-gap", d.ColumnGap, "horizontal gap between labels in mm")
	fs.Float64Var(&f.grid.RowGap, "row-gap", d.RowGap, "vertical gap between labels in mm")
}

func (f *gridFlags) apply(cmd *cobra.Command, g *layout.GridConfig) {
	fs := cmd.Flags()
	if fs.Changed("columns") {
		g.Columns = f.grid.Columns
	}
	if fs.Changed("rows") {
		g.Rows = f.grid.Rows
	}
	if fs.Changed("label-width") {
		g.LabelWidth = f.grid.LabelWidth
	}
	if fs.Changed("label-height") {
		g.LabelHeight = f.grid.LabelHeight
	}
	if fs.Changed("margin") {
		g.Margin = f.grid.Margin
	}
	if fs.Changed("column-gap") {
		g.ColumnGap = f.grid.ColumnGap
	}
	if fs.Changed("row-gap") {
		g.RowGap = f.grid.RowGap
	}
}

// sheetFlags are the generate and render flags shared by render, batch
// and preview.
type sheetFlags struct {
	gridFlags
	formats   string
	symbology string
	pageSize  string
	cutGuides bool
	dpi       float64
	title     string
	workers   int
}

func (f *sheetFlags) register(cmd *cobra.Command) {
	f.gridFlags.register(cmd)
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): pdf (default), svg, png, json (comma-separated)")
	fs.StringVar(&f.symbology, "symbology", "", "barcode symbology: code128 (default), code39")
	fs.StringVar(&f.pageSize, "page", "", "page size: A4 (default), Letter, A5 or WxH in mm")
	fs.BoolVar(&f.cutGuides, "cut-guides", false, "draw label outlines")
	fs.Float64Var(&f.dpi, "dpi", 0, "PNG resolution")
	fs.StringVar(&f.title, "title", "", "PDF document title")
	fs.IntVar(&f.workers, "workers", 0, "parallel encoders (0 uses every CPU)")
}

// apply layers the set flags over opts.
func (f *sheetFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	f.gridFlags.apply(cmd, &opts.Grid)
	if formats := parseFormats(f.formats); len(formats) > 0 {
		if err := pipeline.ValidateFormats(formats); err != nil {
			return err
		}
		opts.Formats = formats
	}
	if f.symbology != "" {
		opts.Symbology = f.symbology
	}
	if f.pageSize != "" {
		p, err := layout.ParsePageSize(f.pageSize)
		if err != nil {
			return err
		}
		opts.PageSize = p
	}
	if cmd.Flags().Changed("cut-guides") {
		opts.CutGuides = f.cutGuides
	}
	if f.dpi != 0 {
		opts.DPI = f.dpi
	}
	if f.title != "" {
		opts.Title = f.title
	}
	if f.workers > 0 {
		opts.Workers = f.workers
	}
	return nil
}
