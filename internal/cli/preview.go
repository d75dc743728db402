package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/records"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// Preview styles
var (
	previewCellStyle     = lipgloss.NewStyle().Padding(0, 1)
	previewSelectedStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorCyan)
	previewEmptyStyle    = lipgloss.NewStyle().Padding(0, 1).Foreground(colorDim)
	previewDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// maxCellWidth truncates serials so wide grids still fit a terminal.
const maxCellWidth = 16

// previewCommand opens the page browser.
func (c *CLI) previewCommand() *cobra.Command {
	var flags sheetFlags

	cmd := &cobra.Command{
		Use:   "preview <records>",
		Short: "Browse the label layout page by page in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := records.Import(args[0])
			if err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := optionsFromConfig(cfg)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			doc, err := runner.Generate(cmd.Context(), recs, opts)
			if err != nil {
				return err
			}
			if len(doc.Pages) == 0 {
				return sheet.ErrEmptyInput
			}
			_, err = tea.NewProgram(NewPreviewModel(doc), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// PreviewModel - page browser
// =============================================================================

// PreviewModel is the bubbletea model of the page browser. Cursor is the
// slot position within the current page.
type PreviewModel struct {
	Doc    sheet.Document
	Page   int
	Cursor int
	Width  int
}

// NewPreviewModel creates a browser positioned on the first label.
func NewPreviewModel(doc sheet.Document) PreviewModel {
	return PreviewModel{Doc: doc, Width: 80}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cols := m.Doc.Grid.Columns
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.Cursor--
		case "right", "l":
			m.Cursor++
		case "up", "k":
			m.Cursor -= cols
		case "down", "j":
			m.Cursor += cols
		case "n", "pgdown", "tab":
			m.Page++
		case "p", "pgup", "shift+tab":
			m.Page--
		case "g", "home":
			m.Page, m.Cursor = 0, 0
		case "G", "end":
			m.Page = len(m.Doc.Pages) - 1
			m.Cursor = len(m.Doc.Pages[m.Page].Labels) - 1
		}
		m.clamp()
	case tea.WindowSizeMsg:
		m.Width = msg.Width
	}
	return m, nil
}

// clamp keeps Page and Cursor on an existing label. The last page may be
// partly filled.
func (m *PreviewModel) clamp() {
	last := len(m.Doc.Pages) - 1
	m.Page = max(0, min(m.Page, last))
	if last < 0 {
		m.Cursor = 0
		return
	}
	n := len(m.Doc.Pages[m.Page].Labels)
	m.Cursor = max(0, min(m.Cursor, n-1))
}

// Selected returns the label under the cursor.
func (m PreviewModel) Selected() (sheet.Label, bool) {
	if m.Page >= len(m.Doc.Pages) {
		return sheet.Label{}, false
	}
	labels := m.Doc.Pages[m.Page].Labels
	if m.Cursor >= len(labels) {
		return sheet.Label{}, false
	}
	return labels[m.Cursor], true
}

func (m PreviewModel) View() string {
	var b strings.Builder

	total := m.Doc.LabelCount()
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Page %d of %d", m.Page+1, len(m.Doc.Pages))))
	b.WriteString(previewDimStyle.Render(fmt.Sprintf("  %s · %d×%d grid", pluralize(total, "label"), m.Doc.Grid.Columns, m.Doc.Grid.Rows)))
	b.WriteString("\n")
	b.WriteString(previewDimStyle.Render("arrows: move  n/p: page  g/G: first/last  q: quit"))
	b.WriteString("\n\n")

	b.WriteString(m.grid().Render())
	b.WriteString("\n\n")

	if l, ok := m.Selected(); ok {
		printed := func(k, v string) {
			b.WriteString(lipgloss.NewStyle().Foreground(colorGray).Width(12).Render(k))
			b.WriteString(" " + StyleValue.Render(v) + "\n")
		}
		printed("Item", fmt.Sprintf("%d", l.Slot.Index))
		printed("Serial", l.Record.SerialNumber)
		printed("Category", l.Record.Category)
		printed("Subcategory", l.Record.SubCategory)
		printed("Slot", fmt.Sprintf("row %d, column %d at %.1f × %.1f mm", l.Slot.Row+1, l.Slot.Column+1, l.Slot.X, l.Slot.Y))
		b.WriteString("\n")
		b.WriteString(barsPreview(l.Symbol.Pattern(), m.Width-2))
		b.WriteString("\n")
	}
	return b.String()
}

// grid renders the current page as a Columns × Rows table. Slots past the
// last record stay empty.
func (m PreviewModel) grid() *table.Table {
	g := m.Doc.Grid
	var labels []sheet.Label
	if m.Page < len(m.Doc.Pages) {
		labels = m.Doc.Pages[m.Page].Labels
	}

	rows := make([][]string, g.Rows)
	for r := range rows {
		rows[r] = make([]string, g.Columns)
		for c := range rows[r] {
			i := r*g.Columns + c
			if i < len(labels) {
				rows[r][c] = truncate(labels[i].Record.SerialNumber, maxCellWidth)
			} else {
				rows[r][c] = "·"
			}
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		BorderRow(true).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			i := row*g.Columns + col
			switch {
			case i == m.Cursor:
				return previewSelectedStyle
			case i >= len(labels):
				return previewEmptyStyle
			}
			return previewCellStyle
		})
}

// barsPreview draws a module pattern with block characters, sampled down
// to at most width cells.
func barsPreview(pattern string, width int) string {
	if width <= 0 || pattern == "" {
		return ""
	}
	step := 1
	if len(pattern) > width {
		step = (len(pattern) + width - 1) / width
	}
	var b strings.Builder
	for i := 0; i < len(pattern); i += step {
		if pattern[i] == '1' {
			b.WriteString("█")
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
