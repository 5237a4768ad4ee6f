package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	qio "github.com/matzehuels/quilt/pkg/io"
	"github.com/matzehuels/quilt/pkg/pipeline"
	"github.com/matzehuels/quilt/pkg/quilt"
)

const (
	browseSymbols     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	browseEmpty       = "··"
	browseChrome      = 3 // title, status and help lines
	browseMinLines    = 3
	browseDefaultRows = 24
)

var browsePalette = []lipgloss.Color{"36", "35", "220", "167", "75", "141", "209", "114"}

// browseCommand creates the browse command for scrolling through a quilt.
func (c *CLI) browseCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "browse [document]",
		Short: "Scroll through a quilt in the terminal",
		Long: `Scroll through a quilt in the terminal.

Items are placed only as far as the screen has scrolled, so very large
documents open instantly. Each grid cell is drawn as two characters.

Keys: j/k or arrows scroll a line, pgup/pgdn a page, g/G jump to the
start or end, q quits.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config.Layout)
			return c.runBrowse(cmd.Context(), args[0], opts)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, opts pipeline.Options) error {
	doc, err := qio.Import(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}
	opts.Logger = loggerFromContext(ctx)
	p, err := pipeline.NewPacker(doc, opts)
	if err != nil {
		return err
	}

	m := newBrowseModel(p, doc, input, browseDefaultRows)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// browseModel shows one screen of a lazily packed quilt. Screen rows run
// along the unrestricted axis in both directions.
type browseModel struct {
	packer  *quilt.Packer
	doc     *qio.Document
	title   string
	offsets []int // ordinal of the first item of each section
	total   int

	top     int // first visible unrestricted line
	lines   int // visible unrestricted lines
	visible int // tiles on screen
}

func newBrowseModel(p *quilt.Packer, doc *qio.Document, title string, rows int) *browseModel {
	offsets := make([]int, len(doc.Sections))
	n := 0
	for i, s := range doc.Sections {
		offsets[i] = n
		n += len(s.Items)
	}
	m := &browseModel{packer: p, doc: doc, title: title, offsets: offsets, total: n}
	m.resize(rows)
	return m
}

// Init implements tea.Model.
func (m *browseModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "down", "j":
			m.scrollTo(m.top + 1)
		case "up", "k":
			m.scrollTo(m.top - 1)
		case "pgdown", " ", "f":
			m.scrollTo(m.top + m.lines)
		case "pgup", "b":
			m.scrollTo(m.top - m.lines)
		case "home", "g":
			m.scrollTo(0)
		case "end", "G":
			m.packer.FillAll()
			m.scrollTo(m.contentLines())
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Height)
	}
	return m, nil
}

func (m *browseModel) resize(rows int) {
	m.lines = max(rows-browseChrome, browseMinLines)
	m.scrollTo(m.top)
}

// scrollTo moves the first visible line to top and places items as far as
// the screen needs. Once everything is placed, scrolling stops at the end.
func (m *browseModel) scrollTo(top int) {
	m.top = m.clamp(top)
	m.visible = len(m.packer.TilesIn(m.rect()))
	if clamped := m.clamp(m.top); clamped != m.top {
		m.top = clamped
		m.visible = len(m.packer.TilesIn(m.rect()))
	}
}

func (m *browseModel) clamp(top int) int {
	if m.packer.Placed() == m.total {
		top = min(top, max(m.contentLines()-m.lines, 0))
	}
	return max(top, 0)
}

// rect is the pixel rectangle covering the visible lines.
func (m *browseModel) rect() quilt.Rect {
	cfg := m.packer.Config()
	cell, vp := cfg.CellSize, cfg.Viewport
	if cfg.Direction == quilt.Horizontal {
		return quilt.Rect{X: float64(m.top) * cell.Width, Width: float64(m.lines-1) * cell.Width, Height: vp.Height}
	}
	return quilt.Rect{Y: float64(m.top) * cell.Height, Width: vp.Width, Height: float64(m.lines-1) * cell.Height}
}

// contentLines is the number of unrestricted lines holding placed items.
func (m *browseModel) contentLines() int {
	if m.packer.Placed() == 0 {
		return 0
	}
	f := m.packer.FurthestPoint()
	if m.packer.Config().Direction == quilt.Horizontal {
		return f.X + 1
	}
	return f.Y + 1
}

func (m *browseModel) cell(restricted, unrestricted int) quilt.Cell {
	if m.packer.Config().Direction == quilt.Horizontal {
		return quilt.Cell{X: unrestricted, Y: restricted}
	}
	return quilt.Cell{X: restricted, Y: unrestricted}
}

// View implements tea.Model.
func (m *browseModel) View() string {
	var b strings.Builder

	last := min(m.top+m.lines, m.contentLines())
	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  lines %d-%d", m.top+1, max(last, m.top+1))))
	b.WriteString("\n")

	capacity := m.packer.Capacity()
	for u := m.top; u < m.top+m.lines; u++ {
		for rc := 0; rc < capacity; rc++ {
			id, ok := m.packer.OccupantAt(m.cell(rc, u))
			if !ok {
				b.WriteString(StyleDim.Render(browseEmpty))
				continue
			}
			b.WriteString(m.symbol(id))
		}
		b.WriteString("\n")
	}

	b.WriteString(StyleDim.Render(fmt.Sprintf("placed %d of %d · visible %d · capacity %d",
		m.packer.Placed(), m.total, m.visible, capacity)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("j/k scroll · pgup/pgdn page · g/G start/end · q quit"))
	return b.String()
}

// symbol draws one cell of id. Items keep their symbol and color while
// scrolling.
func (m *browseModel) symbol(id quilt.ItemID) string {
	n := m.offsets[id.Section] + id.Index
	sym := string(browseSymbols[n%len(browseSymbols)])
	color := lipgloss.Color(m.doc.Color(id))
	if color == "" {
		color = browsePalette[n%len(browsePalette)]
	}
	return lipgloss.NewStyle().Foreground(color).Render(sym + sym)
}
