package cmd

import (
	"fmt"
	"io"
	"os"
	pathpkg "path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"avmdis/internal/avmdis/styles"
	"avmdis/internal/disasm"
	"avmdis/internal/render"
	"avmdis/internal/ui/colorize"
)

type viewMode int

const (
	viewListing viewMode = iota
	viewComponents
	viewSummary
)

// componentItem is one mapping, record, struct or function in the list.
type componentItem struct {
	kind     string
	name     string
	detail   string
	assembly string
	source   string
}

func (i componentItem) FilterValue() string { return i.kind + " " + i.name }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(componentItem)
	if !ok {
		return
	}

	indicator := " "
	kindStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(9)
	if index == m.Index() {
		indicator = ">"
		kindStyle = kindStyle.Foreground(lipgloss.Color("170"))
	}
	detail := lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Muted.Hex())).Render(i.detail)
	fmt.Fprintf(w, " %s  %s %s  %s", indicator, kindStyle.Render(i.kind), i.name, detail)
}

type model struct {
	listing    viewport.Model
	components list.Model
	summary    viewport.Model
	spinner    spinner.Model
	mode       viewMode
	filepath   string
	source     []byte
	opts       outputOptions
	program    *disasm.Program
	err        error
	loading    bool
	decompiled bool
	width      int
	height     int
}

type decodedMsg struct {
	program *disasm.Program
	err     error
}

func decodeCmd(data []byte, name string) tea.Cmd {
	return func() tea.Msg {
		p, err := decode(data, name)
		return decodedMsg{program: p, err: err}
	}
}

func NewModel(filepath string, data []byte, opts outputOptions) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	components := list.New([]list.Item{}, itemDelegate{}, 80, 24)
	components.SetShowStatusBar(false)
	components.SetFilteringEnabled(true)
	components.Title = "Components"
	components.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
	components.SetShowHelp(true)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	sv := viewport.New()
	sv.SetWidth(80)
	sv.SetHeight(24)

	m := model{
		listing:    vp,
		components: components,
		summary:    sv,
		spinner:    s,
		mode:       viewListing,
		filepath:   filepath,
		source:     data,
		opts:       opts,
		loading:    true,
		decompiled: opts.mode == render.ModeDecompiled,
		width:      80,
		height:     24,
	}
	m.updateContent()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		decodeCmd(m.source, m.filepath),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case decodedMsg:
		m.loading = false
		m.program, m.err = msg.program, msg.err
		m.updateComponents()
		m.updateContent()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateContent()
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.listing.SetWidth(msg.Width)
			m.listing.SetHeight(msg.Height - 2)
			m.components.SetWidth(msg.Width)
			m.components.SetHeight(msg.Height - 2)
			m.summary.SetWidth(msg.Width)
			m.summary.SetHeight(msg.Height - 2)
			m.updateContent()
		}

	case tea.KeyMsg:
		if m.mode == viewComponents && m.components.FilterState() == list.Filtering {
			if k := msg.String(); k == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "a":
			m.mode = viewListing
			m.decompiled = false
			m.updateContent()
			return m, nil
		case "l":
			m.mode = viewListing
			m.decompiled = true
			m.updateContent()
			return m, nil
		case "c":
			if m.program != nil {
				m.mode = viewComponents
			}
			return m, nil
		case "i":
			if m.program != nil {
				m.mode = viewSummary
			}
			return m, nil
		case "enter":
			if m.mode == viewComponents {
				if item, ok := m.components.SelectedItem().(componentItem); ok {
					text := item.assembly
					if m.decompiled && item.source != "" {
						text = item.source
					}
					m.mode = viewListing
					m.listing.SetContent(m.highlight(text))
					m.listing.GotoTop()
				}
			}
			return m, nil
		case "tab":
			if m.program != nil {
				m.mode = (m.mode + 1) % 3
			}
			return m, nil
		case "shift+tab":
			if m.program != nil {
				m.mode = (m.mode + 2) % 3
			}
			return m, nil
		}
	}

	switch m.mode {
	case viewComponents:
		m.components, cmd = m.components.Update(msg)
	case viewSummary:
		m.summary, cmd = m.summary.Update(msg)
	default:
		m.listing, cmd = m.listing.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	var content string
	switch m.mode {
	case viewComponents:
		content = m.components.View()
	case viewSummary:
		content = m.summary.View()
	default:
		content = m.listing.View()
	}

	var menu string
	switch {
	case m.program == nil:
		menu = " Q: quit "
	case m.mode == viewComponents:
		menu = " Enter: view component • A: assembly • L: decompiled • I: info • Tab: cycle • Q: quit "
	default:
		menu = " A: assembly • L: decompiled • C: components • I: info • Tab: cycle • Q: quit "
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}

func (m model) highlight(code string) string {
	if m.decompiled {
		return highlight(code, colorize.Decompiled, m.opts)
	}
	return highlight(code, colorize.Assembly, m.opts)
}

// updateContent refreshes the listing and summary panes.
func (m *model) updateContent() {
	width := m.width
	if width == 0 {
		width = 80
	}

	switch {
	case m.loading:
		m.listing.SetContent(fmt.Sprintf("\n  %s Decoding %s...", m.spinner.View(), m.displayPath()))
		return
	case m.err != nil:
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Error.Hex()))
		m.listing.SetContent("\n  " + errStyle.Render(m.err.Error()))
		return
	}

	var text string
	if m.decompiled {
		text = render.Decompiled(m.program)
	} else {
		text = render.Assembly(m.program)
	}
	m.listing.SetContent(m.highlight(text))
	m.listing.GotoTop()

	md := render.Summary(m.program, m.source)
	md += fmt.Sprintf("\n```\n; %s\n```\n", m.displayPath())
	rendered := styles.RenderMarkdown(md, width-2)
	m.summary.SetContent(strings.TrimSuffix(rendered, "\n"))
}

func (m *model) displayPath() string {
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := pathpkg.Rel(cwd, m.filepath); err == nil {
			return rel
		}
	}
	return m.filepath
}

func (m *model) updateComponents() {
	if m.program == nil {
		return
	}
	p := m.program
	items := make([]list.Item, 0, p.NumComponents())
	for _, mp := range p.Mappings {
		items = append(items, componentItem{
			kind:     "mapping",
			name:     mp.Name,
			detail:   fmt.Sprintf("%s => %s", mp.Key.Type, mp.Value.Type),
			assembly: render.MappingAssembly(mp),
		})
	}
	for _, r := range p.Records {
		items = append(items, componentItem{
			kind:     "record",
			name:     r.Name,
			detail:   fmt.Sprintf("%d entries", len(r.Entries)),
			assembly: render.RecordAssembly(r),
		})
	}
	for _, s := range p.Structs {
		items = append(items, componentItem{
			kind:     "struct",
			name:     s.Name,
			detail:   fmt.Sprintf("%d members", len(s.Entries)),
			assembly: render.StructAssembly(s),
			source:   render.StructDecompiled(s),
		})
	}
	for _, f := range p.Functions {
		items = append(items, componentItem{
			kind:     f.Type.String(),
			name:     f.Name,
			detail:   fmt.Sprintf("%d in, %d out, %d instructions", len(f.Inputs), len(f.Outputs), len(f.Instructions)),
			assembly: render.FunctionAssembly(f),
			source:   render.FunctionDecompiled(p, f),
		})
	}
	m.components.SetItems(items)
	m.components.Title = fmt.Sprintf("Components (%d total)", len(items))
}
