package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nconklindev/rankconv/internal/converter"
	"github.com/nconklindev/rankconv/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateSheetSelection
	stateProcessing
	stateComplete
	stateError
)

type Model struct {
	state        state
	opts         converter.Options
	filepicker   filepicker.Model
	selectedFile string
	sheets       []string
	preferred    int
	cursor       int
	mode         converter.Mode
	result       *types.ConversionResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.ConversionResult
	err    error
}

type sheetsLoadedMsg struct {
	sheets []string
	err    error
}

type conversionCompleteMsg struct {
	result *types.ConversionResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

// InitialModel starts at the file picker, or goes straight to sheet
// selection when inputFile is set. opts supplies the output path, sheet
// preferences, mode and id prefix.
func InitialModel(opts converter.Options, inputFile string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".xlsx", ".xlsm", ".csv"}
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E9E5B"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#7BC96F"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#7BC96F"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E9E5B")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	prog := progress.New(progress.WithGradient("#2E9E5B", "#7BC96F"))

	mode := opts.Mode
	if mode == "" {
		mode = converter.ModeLenient
	}

	return Model{
		state:        stateFilePicker,
		opts:         opts,
		filepicker:   fp,
		selectedFile: inputFile,
		mode:         mode,
		progress:     prog,
	}
}

func (m Model) Init() tea.Cmd {
	if m.selectedFile != "" {
		return tea.Batch(m.filepicker.Init(), m.loadSheets(m.selectedFile))
	}
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for title, subtitle, help text and padding.
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}

		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateSheetSelection:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.sheets)-1 {
					m.cursor++
				}
			case "m":
				if m.mode == converter.ModeStrict {
					m.mode = converter.ModeLenient
				} else {
					m.mode = converter.ModeStrict
				}
			case "esc":
				m.state = stateFilePicker
				m.sheets = nil
				return m, nil
			case "enter":
				if len(m.sheets) > 0 {
					m.state = stateProcessing
					return m.convertFile()
				}
			}

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case sheetsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.sheets = msg.sheets

		// Start on the sheet a non-interactive run would have picked.
		m.preferred = 0
		if m.opts.Sheet != "" && slices.Contains(msg.sheets, m.opts.Sheet) {
			m.preferred = slices.Index(msg.sheets, m.opts.Sheet)
		} else if name, err := converter.PickSheet(msg.sheets, m.opts.PreferredSheets); err == nil {
			m.preferred = slices.Index(msg.sheets, name)
		}
		m.cursor = m.preferred

		m.state = stateSheetSelection
		return m, nil

	case conversionCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			return m, m.loadSheets(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) loadSheets(path string) tea.Cmd {
	return func() tea.Msg {
		sheets, err := converter.ReadSheetNames(path)
		if err == nil && len(sheets) == 0 {
			err = converter.ErrNoSheets
		}
		return sheetsLoadedMsg{sheets: sheets, err: err}
	}
}

// conversionOptions is the base options narrowed to the user's choices.
func (m Model) conversionOptions() converter.Options {
	opts := m.opts
	opts.InputFile = m.selectedFile
	opts.Sheet = m.sheets[m.cursor]
	opts.Mode = m.mode
	return opts
}

func (m Model) convertFile() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan conversionResultMsg, 1)

	opts := m.conversionOptions()

	cmd := tea.Batch(
		func() tea.Msg {
			// Capture channels for the goroutine
			progressChan := m.progressChan
			resultChan := m.resultChan

			go func() {
				result, err := converter.Convert(opts, progressChan)

				resultChan <- conversionResultMsg{result: result, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return conversionCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateSheetSelection:
		return m.viewSheetSelection()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("🏈 rankconv - Rankings to players.json"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select an XLSX or CSV rankings file"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewSheetSelection() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("🏈 Select Sheet to Convert"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n\n")

	for i, sheet := range m.sheets {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		line := fmt.Sprintf("%s %s", cursor, sheet)

		if m.cursor == i {
			line = SelectedStyle.Render(line)
		} else if i == m.preferred {
			line = CheckedStyle.Render(line + " (preferred)")
		} else {
			line = UnselectedStyle.Render(line)
		}

		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Mode: %s\n", modeLabel(m.mode)))
	s.WriteString(fmt.Sprintf("Output: %s\n", m.opts.OutputFile))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: navigate • m: toggle mode • enter: convert • esc: back • q: quit"))

	return BoxStyle.Render(s.String())
}

func modeLabel(mode converter.Mode) string {
	if mode == converter.ModeStrict {
		return "strict (Name / Pos / Master ADP)"
	}
	return "lenient (any header case, header repair)"
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("🏈 Processing..."))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Converting sheet %q...", m.sheets[m.cursor]))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Conversion Complete!"))
	s.WriteString("\n\n")

	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Input:  %s\n", truncatePath(m.result.InputFile, maxPathLen)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s\n", truncatePath(m.result.OutputFile, maxPathLen))))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Sheet: %s (%s)\n", m.result.SheetName, m.result.Mode))
	if m.result.HeaderRepaired {
		s.WriteString("Header row repaired: yes\n")
	}
	s.WriteString(fmt.Sprintf("Columns: %s\n", formatColumns(m.result.ColumnsFound)))
	s.WriteString(fmt.Sprintf("Players converted: %d\n", m.result.PlayersWritten))
	s.WriteString(fmt.Sprintf("Blank rows skipped: %d\n", m.result.RowsDropped))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func truncatePath(path string, maxLen int) string {
	if len(path) > maxLen {
		return "..." + path[len(path)-maxLen+3:]
	}
	return path
}

// formatColumns lists resolved fields in canonical order, e.g.
// `name ← "Player Name"`.
func formatColumns(columns map[string]string) string {
	var parts []string
	for _, field := range []string{converter.FieldName, converter.FieldTeam, converter.FieldPosition, converter.FieldExpertRank} {
		if label, ok := columns[field]; ok {
			parts = append(parts, fmt.Sprintf("%s ← %q", field, label))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
