package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/linear-srgb/transfer"
)

const (
	defaultSamples = "0, 0.0031308, 0.18, 0.5, 1"
	exposureStep   = 0.5
	maxRampWidth   = 96
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	conv     converter
	convMu   *sync.Mutex
	input    textinput.Model
	samples  []float32
	encoded  []byte
	rampPix  []byte
	exposure float64
	width    int
	// seq numbers conversion requests; only the latest one is shown.
	seq int
}

func newInteractiveModel(conv converter, exposure float64, width int) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "linear: "
	ti.Placeholder = "comma separated samples"
	ti.SetValue(defaultSamples)
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{
		conv:     conv,
		convMu:   &sync.Mutex{},
		input:    ti,
		exposure: exposure,
		width:    width,
	}
}

type convertedMsg struct {
	err     error
	seq     int
	samples []float32
	encoded []byte
	rampPix []byte
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.convert())
}

// convert snapshots the input and exposure, then runs both the samples and
// a preview ramp through the converter off the update loop.
func (m *interactiveModel) convert() tea.Cmd {
	m.seq++
	seq := m.seq
	text := m.input.Value()
	exposure := m.exposure
	width := rampWidth(m.width)

	return func() tea.Msg {
		ctx := context.Background()

		samples, err := parseSamples(text)
		if err != nil {
			return convertedMsg{seq: seq, err: err}
		}
		exposed := append([]float32(nil), samples...)
		transfer.Expose(exposed, exposure)

		r := ramp(width, 1)
		transfer.Expose(r, exposure)

		m.convMu.Lock()
		defer m.convMu.Unlock()

		encoded, err := m.conv.Convert(ctx, exposed)
		if err != nil {
			return convertedMsg{seq: seq, err: err}
		}
		rampPix, err := m.conv.Convert(ctx, r)
		if err != nil {
			return convertedMsg{seq: seq, err: err}
		}
		return convertedMsg{seq: seq, samples: samples, encoded: encoded, rampPix: rampPix}
	}
}

func rampWidth(termWidth int) int {
	w := termWidth - 2
	if w > maxRampWidth {
		w = maxRampWidth
	}
	if w < 8 {
		w = 8
	}
	return w
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m, m.convert()
		case "up":
			m.exposure += exposureStep
			return m, m.convert()
		case "down":
			m.exposure -= exposureStep
			return m, m.convert()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, m.convert()

	case convertedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.err = msg.err
		if msg.err == nil {
			m.samples = msg.samples
			m.encoded = msg.encoded
			m.rampPix = msg.rampPix
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func swatch(v byte, width int) string {
	c := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", v, v, v))
	return lipgloss.NewStyle().Background(c).Render(strings.Repeat(" ", width))
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("linear → sRGB"))
	b.WriteString(" ")
	b.WriteString(helpStyle.Render("engine: " + m.conv.Name()))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("exposure: %+.1f stops", m.exposure)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	for i, v := range m.samples {
		if i >= len(m.encoded) {
			break
		}
		e := m.encoded[i]
		b.WriteString(fmt.Sprintf("%12.6g  → %s  ", v, valueStyle.Render(fmt.Sprintf("%3d", e))))
		b.WriteString(swatch(e, 6))
		b.WriteString("\n")
	}

	if len(m.rampPix) > 0 {
		b.WriteString("\n")
		for _, v := range m.rampPix {
			b.WriteString(swatch(v, 1))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter convert • ↑/↓ exposure • esc quit"))
	return b.String()
}

func runInteractive(opts options) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("interactive mode needs a terminal")
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		width = 80
	}

	// Logging would corrupt the TUI.
	conv, err := newConverter(context.Background(), opts, zap.NewNop())
	if err != nil {
		return err
	}
	defer conv.Close(context.Background())

	p := tea.NewProgram(newInteractiveModel(conv, opts.exposure, width), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
