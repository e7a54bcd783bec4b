package widget

import (
	"go-chi-calculator/internal/calculator"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	gridRows = 5
	gridCols = 4
)

// grid is the button layout. A label repeated across cells is one wide button.
var grid = [gridRows][gridCols]string{
	{"C", "±", "%", "÷"},
	{"7", "8", "9", "×"},
	{"4", "5", "6", "-"},
	{"1", "2", "3", "+"},
	{"0", "0", ".", "="},
}

// Model is the keypad widget: a display over a button grid with a cursor.
type Model struct {
	state calculator.State
	row   int
	col   int
	keys  KeyMap
	help  help.Model
	width int
}

// New returns a keypad in the initial calculator state with the cursor on "C".
func New() Model {
	return Model{
		state: calculator.New(),
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}
}

// Display returns the current display text.
func (m Model) Display() string {
	return m.state.Display
}

// State returns the calculator state behind the widget.
func (m Model) State() calculator.State {
	return m.state
}

// Focused returns the label of the button under the cursor.
func (m Model) Focused() string {
	return grid[m.row][m.col]
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveVertical(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveVertical(1)
		case key.Matches(msg, m.keys.Left):
			m.moveHorizontal(-1)
		case key.Matches(msg, m.keys.Right):
			m.moveHorizontal(1)
		case key.Matches(msg, m.keys.Press):
			m.press()
		}
	}
	return m, nil
}

func (m *Model) moveVertical(delta int) {
	row := m.row + delta
	if row < 0 || row >= gridRows {
		return
	}
	m.row = row
}

// moveHorizontal skips cells that belong to the focused wide button.
func (m *Model) moveHorizontal(delta int) {
	current := grid[m.row][m.col]
	for col := m.col + delta; col >= 0 && col < gridCols; col += delta {
		if grid[m.row][col] != current {
			m.col = col
			return
		}
	}
}

func (m *Model) press() {
	e, err := calculator.ParseKey(m.Focused())
	if err != nil {
		return
	}
	m.state = calculator.Reduce(m.state, e)
}
