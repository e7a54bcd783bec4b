package widget

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	cellWidth = 5
	cellGap   = 1
	padWidth  = gridCols*cellWidth + (gridCols-1)*cellGap
)

var (
	colorClear    = lipgloss.Color("#EF4444")
	colorOperator = lipgloss.Color("#F97316")
	colorFunction = lipgloss.Color("#D1D5DB")
	colorDigit    = lipgloss.Color("#F3F4F6")
	colorInk      = lipgloss.Color("#111827")
	colorWhite    = lipgloss.Color("#FFFFFF")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Width(padWidth).
			Align(lipgloss.Center)

	displayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Background(lipgloss.Color("#000000")).
			Foreground(colorWhite).
			Padding(0, 1).
			Width(padWidth - 2).
			Align(lipgloss.Right)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Align(lipgloss.Center)
)

func styleFor(label string) lipgloss.Style {
	switch label {
	case "C":
		return buttonStyle.Background(colorClear).Foreground(colorWhite)
	case "÷", "×", "-", "+", "=":
		return buttonStyle.Background(colorOperator).Foreground(colorWhite)
	case "±", "%":
		return buttonStyle.Background(colorFunction).Foreground(colorInk)
	default:
		return buttonStyle.Background(colorDigit).Foreground(colorInk)
	}
}

func (m Model) View() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Calculator"))
	rows = append(rows, displayStyle.Render(fitDisplay(m.state.Display, padWidth-4)))

	for r := range gridRows {
		rows = append(rows, m.renderRow(r))
	}

	rows = append(rows, "", m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderRow(r int) string {
	var cells []string
	for c := 0; c < gridCols; {
		label := grid[r][c]
		span := 1
		for c+span < gridCols && grid[r][c+span] == label {
			span++
		}

		style := styleFor(label).Width(span*cellWidth + (span-1)*cellGap)
		if label == m.Focused() {
			style = style.Reverse(true).Underline(true)
		}

		if len(cells) > 0 {
			cells = append(cells, strings.Repeat(" ", cellGap))
		}
		cells = append(cells, style.Render(label))
		c += span
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// fitDisplay keeps the rightmost part of a display too long for width,
// marking the cut with an ellipsis.
func fitDisplay(display string, width int) string {
	if lipgloss.Width(display) <= width {
		return display
	}
	runes := []rune(display)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[1:]
	}
	return "…" + string(runes)
}
