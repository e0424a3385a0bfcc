package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// ScenarioBadge marks the current and locked scenarios.
func ScenarioBadge(s *domain.Scenario) string {
	switch {
	case s.IsCurrent && s.IsLocked:
		return StyleYellow.Render("● CURRENT (locked)")
	case s.IsCurrent:
		return StyleGreen.Render("● CURRENT")
	case s.IsLocked:
		return StyleDim.Render("■ LOCKED")
	default:
		return StyleDim.Render("○")
	}
}

// CategoryPill colors Plan and Result differently so mixed lists scan well.
func CategoryPill(c domain.EntryCategory) string {
	switch c {
	case domain.CategoryPlan:
		return StyleBlue.Render(string(c))
	case domain.CategoryResult:
		return StylePurple.Render(string(c))
	default:
		return StyleDim.Render(string(c))
	}
}

// AmountStyled renders negative amounts in red.
func AmountStyled(d decimal.Decimal) string {
	text := FormatAmount(d)
	if d.IsNegative() {
		return StyleRed.Render(text)
	}
	return StyleFg.Render(text)
}
