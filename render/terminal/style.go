package terminal

import "github.com/charmbracelet/lipgloss"

var (
	// Alert colors: blue for notices, amber for warnings, red for errors.
	colorNotice  = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#fbbf24"}
	colorError   = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34d399"}

	// UI colors.
	colorBright = lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f1f5f9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"}
	colorGroup  = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"} // purple
)

var (
	styleNotice  = lipgloss.NewStyle().Foreground(colorNotice).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)

	styleTitle = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleMeta  = lipgloss.NewStyle().Foreground(colorDim)
	styleLine  = lipgloss.NewStyle().Foreground(colorDim)

	styleStat      = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleStatLabel = lipgloss.NewStyle().Foreground(colorDim)

	styleGroup = lipgloss.NewStyle().Foreground(colorGroup).Bold(true)
	styleCard  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	styleSeparator = lipgloss.NewStyle().Foreground(colorDim)
)
