package tui

// Color constants for the fleetdesk theme
const (
	// Base Colors
	ColorBorder       = "#2F3B45" // Grey-teal
	ColorActiveBorder = "#14B8A6" // Teal, focused panel

	// Text Colors
	ColorPrimaryText   = "#E8EDF0" // Primary text (labels, values, titles)
	ColorSecondaryText = "#9FB0BB" // Secondary text
	ColorDisabledText  = "#5E6B75" // Disabled/muted text
	ColorPlaceholder   = "#9FB0BB"
	ColorHelpText      = "240" // Dark grey for help bars

	// Accent Colors (Teal theme)
	ColorAccentMain   = "#0D9488" // Menu marker, selected row
	ColorAccentBright = "#2DD4BF" // Highlights, active field

	// State Colors
	ColorError   = "#EF4444" // Error banners, field errors
	ColorSuccess = "#22C55E" // Success toasts
	ColorWarning = "#F59E0B" // Warnings, busy markers
)
