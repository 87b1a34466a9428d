package listkit

import (
	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
)

// Theme defines the colors used when primitives are initialized.
type Theme struct {
	PrimitiveBackgroundColor tcell.Color // Main background color for primitives.
	PrimaryTextColor         tcell.Color // Primary text.
	SecondaryTextColor       tcell.Color // Secondary text (e.g. subtitles).
	HighlightColor           tcell.Color // Pressed or selected list items.
	DividerColor             tcell.Color // Line below list items.
	LeadingPanelColor        tcell.Color // Background of leading actions (usually destructive).
	TrailingPanelColor       tcell.Color // Background of trailing actions.
	PanelTextColor           tcell.Color // Labels on action panels.
	GhostColor               tcell.Color // Item being dragged.
	ScrollIndicatorColor     tcell.Color
}

// Styles defines the theme for applications.
var Styles = Theme{
	PrimitiveBackgroundColor: color.Black,
	PrimaryTextColor:         color.White,
	SecondaryTextColor:       color.Silver,
	HighlightColor:           color.Navy,
	DividerColor:             color.Gray,
	LeadingPanelColor:        color.Maroon,
	TrailingPanelColor:       color.Teal,
	PanelTextColor:           color.White,
	GhostColor:               color.Purple,
	ScrollIndicatorColor:     color.Gray,
}

// Palette profiles.
const (
	ProfileNormal   = "normal"
	ProfileSelected = "selected"
	ProfileDisabled = "disabled"
)

// Palette roles.
const (
	RoleBackground = "background"
	RoleForeground = "foreground"
	RoleBase       = "base"
	RolePositive   = "positive"
	RoleNegative   = "negative"
	RoleOverlay    = "overlay"
)

// Palette resolves a color for a profile and role.
type Palette interface {
	Color(profile, role string) tcell.Color
}

// ThemePalette resolves palette colors from a Theme. A nil Theme reads the
// package-level Styles.
type ThemePalette struct {
	Theme *Theme
}

// Color implements Palette.
func (p ThemePalette) Color(profile, role string) tcell.Color {
	theme := p.Theme
	if theme == nil {
		theme = &Styles
	}
	switch role {
	case RoleBackground:
		if profile == ProfileSelected {
			return theme.HighlightColor
		}
		return theme.PrimitiveBackgroundColor
	case RoleForeground:
		if profile == ProfileDisabled {
			return theme.SecondaryTextColor
		}
		return theme.PrimaryTextColor
	case RoleBase:
		return theme.DividerColor
	case RolePositive:
		return theme.TrailingPanelColor
	case RoleNegative:
		return theme.LeadingPanelColor
	case RoleOverlay:
		return theme.GhostColor
	}
	return tcell.ColorDefault
}
