package tui

import (
	"github.com/aquafemi/libi/internal/session"
	"github.com/gdamore/tcell/v2"
)

// palette holds the colours of one theme. String fields are tview colour
// tag names.
type palette struct {
	Background tcell.Color
	Border     tcell.Color
	Text       string
	Accent     string
	Muted      string
	Money      string
	Error      string
}

var palettes = map[session.Theme]palette{
	session.ThemeDark: {
		Background: tcell.ColorBlack,
		Border:     tcell.ColorGray,
		Text:       "white",
		Accent:     "yellow",
		Muted:      "gray",
		Money:      "green",
		Error:      "red",
	},
	session.ThemeLight: {
		Background: tcell.ColorWhite,
		Border:     tcell.ColorDarkGray,
		Text:       "black",
		Accent:     "darkblue",
		Muted:      "darkgray",
		Money:      "darkgreen",
		Error:      "darkred",
	},
}

func paletteFor(theme session.Theme) palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[session.ThemeDark]
}
