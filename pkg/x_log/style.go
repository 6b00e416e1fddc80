package x_log

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

//
// ---------- IBM Carbon Colors ----------

const (
	ColorTeal40    = "#3ddbd9"
	ColorBlue60    = "#4589ff"
	ColorBlue40    = "#78a9ff"
	ColorBlue70    = "#0043ce"
	ColorBlueBase  = "#0f62fe"
	ColorRed60     = "#da1e28"
	ColorRedStrong = "#ff0000"
	ColorOrange40  = "#ff832b"
	ColorGray60    = "#8d8d8d"
	ColorGray10    = "#f4f4f4"
	ColorGray90    = "#262626"
)

//
// ---------- Styles Definition ----------

// Styles defines the console rendering of log lines.
type Styles struct {
	Out             io.Writer                 // output target
	NoColor         bool                      // render plain text
	Timestamp       lipgloss.Style            // style for timestamps
	Message         lipgloss.Style            // style for the message
	Levels          map[Level]lipgloss.Style  // level badges
	Keys            map[string]lipgloss.Style // field keys worth highlighting
	DefaultKeyStyle lipgloss.Style            // fallback for other keys
}

//
// ---------- Theme Selectors ----------

// DefaultStylesByName returns a theme by name ("dark", "light")
func DefaultStylesByName(name string) *Styles {
	switch strings.ToLower(name) {
	case "light":
		return DefaultStylesLight()
	default:
		return DefaultStylesDark()
	}
}

//
// ---------- Console Formatter ----------

// ConsoleWriterWithStyles builds a zerolog.ConsoleWriter with styles
func ConsoleWriterWithStyles(styles *Styles) zerolog.ConsoleWriter {
	w := zerolog.ConsoleWriter{
		Out:        styles.Out,
		NoColor:    styles.NoColor,
		TimeFormat: "15:04:05.000",
	}
	if styles.NoColor {
		return w
	}

	w.FormatLevel = func(i any) string {
		name := strings.ToLower(fmt.Sprint(i))
		level, err := zerolog.ParseLevel(name)
		if err != nil || len(name) < 3 {
			return strings.ToUpper(name)
		}
		style, ok := styles.Levels[level]
		if !ok {
			style = badge(ColorGray60)
		}
		return style.Render(strings.ToUpper(name[:3]))
	}

	w.FormatTimestamp = func(i any) string {
		return styles.Timestamp.Render(fmt.Sprint(i))
	}

	w.FormatFieldName = func(i any) string {
		key := fmt.Sprint(i)
		style, ok := styles.Keys[key]
		if !ok {
			style = styles.DefaultKeyStyle
		}
		eqStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray60))
		return style.Render(key) + eqStyle.Render("=")
	}

	w.FormatMessage = func(i any) string {
		if i == nil {
			return ""
		}
		return styles.Message.Render(fmt.Sprint(i))
	}
	return w
}

// badge is a padded level label on a colored background.
func badge(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// fieldKeys highlights the fields the broker logs most.
func fieldKeys(accent string) map[string]lipgloss.Style {
	key := lipgloss.NewStyle().Foreground(lipgloss.Color(accent))
	return map[string]lipgloss.Style{
		"module": key,
		"peer":   key.Bold(true),
		"rule":   key,
		"sender": key,
		"error":  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed60)),
	}
}

//
// ---------- Dark Theme ----------

func DefaultStylesDark() *Styles {
	return &Styles{
		Timestamp:       lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray60)),
		Message:         lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray10)),
		DefaultKeyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBlue40)),

		Levels: map[Level]lipgloss.Style{
			DebugLevel: badge(ColorTeal40),
			InfoLevel:  badge(ColorBlue60),
			WarnLevel:  badge(ColorOrange40),
			ErrorLevel: badge(ColorRed60),
			FatalLevel: badge(ColorRedStrong),
		},

		Keys: fieldKeys(ColorBlue40),
	}
}

//
// ---------- Light Theme ----------

func DefaultStylesLight() *Styles {
	return &Styles{
		Timestamp:       lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray60)),
		Message:         lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray90)),
		DefaultKeyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBlueBase)),

		Levels: map[Level]lipgloss.Style{
			DebugLevel: badge(ColorTeal40),
			InfoLevel:  badge(ColorBlue70),
			WarnLevel:  badge(ColorOrange40),
			ErrorLevel: badge(ColorRed60),
			FatalLevel: badge(ColorRedStrong),
		},

		Keys: fieldKeys(ColorBlueBase),
	}
}
