package models

// Theme is the visual theme preference.
type Theme string

const (
	ThemeLight        Theme = "light"
	ThemeDark         Theme = "dark"
	ThemeSolarized    Theme = "solarized"
	ThemeHighContrast Theme = "highContrast"
)

// DefaultTheme is used when no valid preference is stored.
const DefaultTheme = ThemeLight

// Themes lists the supported themes in menu order.
func Themes() []Theme {
	return []Theme{ThemeLight, ThemeDark, ThemeSolarized, ThemeHighContrast}
}

// Valid reports whether t is a supported theme. Names are case sensitive.
func (t Theme) Valid() bool {
	for _, known := range Themes() {
		if t == known {
			return true
		}
	}
	return false
}

// OrDefault returns t if it is valid and DefaultTheme otherwise.
func (t Theme) OrDefault() Theme {
	if t.Valid() {
		return t
	}
	return DefaultTheme
}
