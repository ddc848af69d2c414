package models

import "testing"

func TestTheme_OrDefault(t *testing.T) {
	tests := []struct {
		in   Theme
		want Theme
	}{
		{ThemeDark, ThemeDark},
		{ThemeHighContrast, ThemeHighContrast},
		{"highcontrast", ThemeLight},
		{"", ThemeLight},
		{"neon", ThemeLight},
	}

	for _, tt := range tests {
		if got := tt.in.OrDefault(); got != tt.want {
			t.Errorf("Theme(%q).OrDefault() = %q, want %q", tt.in, got, tt.want)
		}
	}
}
