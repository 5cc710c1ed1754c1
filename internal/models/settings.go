package models

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Settings holds the persisted feature toggles.
type Settings struct {
	ShowCurrencyConverter bool `json:"showCurrencyConverter"`
}

func DefaultSettings() Settings {
	return Settings{ShowCurrencyConverter: true}
}

// SettingsPatch updates the non-nil fields of Settings.
type SettingsPatch struct {
	ShowCurrencyConverter *bool `json:"showCurrencyConverter"`
}
