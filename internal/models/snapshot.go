package models

// Snapshot is the persisted part of the application state.
type Snapshot struct {
	Products []Product
	Orders   []Order
	Database []PhoneEntry
	Notes    []Note
	Theme    Theme
	Settings Settings
}

// EmptySnapshot is the state of a fresh install.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Products: []Product{},
		Orders:   []Order{},
		Database: []PhoneEntry{},
		Notes:    []Note{},
		Theme:    ThemeLight,
		Settings: DefaultSettings(),
	}
}
