package store

import (
	"github.com/sirupsen/logrus"

	"shopdesk/internal/models"
)

// SetSearchFilters merges patch into the current filters. Switching the
// collection keeps the other fields; they simply stop applying to the
// previous collection.
func (s *Store) SetSearchFilters(patch models.FilterPatch) (models.SearchFilters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Type != nil && !patch.Type.Valid() {
		return s.filters.Clone(), ErrInvalidCollection
	}
	s.filters = patch.Apply(s.filters).Clone()

	s.commit(SliceUI)
	return s.filters.Clone(), nil
}

func (s *Store) SearchFilters() models.SearchFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}

func (s *Store) SetSortOption(option models.SortOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !option.Valid() {
		s.log.WithField("sort", option).Warn("invalid sort option rejected")
		return ErrInvalidSortOption
	}
	s.sortOption = option

	s.commit(SliceUI)
	return nil
}

func (s *Store) SortOption() models.SortOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortOption
}

func (s *Store) SetSidebarOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sidebarOpen = open
	s.commit(SliceUI)
}

func (s *Store) SidebarOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebarOpen
}

// ToggleTheme flips between the light and dark theme and returns the new one.
func (s *Store) ToggleTheme() models.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = s.theme.Toggle()

	s.log.WithField("theme", s.theme).Info("theme changed")
	s.commit(SliceTheme)
	return s.theme
}

func (s *Store) Theme() models.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

func (s *Store) UpdateSettings(patch models.SettingsPatch) models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.ShowCurrencyConverter != nil {
		s.settings.ShowCurrencyConverter = *patch.ShowCurrencyConverter
	}

	s.log.WithFields(logrus.Fields{"showCurrencyConverter": s.settings.ShowCurrencyConverter}).Info("settings updated")
	s.commit(SliceSettings)
	return s.settings
}

func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}
