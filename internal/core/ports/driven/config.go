package driven

import "github.com/kwak-labs/kwak-cli/internal/core/domain"

// SettingsStore persists application settings across runs.
type SettingsStore interface {
	// Load reads the stored settings. A missing settings file yields
	// the defaults, not an error.
	Load() (domain.AppSettings, error)

	// Save writes the settings, replacing any previous contents.
	Save(settings domain.AppSettings) error

	// Path returns the location of the backing settings file.
	Path() string
}
