package store

import (
	"context"
	"encoding/json"
	"errors"
)

const settingsFile = "settings/site-settings.json"

// GetSettings returns the site settings object. A store that has never
// been written yields an empty object rather than a 404; the admin UI
// treats settings as always present.
func (s *Store) GetSettings(ctx context.Context) (json.RawMessage, error) {
	var settings json.RawMessage
	if err := s.readJSON(settingsFile, &settings); err != nil {
		if errors.Is(err, ErrNotFound) {
			return json.RawMessage("{}"), nil
		}
		return nil, err
	}
	return settings, nil
}

// ReplaceSettings overwrites the whole settings object; there is no
// field-level merge for the singleton.
func (s *Store) ReplaceSettings(ctx context.Context, settings json.RawMessage) error {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	return s.writeJSON(settingsFile, settings)
}
