package prefs

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// filePermissions is the permission mode for the preferences file.
const filePermissions = 0600

// Setting names the store guarantees to exist after Load.
const (
	// SettingLogMode holds "Debug" or "Info"; mutated by the debug
	// virtual switch.
	SettingLogMode = "Log Mode"

	// SettingDefaultPreference names the active user preference; mutated
	// by the preferences virtual selector.
	SettingDefaultPreference = "Default Preference"
)

// fileFormat is the on-disk shape of the preferences file.
type fileFormat struct {
	Settings  map[string]string `yaml:"settings"`
	UserPrefs map[string]string `yaml:"user_prefs"`
}

// Store is a YAML-backed preference store. Settings are small named
// string values; user preferences are named blocks of preference text
// that can be injected into the model's context.
//
// The store is written synchronously on every mutation and assumes a
// single writer (the pipeline processes one request at a time). The
// mutex only guards against the serve mode's sequential handlers racing
// a read against a write.
type Store struct {
	path string

	mu        sync.RWMutex
	settings  map[string]string
	userPrefs map[string]string
}

// Load reads the preference store from a YAML file.
//
// Missing defaults are filled in (Log Mode defaults to "Info") but not
// written back until the first mutation.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preferences file: %w", err)
	}

	var ff fileFormat
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parsing preferences file: %w", err)
	}

	if ff.Settings == nil {
		ff.Settings = map[string]string{}
	}
	if ff.UserPrefs == nil {
		ff.UserPrefs = map[string]string{}
	}
	if ff.Settings[SettingLogMode] == "" {
		ff.Settings[SettingLogMode] = "Info"
	}

	return &Store{
		path:      path,
		settings:  ff.Settings,
		userPrefs: ff.UserPrefs,
	}, nil
}

// Setting returns the current value of a named setting, or "" if unset.
func (s *Store) Setting(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings[name]
}

// SetSetting writes a named setting and persists the store to disk.
func (s *Store) SetSetting(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[name] = value
	if err := s.save(); err != nil {
		return fmt.Errorf("persisting setting %q: %w", name, err)
	}
	return nil
}

// UserPreferenceNames returns the names of all user preferences, sorted.
func (s *Store) UserPreferenceNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.userPrefs))
	for name := range s.userPrefs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidPreferenceNames renders the user preference names as a sentence
// fragment for the model's context, e.g.
// "Valid Preference Names (Casual, Formal)".
func (s *Store) ValidPreferenceNames() string {
	return fmt.Sprintf("Valid Preference Names (%s)", strings.Join(s.UserPreferenceNames(), ", "))
}

// ActivePreference returns the preference text selected by the
// "Default Preference" setting, or "" when none is configured.
func (s *Store) ActivePreference() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userPrefs[s.settings[SettingDefaultPreference]]
}

// save writes the store back to its file. Callers must hold the write lock.
func (s *Store) save() error {
	data, err := yaml.Marshal(fileFormat{
		Settings:  s.settings,
		UserPrefs: s.userPrefs,
	})
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	if err := os.WriteFile(s.path, data, filePermissions); err != nil {
		return fmt.Errorf("writing preferences file: %w", err)
	}
	return nil
}
