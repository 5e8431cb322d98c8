package prefs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const testPrefs = `
settings:
  Log Mode: Info
  Default Preference: Casual
user_prefs:
  Casual: "Keep replies short and relaxed."
  Formal: "Use complete sentences and a professional tone."
`

func loadTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	if err := os.WriteFile(path, []byte(testPrefs), 0600); err != nil {
		t.Fatalf("writing test preferences: %v", err)
	}
	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return store
}

func TestLoad(t *testing.T) {
	store := loadTestStore(t)

	if got := store.Setting(SettingLogMode); got != "Info" {
		t.Errorf("Setting(Log Mode) = %q, want %q", got, "Info")
	}
	if got := store.Setting(SettingDefaultPreference); got != "Casual" {
		t.Errorf("Setting(Default Preference) = %q, want %q", got, "Casual")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/preferences.yaml"); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_DefaultLogMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	if err := os.WriteFile(path, []byte("settings: {}\n"), 0600); err != nil {
		t.Fatalf("writing test preferences: %v", err)
	}

	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := store.Setting(SettingLogMode); got != "Info" {
		t.Errorf("Setting(Log Mode) = %q, want default %q", got, "Info")
	}
}

func TestSetSetting_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	if err := os.WriteFile(path, []byte(testPrefs), 0600); err != nil {
		t.Fatalf("writing test preferences: %v", err)
	}
	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := store.SetSetting(SettingLogMode, "Debug"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}

	// Reload from disk: the write must survive the process.
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading store: %v", err)
	}
	if got := reloaded.Setting(SettingLogMode); got != "Debug" {
		t.Errorf("reloaded Log Mode = %q, want %q", got, "Debug")
	}
	// User preferences survive a settings write.
	if got := reloaded.ActivePreference(); got != "Keep replies short and relaxed." {
		t.Errorf("reloaded ActivePreference() = %q", got)
	}
}

func TestUserPreferenceNames(t *testing.T) {
	store := loadTestStore(t)
	want := []string{"Casual", "Formal"}
	if got := store.UserPreferenceNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("UserPreferenceNames() = %v, want %v", got, want)
	}
}

func TestValidPreferenceNames(t *testing.T) {
	store := loadTestStore(t)
	want := "Valid Preference Names (Casual, Formal)"
	if got := store.ValidPreferenceNames(); got != want {
		t.Errorf("ValidPreferenceNames() = %q, want %q", got, want)
	}
}

func TestActivePreference(t *testing.T) {
	store := loadTestStore(t)

	if got := store.ActivePreference(); got != "Keep replies short and relaxed." {
		t.Errorf("ActivePreference() = %q", got)
	}

	if err := store.SetSetting(SettingDefaultPreference, "Formal"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	if got := store.ActivePreference(); got != "Use complete sentences and a professional tone." {
		t.Errorf("ActivePreference() after switch = %q", got)
	}

	if err := store.SetSetting(SettingDefaultPreference, "Unknown"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	if got := store.ActivePreference(); got != "" {
		t.Errorf("ActivePreference() for unknown name = %q, want empty", got)
	}
}
