package viewport

import (
	"encoding/base64"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings holds the values the server renders into the page: two boolean
// flags and a set of named meta entries.
type Settings struct {
	AppMode       bool              `yaml:"app_mode"`
	NotifyEnabled bool              `yaml:"notify_enabled"`
	Meta          map[string]string `yaml:"meta"`
}

// LoadSettings reads settings from a YAML file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if s.Meta == nil {
		s.Meta = make(map[string]string)
	}
	return &s, nil
}

// Save writes settings to a YAML file.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

var settingAliases = map[string]string{
	"organization_name": "contactorganization",
	"organization_url":  "contactnetworkaddress",
}

// metaKey finds the entry for key, preferring the "convos:" namespaced name.
func (s *Settings) metaKey(key string) (string, bool) {
	for _, name := range []string{"convos:" + key, key} {
		if _, ok := s.Meta[name]; ok {
			return name, true
		}
	}
	return "", false
}

// Setting returns a settings value. "yes" and "no" read as booleans and
// "contact" is base64 decoded.
func (v *Viewport) Setting(key string) (any, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.settings

	switch key {
	case "app_mode":
		return s.AppMode, nil
	case "notify_enabled":
		return s.NotifyEnabled, nil
	}
	if alias, ok := settingAliases[key]; ok {
		key = alias
	}

	name, ok := s.metaKey(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	content := s.Meta[name]

	if key == "contact" {
		decoded, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, fmt.Errorf("decode contact: %w", err)
		}
		return string(decoded), nil
	}
	switch content {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	return content, nil
}

// SetSetting changes a settings value. Only existing entries can be set.
func (v *Viewport) SetSetting(key string, value any) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.settings

	switch key {
	case "app_mode":
		s.AppMode = truthy(value)
		return nil
	case "notify_enabled":
		s.NotifyEnabled = truthy(value)
		return nil
	}
	if alias, ok := settingAliases[key]; ok {
		key = alias
	}

	name, ok := s.metaKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}

	var content string
	switch val := value.(type) {
	case bool:
		content = "no"
		if val {
			content = "yes"
		}
	default:
		content = fmt.Sprint(val)
	}
	if key == "contact" {
		content = base64.StdEncoding.EncodeToString([]byte(content))
	}
	s.Meta[name] = content
	return nil
}

// Settings returns the settings source.
func (v *Viewport) Settings() *Settings {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settings
}

func truthy(value any) bool {
	switch val := value.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}
