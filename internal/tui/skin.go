package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/pairs/internal/model"
)

// Palette used by every page. InitializeSkin may override it.
var (
	ColorBlue   = lipgloss.Color("39")
	ColorGray   = lipgloss.Color("244")
	ColorGreen  = lipgloss.Color("42")
	ColorOrange = lipgloss.Color("208")
	ColorRed    = lipgloss.Color("196")
	ColorWhite  = lipgloss.Color("255")
	ColorNavy   = lipgloss.Color("17")
	ColorPink   = lipgloss.Color("205")
)

// Skin is the YAML representation of a palette override. Empty fields keep
// the default color.
type Skin struct {
	Name   string `yaml:"name"`
	Colors struct {
		Primary  string `yaml:"primary"`
		Muted    string `yaml:"muted"`
		Success  string `yaml:"success"`
		Warning  string `yaml:"warning"`
		Danger   string `yaml:"danger"`
		Text     string `yaml:"text"`
		CardBack string `yaml:"card_back"`
		Accent   string `yaml:"accent"`
	} `yaml:"colors"`
}

// InitializeSkin loads <configDir>/skins/<name>.yml and applies it. The
// default skin needs no file.
func InitializeSkin(name, configDir string) error {
	if name == "" || name == model.DefaultSkin {
		return nil
	}

	path := filepath.Join(configDir, "skins", name+".yml")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading skin %s: %w", path, err)
	}
	skin, err := ParseSkin(data)
	if err != nil {
		return fmt.Errorf("parsing skin %s: %w", path, err)
	}
	skin.Apply()
	return nil
}

// ParseSkin decodes a skin document.
func ParseSkin(data []byte) (Skin, error) {
	var s Skin
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Skin{}, err
	}
	return s, nil
}

// Apply overrides the palette with the non-empty colors of s.
func (s Skin) Apply() {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&ColorBlue, s.Colors.Primary)
	set(&ColorGray, s.Colors.Muted)
	set(&ColorGreen, s.Colors.Success)
	set(&ColorOrange, s.Colors.Warning)
	set(&ColorRed, s.Colors.Danger)
	set(&ColorWhite, s.Colors.Text)
	set(&ColorNavy, s.Colors.CardBack)
	set(&ColorPink, s.Colors.Accent)
}

func mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorGray)
}

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
}
