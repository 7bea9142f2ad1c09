// AngelaMos | 2026
// theme.go

// Package theme holds the fixed presentation color palettes. Themes are
// static configuration: loaded once, never mutated.
package theme

import (
	"fmt"
	"strconv"
)

const DefaultThemeID = "corporate"

type Palette struct {
	Background string `json:"background"`
	TitleText  string `json:"title_text"`
	BodyText   string `json:"body_text"`
	ShapeFill  string `json:"shape_fill"`
}

type Theme struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Colors      Palette `json:"colors"`
}

// RGB is a color in the 0–1 float range the Slides API expects.
type RGB struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

type RGBPalette struct {
	Background RGB
	TitleText  RGB
	BodyText   RGB
	ShapeFill  RGB
}

var themes = []Theme{
	{
		ID:          "corporate",
		Name:        "Corporate",
		Description: "Clean and professional",
		Colors: Palette{
			Background: "#FFFFFF",
			TitleText:  "#003366",
			BodyText:   "#000000",
			ShapeFill:  "#E6EEF4",
		},
	},
	{
		ID:          "elegant",
		Name:        "Elegant",
		Description: "Soft, classy tones",
		Colors: Palette{
			Background: "#FDFDFD",
			TitleText:  "#5C5470",
			BodyText:   "#333333",
			ShapeFill:  "#EAEAEA",
		},
	},
	{
		ID:          "vibrant",
		Name:        "Vibrant",
		Description: "Energetic and colorful",
		Colors: Palette{
			Background: "#FFFBEC",
			TitleText:  "#FF6F00",
			BodyText:   "#212121",
			ShapeFill:  "#FFD180",
		},
	},
	{
		ID:          "minimal",
		Name:        "Minimal",
		Description: "Modern and clean",
		Colors: Palette{
			Background: "#FAFAFA",
			TitleText:  "#212121",
			BodyText:   "#424242",
			ShapeFill:  "#BDBDBD",
		},
	},
	{
		ID:          "dark",
		Name:        "Dark Mode",
		Description: "High contrast",
		Colors: Palette{
			Background: "#1E1E1E",
			TitleText:  "#F5F5F5",
			BodyText:   "#E0E0E0",
			ShapeFill:  "#333333",
		},
	},
}

var themesByID = func() map[string]Theme {
	m := make(map[string]Theme, len(themes))
	for _, t := range themes {
		m[t.ID] = t
	}
	return m
}()

// Lookup returns the theme for the given ID, falling back to the
// corporate theme for unknown IDs. It never fails.
func Lookup(id string) Theme {
	if t, ok := themesByID[id]; ok {
		return t
	}
	return themesByID[DefaultThemeID]
}

func All() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

func (t Theme) RGB() (RGBPalette, error) {
	background, err := hexToRGB(t.Colors.Background)
	if err != nil {
		return RGBPalette{}, fmt.Errorf("theme %s background: %w", t.ID, err)
	}

	titleText, err := hexToRGB(t.Colors.TitleText)
	if err != nil {
		return RGBPalette{}, fmt.Errorf("theme %s title_text: %w", t.ID, err)
	}

	bodyText, err := hexToRGB(t.Colors.BodyText)
	if err != nil {
		return RGBPalette{}, fmt.Errorf("theme %s body_text: %w", t.ID, err)
	}

	shapeFill, err := hexToRGB(t.Colors.ShapeFill)
	if err != nil {
		return RGBPalette{}, fmt.Errorf("theme %s shape_fill: %w", t.ID, err)
	}

	return RGBPalette{
		Background: background,
		TitleText:  titleText,
		BodyText:   bodyText,
		ShapeFill:  shapeFill,
	}, nil
}

func hexToRGB(hex string) (RGB, error) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}

	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q", hex)
	}

	channels := [3]float64{}
	for i := range 3 {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		channels[i] = float64(v) / 255.0
	}

	return RGB{Red: channels[0], Green: channels[1], Blue: channels[2]}, nil
}
