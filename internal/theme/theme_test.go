// AngelaMos | 2026
// theme_test.go

package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownThemes(t *testing.T) {
	for _, id := range []string{"corporate", "elegant", "vibrant", "minimal", "dark"} {
		got := Lookup(id)
		assert.Equal(t, id, got.ID)
	}
}

func TestLookupUnknownFallsBackToCorporate(t *testing.T) {
	got := Lookup("hotdog-stand")
	assert.Equal(t, "corporate", got.ID)

	got = Lookup("")
	assert.Equal(t, "corporate", got.ID)
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	require.Len(t, a, 5)

	a[0].ID = "mutated"
	assert.Equal(t, "corporate", All()[0].ID)
}

func TestRGBConversion(t *testing.T) {
	dark := Lookup("dark")
	p, err := dark.RGB()
	require.NoError(t, err)

	// #1E1E1E => 30/255 on every channel
	assert.InDelta(t, 30.0/255.0, p.Background.Red, 1e-9)
	assert.InDelta(t, 30.0/255.0, p.Background.Green, 1e-9)
	assert.InDelta(t, 30.0/255.0, p.Background.Blue, 1e-9)

	corporate := Lookup("corporate")
	p, err = corporate.RGB()
	require.NoError(t, err)
	assert.Equal(t, RGB{Red: 1, Green: 1, Blue: 1}, p.Background)
	assert.InDelta(t, 0x33/255.0, p.TitleText.Green, 1e-9)
}

func TestHexToRGBRejectsMalformed(t *testing.T) {
	_, err := hexToRGB("#FFF")
	assert.Error(t, err)

	_, err = hexToRGB("GGGGGG")
	assert.Error(t, err)
}
