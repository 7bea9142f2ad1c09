// AngelaMos | 2026
// parser_test.go

package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSections(t *testing.T) {
	raw := `## Market Landscape
- Enterprise adoption grew 40% year over year.
- Three vendors control most of the market.

## Our Approach
* Ship small, validated increments.
* Automate the rollout pipeline.
- Measure everything.`

	sections, err := parseSections(raw)
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, "Market Landscape", sections[0].Title)
	assert.Len(t, sections[0].Bullets, 2)

	assert.Equal(t, "Our Approach", sections[1].Title)
	assert.Equal(t, []string{
		"Ship small, validated increments.",
		"Automate the rollout pipeline.",
		"Measure everything.",
	}, sections[1].Bullets)
}

func TestParseSectionsSkipsNoise(t *testing.T) {
	raw := `Here is your outline:

## Only Section
Some stray narration the model added.
- A real bullet.

That's all!`

	sections, err := parseSections(raw)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"A real bullet."}, sections[0].Bullets)
}

func TestParseSectionsDropsOrphanBullets(t *testing.T) {
	raw := `- orphan bullet before any heading
## Heading
- kept bullet`

	sections, err := parseSections(raw)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"kept bullet"}, sections[0].Bullets)
}

func TestParseSectionsDropsEmptySections(t *testing.T) {
	raw := `## Empty One
## Has Content
- something`

	sections, err := parseSections(raw)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Has Content", sections[0].Title)
}

func TestParseSectionsErrorsOnGarbage(t *testing.T) {
	_, err := parseSections("the model refused to cooperate")
	assert.Error(t, err)
}
