// AngelaMos | 2026
// generator_test.go

package outline

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedModel struct {
	content string
}

func (m *scriptedModel) Generate(
	_ context.Context,
	_ []*schema.Message,
	_ ...model.Option,
) (*schema.Message, error) {
	return schema.AssistantMessage(m.content, nil), nil
}

func (m *scriptedModel) Stream(
	_ context.Context,
	_ []*schema.Message,
	_ ...model.Option,
) (*schema.StreamReader[*schema.Message], error) {
	panic("not used")
}

func sectionsText(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("## Section heading\n")
		b.WriteString("- first point\n")
		b.WriteString("- second point\n")
		b.WriteString("- third point\n\n")
	}
	return b.String()
}

func TestGenerateFullDeck(t *testing.T) {
	gen := NewGeneratorWithModel(&scriptedModel{content: sectionsText(3)})

	// 5 slides: title + 3 content sections + closing.
	outline, err := gen.Generate(context.Background(), "Quarterly Review", 5)
	require.NoError(t, err)

	assert.Equal(t, "Quarterly Review", outline.Title)
	assert.Len(t, outline.Sections, 3)
}

func TestGenerateRejectsShortReply(t *testing.T) {
	gen := NewGeneratorWithModel(&scriptedModel{content: sectionsText(4)})

	// 10 slides need 8 content sections; 4 is a shortfall, not a deck.
	_, err := gen.Generate(context.Background(), "Quarterly Review", 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 sections, want 8")
}

func TestGenerateTruncatesSurplusReply(t *testing.T) {
	gen := NewGeneratorWithModel(&scriptedModel{content: sectionsText(6)})

	outline, err := gen.Generate(context.Background(), "Quarterly Review", 5)
	require.NoError(t, err)

	assert.Len(t, outline.Sections, 3)
}
