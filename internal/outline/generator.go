// AngelaMos | 2026
// generator.go

// Package outline turns a presentation title into structured slide
// content by prompting a chat model.
package outline

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/carterperez-dev/slidecraft/internal/config"
	"github.com/carterperez-dev/slidecraft/internal/core"
)

// Section is one content slide: a heading plus its bullet points.
type Section struct {
	Title   string
	Bullets []string
}

// Outline is the full generated deck content. Intro and outro slides
// are synthesized by the slides builder, so Sections holds only the
// content slides between them.
type Outline struct {
	Title    string
	Sections []Section
}

type Generator interface {
	Generate(ctx context.Context, title string, numSlides int) (*Outline, error)
}

type generator struct {
	chatModel model.BaseChatModel
}

func NewGenerator(
	ctx context.Context,
	cfg config.LLMConfig,
) (Generator, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}

	return &generator{chatModel: chatModel}, nil
}

// NewGeneratorWithModel wires an existing chat model, used by tests.
func NewGeneratorWithModel(chatModel model.BaseChatModel) Generator {
	return &generator{chatModel: chatModel}
}

const systemPrompt = `You are a presentation writer. You produce concise,
well-structured slide outlines. Respond only in the requested format
with no preamble or commentary.`

func (g *generator) Generate(
	ctx context.Context,
	title string,
	numSlides int,
) (*Outline, error) {
	// Title and closing slides are fixed, the model writes the rest.
	numSections := numSlides - 2

	prompt := fmt.Sprintf(
		`Write the content for a presentation titled %q.

Produce exactly %d sections. Format each section as:

## <section heading>
- <bullet point>
- <bullet point>
- <bullet point>

Each section needs 3 to 5 bullet points. Bullet points are short
sentences, at most 15 words each. Do not number the sections.`,
		title,
		numSections,
	)

	resp, err := g.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	})
	if err != nil {
		return nil, core.VendorError("llm", err)
	}

	sections, err := parseSections(resp.Content)
	if err != nil {
		return nil, core.VendorError("llm", err)
	}

	// A short reply means the caller would get (and pay for) fewer
	// slides than requested, so it is an error, not a best effort.
	if len(sections) < numSections {
		return nil, core.VendorError("llm", fmt.Errorf(
			"model returned %d sections, want %d",
			len(sections),
			numSections,
		))
	}

	if len(sections) > numSections {
		sections = sections[:numSections]
	}

	return &Outline{Title: title, Sections: sections}, nil
}
