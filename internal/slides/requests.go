// AngelaMos | 2026
// requests.go

package slides

import (
	"fmt"
	"strings"

	gslides "google.golang.org/api/slides/v1"

	"github.com/carterperez-dev/slidecraft/internal/outline"
	"github.com/carterperez-dev/slidecraft/internal/theme"
)

// buildRequests assembles the full batchUpdate payload: delete the
// default slide, then a title slide, the content slides alternating
// between one- and two-column layouts, and a closing slide. Every slide
// gets the theme background and text colors.
func buildRequests(
	created *gslides.Presentation,
	content *outline.Outline,
	palette theme.RGBPalette,
) []*gslides.Request {
	var requests []*gslides.Request

	// A fresh presentation arrives with one default slide we never use.
	for _, s := range created.Slides {
		requests = append(requests, &gslides.Request{
			DeleteObject: &gslides.DeleteObjectRequest{ObjectId: s.ObjectId},
		})
	}

	requests = append(requests, titleSlideRequests(content.Title, palette)...)

	for i, section := range content.Sections {
		slideID := fmt.Sprintf("slide-%d", i+1)
		if i%2 == 0 {
			requests = append(
				requests,
				oneColumnSlideRequests(slideID, section, palette)...)
		} else {
			requests = append(
				requests,
				twoColumnSlideRequests(slideID, section, palette)...)
		}
	}

	closingID := fmt.Sprintf("slide-%d", len(content.Sections)+1)
	requests = append(requests, closingSlideRequests(closingID, palette)...)

	return requests
}

func titleSlideRequests(
	title string,
	palette theme.RGBPalette,
) []*gslides.Request {
	const slideID = "slide-0"
	titleID := slideID + "-title"

	return []*gslides.Request{
		{
			CreateSlide: &gslides.CreateSlideRequest{
				ObjectId: slideID,
				SlideLayoutReference: &gslides.LayoutReference{
					PredefinedLayout: "TITLE",
				},
				PlaceholderIdMappings: []*gslides.LayoutPlaceholderIdMapping{
					{
						LayoutPlaceholder: &gslides.Placeholder{
							Type: "CENTERED_TITLE",
						},
						ObjectId: titleID,
					},
				},
			},
		},
		insertText(titleID, title),
		backgroundRequest(slideID, palette.Background),
		textColorRequest(titleID, palette.TitleText),
	}
}

func oneColumnSlideRequests(
	slideID string,
	section outline.Section,
	palette theme.RGBPalette,
) []*gslides.Request {
	titleID := slideID + "-title"
	bodyID := slideID + "-body"

	return []*gslides.Request{
		{
			CreateSlide: &gslides.CreateSlideRequest{
				ObjectId: slideID,
				SlideLayoutReference: &gslides.LayoutReference{
					PredefinedLayout: "TITLE_AND_BODY",
				},
				PlaceholderIdMappings: []*gslides.LayoutPlaceholderIdMapping{
					{
						LayoutPlaceholder: &gslides.Placeholder{Type: "TITLE"},
						ObjectId:          titleID,
					},
					{
						LayoutPlaceholder: &gslides.Placeholder{Type: "BODY"},
						ObjectId:          bodyID,
					},
				},
			},
		},
		insertText(titleID, section.Title),
		insertText(bodyID, bulletText(section.Bullets)),
		backgroundRequest(slideID, palette.Background),
		textColorRequest(titleID, palette.TitleText),
		textColorRequest(bodyID, palette.BodyText),
	}
}

func twoColumnSlideRequests(
	slideID string,
	section outline.Section,
	palette theme.RGBPalette,
) []*gslides.Request {
	titleID := slideID + "-title"
	leftID := slideID + "-left"
	rightID := slideID + "-right"

	half := (len(section.Bullets) + 1) / 2
	left := section.Bullets[:half]
	right := section.Bullets[half:]

	requests := []*gslides.Request{
		{
			CreateSlide: &gslides.CreateSlideRequest{
				ObjectId: slideID,
				SlideLayoutReference: &gslides.LayoutReference{
					PredefinedLayout: "TITLE_AND_TWO_COLUMNS",
				},
				PlaceholderIdMappings: []*gslides.LayoutPlaceholderIdMapping{
					{
						LayoutPlaceholder: &gslides.Placeholder{Type: "TITLE"},
						ObjectId:          titleID,
					},
					{
						LayoutPlaceholder: &gslides.Placeholder{
							Type:  "BODY",
							Index: 0,
						},
						ObjectId: leftID,
					},
					{
						LayoutPlaceholder: &gslides.Placeholder{
							Type:            "BODY",
							Index:           1,
							ForceSendFields: []string{"Index"},
						},
						ObjectId: rightID,
					},
				},
			},
		},
		insertText(titleID, section.Title),
		insertText(leftID, bulletText(left)),
		backgroundRequest(slideID, palette.Background),
		textColorRequest(titleID, palette.TitleText),
		textColorRequest(leftID, palette.BodyText),
	}

	if len(right) > 0 {
		requests = append(
			requests,
			insertText(rightID, bulletText(right)),
			textColorRequest(rightID, palette.BodyText),
		)
	}

	return requests
}

func closingSlideRequests(
	slideID string,
	palette theme.RGBPalette,
) []*gslides.Request {
	titleID := slideID + "-title"

	return []*gslides.Request{
		{
			CreateSlide: &gslides.CreateSlideRequest{
				ObjectId: slideID,
				SlideLayoutReference: &gslides.LayoutReference{
					PredefinedLayout: "TITLE",
				},
				PlaceholderIdMappings: []*gslides.LayoutPlaceholderIdMapping{
					{
						LayoutPlaceholder: &gslides.Placeholder{
							Type: "CENTERED_TITLE",
						},
						ObjectId: titleID,
					},
				},
			},
		},
		insertText(titleID, "Thank You!"),
		backgroundRequest(slideID, palette.Background),
		textColorRequest(titleID, palette.TitleText),
	}
}

func insertText(objectID, text string) *gslides.Request {
	return &gslides.Request{
		InsertText: &gslides.InsertTextRequest{
			ObjectId: objectID,
			Text:     text,
		},
	}
}

func bulletText(bullets []string) string {
	return strings.Join(bullets, "\n")
}

func backgroundRequest(slideID string, color theme.RGB) *gslides.Request {
	return &gslides.Request{
		UpdatePageProperties: &gslides.UpdatePagePropertiesRequest{
			ObjectId: slideID,
			PageProperties: &gslides.PageProperties{
				PageBackgroundFill: &gslides.PageBackgroundFill{
					SolidFill: &gslides.SolidFill{
						Color: &gslides.OpaqueColor{
							RgbColor: &gslides.RgbColor{
								Red:   color.Red,
								Green: color.Green,
								Blue:  color.Blue,
							},
						},
					},
				},
			},
			Fields: "pageBackgroundFill.solidFill.color",
		},
	}
}

func textColorRequest(objectID string, color theme.RGB) *gslides.Request {
	return &gslides.Request{
		UpdateTextStyle: &gslides.UpdateTextStyleRequest{
			ObjectId: objectID,
			TextRange: &gslides.Range{
				Type: "ALL",
			},
			Style: &gslides.TextStyle{
				ForegroundColor: &gslides.OptionalColor{
					OpaqueColor: &gslides.OpaqueColor{
						RgbColor: &gslides.RgbColor{
							Red:   color.Red,
							Green: color.Green,
							Blue:  color.Blue,
						},
					},
				},
			},
			Fields: "foregroundColor",
		},
	}
}
