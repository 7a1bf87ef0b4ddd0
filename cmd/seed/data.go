package main

import (
	"portfolio/internal/domain/models"
)

type seedBlock struct {
	blockType models.BlockType
	payload   any
	children  []seedBlock
}

type seedCaseStudy struct {
	request models.CreateCaseStudyRequest
	content []seedBlock
}

func paragraph(s string, children ...seedBlock) seedBlock {
	return seedBlock{
		blockType: models.BlockTypeParagraph,
		payload:   models.TextBlock{RichText: models.NewRichText(s), Color: models.ColorDefault},
		children:  children,
	}
}

func heading(s string) seedBlock {
	return seedBlock{
		blockType: models.BlockTypeHeading2,
		payload:   models.HeadingBlock{RichText: models.NewRichText(s), Color: models.ColorDefault},
	}
}

func bullet(s string) seedBlock {
	return seedBlock{
		blockType: models.BlockTypeBulletedListItem,
		payload:   models.TextBlock{RichText: models.NewRichText(s), Color: models.ColorDefault},
	}
}

func toggle(s string, children ...seedBlock) seedBlock {
	return seedBlock{
		blockType: models.BlockTypeToggle,
		payload:   models.TextBlock{RichText: models.NewRichText(s), Color: models.ColorDefault},
		children:  children,
	}
}

func todo(s string, checked bool) seedBlock {
	return seedBlock{
		blockType: models.BlockTypeToDo,
		payload:   models.TodoBlock{RichText: models.NewRichText(s), Checked: checked, Color: models.ColorDefault},
	}
}

func code(language, src string) seedBlock {
	return seedBlock{
		blockType: models.BlockTypeCode,
		payload:   models.CodeBlock{RichText: models.NewRichText(src), Language: language, Caption: []models.RichText{}},
	}
}

func callout(emoji, s string) seedBlock {
	return seedBlock{
		blockType: models.BlockTypeCallout,
		payload: models.CalloutBlock{
			RichText: models.NewRichText(s),
			Icon:     &models.Icon{Type: "emoji", Emoji: emoji},
			Color:    "gray_background",
		},
	}
}

func divider() seedBlock {
	return seedBlock{blockType: models.BlockTypeDivider, payload: struct{}{}}
}

func seedCaseStudies() []seedCaseStudy {
	return []seedCaseStudy{
		{
			request: models.CreateCaseStudyRequest{
				Name:           "Checkout Redesign",
				ProjectDetails: "Rebuilt the checkout flow for a mid-size retailer, cutting abandonment by a fifth.",
				Tags:           []string{"UX", "E-commerce", "Research"},
				CoverImage:     &models.CoverImage{URL: "https://images.example.com/checkout.png", Name: "checkout.png"},
				Status:         models.StatusDone,
			},
			content: []seedBlock{
				heading("Overview"),
				paragraph("The existing checkout spread payment and shipping over five screens."),
				callout("💡", "Most drop-off happened on the shipping estimate screen."),
				heading("Process"),
				bullet("Interviewed twelve recent customers"),
				bullet("Mapped every field against what fulfilment actually used"),
				toggle("Research notes",
					paragraph("Customers wanted the total before entering an address."),
					paragraph("Guest checkout was hidden below the fold."),
				),
				divider(),
				heading("Outcome"),
				paragraph("A single-page checkout shipped after three rounds of testing."),
			},
		},
		{
			request: models.CreateCaseStudyRequest{
				Name:           "Realtime Dashboard",
				ProjectDetails: "Streaming metrics dashboard for a logistics operator.",
				Tags:           []string{"Data", "Frontend"},
				Status:         models.StatusDone,
			},
			content: []seedBlock{
				heading("Architecture"),
				paragraph("Events arrive over a message bus and fan out to browser sessions.",
					paragraph("Each session subscribes only to the depots it can see."),
				),
				code("go", "for ev := range events {\n\thub.Broadcast(ev)\n}"),
				heading("Launch checklist"),
				todo("Load test at 10x peak", true),
				todo("Alerting runbook", true),
				todo("Dark mode", false),
			},
		},
		{
			request: models.CreateCaseStudyRequest{
				Name:           "Design System Audit",
				ProjectDetails: "Inventory of components across four product teams.",
				Tags:           []string{"Design Systems"},
				Status:         models.StatusInProgress,
			},
			content: []seedBlock{
				paragraph("Audit is underway; findings are published as each team is reviewed."),
			},
		},
		{
			request: models.CreateCaseStudyRequest{
				Name:   "Onboarding Emails",
				Tags:   []string{"Lifecycle", "Copywriting"},
				Status: models.StatusNotStarted,
			},
		},
		{
			request: models.CreateCaseStudyRequest{
				Name:           "Accessibility Review",
				ProjectDetails: "WCAG 2.1 AA review of the marketing site.",
				Tags:           []string{"Accessibility"},
				Status:         models.StatusCompleted,
			},
		},
	}
}
