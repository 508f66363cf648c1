package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

var (
	htmlTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// TemplateData is rendered into both the HTML and plain-text bodies.
type TemplateData struct {
	AppName   string
	Title     string
	Name      string
	Message   string
	Details   []Detail
	LinkURL   string
	LinkLabel string
	Color     string
}

type Detail struct {
	Label string
	Value string
}

// Render builds a Message for one recipient.
func Render(to, subject string, data TemplateData) (Message, error) {
	if data.Color == "" {
		data.Color = "#2563eb"
	}

	var html bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, "layout.html", data); err != nil {
		return Message{}, fmt.Errorf("failed to execute email template: %w", err)
	}

	var text bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, "notification.txt", data); err != nil {
		return Message{}, fmt.Errorf("failed to execute text template: %w", err)
	}

	return Message{
		To:      to,
		Subject: subject,
		HTML:    html.String(),
		Text:    strings.TrimSpace(text.String()),
	}, nil
}
