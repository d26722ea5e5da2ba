// Package templates renders the notification emails. Every template has an
// HTML part and may have a plain text part with the same base name.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed *.html *.txt
var templateFS embed.FS

// Message is a rendered email body.
type Message struct {
	HTML string
	Text string
}

// Renderer executes the embedded templates.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}

	text, err := texttemplate.ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	return &Renderer{html: html, text: text}, nil
}

// Has reports whether an HTML template exists for name.
func (r *Renderer) Has(name string) bool {
	return r.html.Lookup(name+".html") != nil
}

// Render executes the template pair called name. A missing text part leaves
// Message.Text empty.
func (r *Renderer) Render(name string, data any) (Message, error) {
	var msg Message

	var buf bytes.Buffer
	if err := r.html.ExecuteTemplate(&buf, name+".html", data); err != nil {
		return msg, fmt.Errorf("failed to render HTML template %s: %w", name, err)
	}
	msg.HTML = buf.String()

	if r.text.Lookup(name+".txt") == nil {
		return msg, nil
	}
	buf.Reset()
	if err := r.text.ExecuteTemplate(&buf, name+".txt", data); err != nil {
		return msg, fmt.Errorf("failed to render text template %s: %w", name, err)
	}
	msg.Text = buf.String()

	return msg, nil
}

// WelcomeData fills welcome.html and welcome.txt.
type WelcomeData struct {
	UserName string
	AppURL   string
}

// GoalReachedData fills goal_reached.html and goal_reached.txt.
type GoalReachedData struct {
	UserName     string
	GoalName     string
	TargetAmount string
	AppURL       string
}
