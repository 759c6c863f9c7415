package notify

import (
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"yak/internal/domain"
	"yak/internal/models"
)

// Renderer turns a notification into channel-specific text. Templates live
// under notifications/<channel>/<name> in the given filesystem, where name is
// the per-notification override if set, else "<type-slug>.html".
type Renderer struct {
	templates fs.FS
	domain    string
}

func NewRenderer(templates fs.FS, siteDomain string) *Renderer {
	return &Renderer{templates: templates, domain: siteDomain}
}

// Render builds the substitution context and executes the template for the
// given channel. Missing keys render empty; a missing template is a
// TemplateNotFoundError.
func (r *Renderer) Render(channel string, typeSlug string, override *string, subject Subject, reporter *models.User) (string, error) {
	data := map[string]string{
		"domain": r.domain,
	}
	if subject != nil {
		data["identifier"] = subject.Identifier()
		if extra, ok := subject.(ExtraParamsProvider); ok {
			for k, v := range extra.ExtraNotificationParams() {
				data[k] = v
			}
		}
	}
	if reporter != nil {
		data["reporter"] = reporter.Identifier()
	}

	name := fmt.Sprintf("%s.html", typeSlug)
	if override != nil && *override != "" {
		name = *override
	}
	path := fmt.Sprintf("notifications/%s/%s", channel, name)

	content, err := fs.ReadFile(r.templates, path)
	if err != nil {
		return "", &TemplateNotFoundError{Name: path}
	}
	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", path, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", path, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// PushMessage renders the push body and prefixes the reporter's display
// string when one is present.
func (r *Renderer) PushMessage(typeSlug string, override *string, subject Subject, reporter *models.User) (string, error) {
	message, err := r.Render(domain.ChannelPush, typeSlug, override, subject, reporter)
	if err != nil {
		return "", err
	}
	if reporter != nil {
		return fmt.Sprintf("%s %s", reporter.Identifier(), message), nil
	}
	return message, nil
}

// EmailMessage renders the email body (HTML).
func (r *Renderer) EmailMessage(typeSlug string, override *string, subject Subject, reporter *models.User) (string, error) {
	return r.Render(domain.ChannelEmail, typeSlug, override, subject, reporter)
}
