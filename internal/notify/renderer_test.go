package notify

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yak/internal/models"
)

type extraSubject struct {
	name  string
	extra map[string]string
}

func (s *extraSubject) Identifier() string { return s.name }

func (s *extraSubject) ExtraNotificationParams() map[string]string { return s.extra }

func newTestRenderer() *Renderer {
	return NewRenderer(fstest.MapFS{
		"notifications/push/follow.html":  {Data: []byte("started following you")},
		"notifications/email/follow.html": {Data: []byte(`<a href="https://{{.domain}}/u/{{.identifier}}">{{.reporter}}</a> follows you`)},
		"notifications/push/digest":       {Data: []byte("{{.count}} new events for {{.identifier}}")},
	}, "yak.example.com")
}

func TestRenderSubstitutesContext(t *testing.T) {
	r := newTestRenderer()
	subject := &models.User{Username: "alice"}
	reporter := &models.User{Username: "bob"}

	out, err := r.Render("email", "follow", nil, subject, reporter)
	require.NoError(t, err)
	assert.Equal(t, `<a href="https://yak.example.com/u/alice">bob</a> follows you`, out)
}

func TestRenderOverrideWinsOverSlug(t *testing.T) {
	r := newTestRenderer()
	override := "digest"
	subject := &extraSubject{name: "alice", extra: map[string]string{"count": "7"}}

	out, err := r.Render("push", "follow", &override, subject, nil)
	require.NoError(t, err)
	assert.Equal(t, "7 new events for alice", out)
}

func TestRenderEmptyOverrideFallsBackToSlug(t *testing.T) {
	r := newTestRenderer()
	override := ""

	out, err := r.Render("push", "follow", &override, &models.User{Username: "alice"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "started following you", out)
}

func TestRenderMissingTemplate(t *testing.T) {
	r := newTestRenderer()

	_, err := r.Render("push", "no-such-type", nil, &models.User{Username: "alice"}, nil)
	require.Error(t, err)

	var notFound *TemplateNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "notifications/push/no-such-type.html", notFound.Name)
}

func TestPushMessageReporterPrefix(t *testing.T) {
	r := newTestRenderer()
	reporter := &models.User{Username: "bob"}

	out, err := r.PushMessage("follow", nil, &models.User{Username: "alice"}, reporter)
	require.NoError(t, err)
	assert.Equal(t, "bob started following you", out)

	out, err = r.PushMessage("follow", nil, &models.User{Username: "alice"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "started following you", out)
}
