package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yak/config"
	"yak/internal/models"
)

type mockNotificationStore struct {
	created []*models.Notification
}

func (m *mockNotificationStore) Create(n *models.Notification) error {
	n.ID = uint(len(m.created) + 1)
	m.created = append(m.created, n)
	return nil
}

type mockSettingStore struct {
	settings map[[2]uint]*models.NotificationSetting
}

func (m *mockSettingStore) GetByTypeAndUser(typeID, userID uint) (*models.NotificationSetting, error) {
	if s, ok := m.settings[[2]uint{typeID, userID}]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockTypeStore struct {
	types map[string]*models.NotificationType
}

func (m *mockTypeStore) GetBySlug(slug string) (*models.NotificationType, error) {
	if t, ok := m.types[slug]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockUserStore struct {
	users map[uint]*models.User
}

func (m *mockUserStore) GetByID(id uint) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockPushBackend struct {
	sent []string
	err  error
}

func (m *mockPushBackend) RegisterDevice(_ context.Context, _, _, _, _ string) (json.RawMessage, error) {
	return json.RawMessage(`{"status_code":200}`), nil
}

func (m *mockPushBackend) SendPush(_ context.Context, _ uint, message, _ string) (json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, message)
	return json.RawMessage(`{"status_code":200}`), nil
}

type mockEmailSender struct {
	sent []string
	err  error
}

func (m *mockEmailSender) Send(to, htmlMessage, replyTo string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+": "+htmlMessage)
	return nil
}

type dispatchFixture struct {
	dispatcher    *Dispatcher
	notifications *mockNotificationStore
	settings      *mockSettingStore
	push          *mockPushBackend
	email         *mockEmailSender
}

func newDispatchFixture(t *testing.T, notifCfg config.NotificationConfig) *dispatchFixture {
	t.Helper()

	templates := fstest.MapFS{
		"notifications/push/like.html":  {Data: []byte("liked your post {{.identifier}}")},
		"notifications/email/like.html": {Data: []byte("<p><strong>{{.reporter}}</strong> liked your post {{.identifier}}</p>")},
		"notifications/push/custom":     {Data: []byte("custom push about {{.identifier}}")},
		"notifications/email/custom":    {Data: []byte("custom email about {{.identifier}}")},
	}

	subjects := NewSubjectRegistry()
	subjects.Register("post", func(id uint) (Subject, error) {
		return &models.Post{ID: id, Title: "Hello World"}, nil
	})

	notifications := &mockNotificationStore{}
	settings := &mockSettingStore{settings: map[[2]uint]*models.NotificationSetting{
		{1, 10}: {NotificationTypeID: 1, UserID: 10, AllowPush: true, AllowEmail: true},
	}}
	types := &mockTypeStore{types: map[string]*models.NotificationType{
		"like": {ID: 1, Slug: "like", Name: "Like", IsActive: true},
	}}
	users := &mockUserStore{users: map[uint]*models.User{
		10: {ID: 10, Username: "alice", Email: "alice@example.com"},
		20: {ID: 20, Username: "bob", Email: "bob@example.com"},
	}}
	push := &mockPushBackend{}
	email := &mockEmailSender{}

	d := NewDispatcher(&notifCfg, notifications, settings, types, users, subjects,
		NewRenderer(templates, "example.com"), push, email, nil, zap.NewNop())

	return &dispatchFixture{
		dispatcher:    d,
		notifications: notifications,
		settings:      settings,
		push:          push,
		email:         email,
	}
}

func uintPtr(v uint) *uint { return &v }

func TestCreateNotificationDeliversBothChannels(t *testing.T) {
	f := newDispatchFixture(t, config.NotificationConfig{AllowPush: true, AllowEmail: true})

	err := f.dispatcher.CreateNotification(context.Background(), 10, uintPtr(20),
		SubjectRef{Type: "post", ID: 5}, "like", nil, "")
	require.NoError(t, err)

	require.Len(t, f.notifications.created, 1)
	record := f.notifications.created[0]
	assert.Equal(t, uint(10), record.UserID)
	assert.Equal(t, uint(20), *record.ReporterID)
	assert.Equal(t, "post", record.SubjectType)
	assert.Equal(t, uint(5), record.SubjectID)

	require.Len(t, f.push.sent, 1)
	assert.Equal(t, "bob liked your post Hello World", f.push.sent[0])

	require.Len(t, f.email.sent, 1)
	assert.Contains(t, f.email.sent[0], "alice@example.com")
	assert.Contains(t, f.email.sent[0], "<strong>bob</strong> liked your post Hello World")
}

func TestCreateNotificationSelfIsNoOp(t *testing.T) {
	f := newDispatchFixture(t, config.NotificationConfig{AllowPush: true, AllowEmail: true})

	err := f.dispatcher.CreateNotification(context.Background(), 10, uintPtr(10),
		SubjectRef{Type: "post", ID: 5}, "like", nil, "")
	require.NoError(t, err)

	assert.Empty(t, f.notifications.created, "self notification must not create a record")
	assert.Empty(t, f.push.sent)
	assert.Empty(t, f.email.sent)
}

func TestCreateNotificationMissingSettingFailsLoudly(t *testing.T) {
	f := newDispatchFixture(t, config.NotificationConfig{AllowPush: true, AllowEmail: true})
	f.settings.settings = map[[2]uint]*models.NotificationSetting{}

	err := f.dispatcher.CreateNotification(context.Background(), 10, uintPtr(20),
		SubjectRef{Type: "post", ID: 5}, "like", nil, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSettingMissing))

	// The record is persisted before the preference check and survives it.
	assert.Len(t, f.notifications.created, 1)
}

func TestCreateNotificationRespectsUserPreference(t *testing.T) {
	f := newDispatchFixture(t, config.NotificationConfig{AllowPush: true, AllowEmail: true})
	f.settings.settings[[2]uint{1, 10}].AllowPush = false

	err := f.dispatcher.CreateNotification(context.Background(), 10, uintPtr(20),
		SubjectRef{Type: "post", ID: 5}, "like", nil, "")
	require.NoError(t, err)

	assert.Empty(t, f.push.sent, "push disabled by user setting")
	assert.Len(t, f.email.sent, 1)
	assert.Len(t, f.notifications.created, 1)
}

func TestCreateNotificationRespectsGlobalSwitch(t *testing.T) {
	f := newDispatchFixture(t, config.NotificationConfig{AllowPush: false, AllowEmail: false})

	err := f.dispatcher.CreateNotification(context.Background(), 10, uintPtr(20),
		SubjectRef{Type: "post", ID: 5}, "like", nil, "")
	require.NoError(t, err)

	assert.Empty(t, f.push.sent)
	assert.Empty(t, f.email.sent)
	assert.Len(t, f.notifications.created, 1, "record is persisted even when no channel fires")
}

func TestCreateNotificationPushFailureKeepsRecord(t *testing.T) {
	f := newDispatchFixture(t, config.NotificationConfig{AllowPush: true, AllowEmail: true})
	f.push.err = &NotificationDeliveryError{Response: []byte(`{"status_code":500}`)}

	err := f.dispatcher.CreateNotification(context.Background(), 10, uintPtr(20),
		SubjectRef{Type: "post", ID: 5}, "like", nil, "")
	require.Error(t, err)

	var deliveryErr *NotificationDeliveryError
	assert.True(t, errors.As(err, &deliveryErr))
	assert.Len(t, f.notifications.created, 1, "delivery failure must not roll back the record")
	assert.Empty(t, f.email.sent, "email is skipped when push fails")
}

func TestCreateNotificationTemplateOverride(t *testing.T) {
	f := newDispatchFixture(t, config.NotificationConfig{AllowPush: true, AllowEmail: true})

	override := "custom"
	err := f.dispatcher.CreateNotification(context.Background(), 10, uintPtr(20),
		SubjectRef{Type: "post", ID: 5}, "like", &override, "")
	require.NoError(t, err)

	require.Len(t, f.push.sent, 1)
	assert.Equal(t, "bob custom push about Hello World", f.push.sent[0])
}

func TestCreateNotificationUnknownTypeFails(t *testing.T) {
	f := newDispatchFixture(t, config.NotificationConfig{AllowPush: true, AllowEmail: true})

	err := f.dispatcher.CreateNotification(context.Background(), 10, uintPtr(20),
		SubjectRef{Type: "post", ID: 5}, "no-such-type", nil, "")
	require.Error(t, err)
	assert.Empty(t, f.notifications.created)
}

type recordingBroadcaster struct {
	payloads []interface{}
}

func (b *recordingBroadcaster) NotifyUser(_ uint, payload interface{}) {
	b.payloads = append(b.payloads, payload)
}

func TestCreateNotificationHubOnlySkipsReceiverLoad(t *testing.T) {
	notifications := &mockNotificationStore{}
	settings := &mockSettingStore{settings: map[[2]uint]*models.NotificationSetting{
		{1, 10}: {NotificationTypeID: 1, UserID: 10, AllowPush: true, AllowEmail: true},
	}}
	types := &mockTypeStore{types: map[string]*models.NotificationType{
		"like": {ID: 1, Slug: "like", Name: "Like", IsActive: true},
	}}
	hub := &recordingBroadcaster{}

	// Both channels off: the in-app broadcast must go out even when the
	// receiver row cannot be loaded.
	d := NewDispatcher(&config.NotificationConfig{}, notifications, settings, types,
		&mockUserStore{users: map[uint]*models.User{}}, NewSubjectRegistry(),
		NewRenderer(fstest.MapFS{}, "example.com"), nil, nil, hub, zap.NewNop())

	err := d.CreateNotification(context.Background(), 10, uintPtr(20),
		SubjectRef{Type: "post", ID: 5}, "like", nil, "")
	require.NoError(t, err)
	assert.Len(t, notifications.created, 1)
	require.Len(t, hub.payloads, 1)
}

func TestCreateNotificationNoReporter(t *testing.T) {
	f := newDispatchFixture(t, config.NotificationConfig{AllowPush: true, AllowEmail: false})

	err := f.dispatcher.CreateNotification(context.Background(), 10, nil,
		SubjectRef{Type: "post", ID: 5}, "like", nil, "")
	require.NoError(t, err)

	require.Len(t, f.push.sent, 1)
	assert.Equal(t, "liked your post Hello World", f.push.sent[0], "no reporter prefix without a reporter")
}
