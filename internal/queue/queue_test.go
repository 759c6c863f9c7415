package queue

import (
	"context"
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yak/config"
	"yak/internal/models"
	"yak/internal/notify"
)

type stubNotificationStore struct {
	created int
}

func (s *stubNotificationStore) Create(n *models.Notification) error {
	s.created++
	n.ID = uint(s.created)
	return nil
}

type stubSettingStore struct{}

func (stubSettingStore) GetByTypeAndUser(typeID, userID uint) (*models.NotificationSetting, error) {
	return &models.NotificationSetting{NotificationTypeID: typeID, UserID: userID}, nil
}

type stubTypeStore struct{}

func (stubTypeStore) GetBySlug(slug string) (*models.NotificationType, error) {
	if slug != "like" {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.NotificationType{ID: 1, Slug: slug}, nil
}

type stubUserStore struct{}

func (stubUserStore) GetByID(id uint) (*models.User, error) {
	return &models.User{ID: id, Username: "u"}, nil
}

func newTestDispatcher(store *stubNotificationStore) *notify.Dispatcher {
	return notify.NewDispatcher(
		&config.NotificationConfig{},
		store, stubSettingStore{}, stubTypeStore{}, stubUserStore{},
		notify.NewSubjectRegistry(),
		notify.NewRenderer(fstest.MapFS{}, "example.com"),
		nil, nil, nil, zap.NewNop(),
	)
}

func TestInlineEnqueuerDispatchesSynchronously(t *testing.T) {
	store := &stubNotificationStore{}
	enq := NewInlineEnqueuer(newTestDispatcher(store))

	reporter := uint(20)
	err := enq.EnqueueNotification(context.Background(), NotificationTask{
		ReceiverID: 10,
		ReporterID: &reporter,
		Subject:    notify.SubjectRef{Type: "post", ID: 5},
		TypeSlug:   "like",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.created)
}

func TestHandleNotificationTaskRoundTrip(t *testing.T) {
	store := &stubNotificationStore{}
	handler := handleNotificationTask(newTestDispatcher(store), zap.NewNop())

	reporter := uint(20)
	task := NotificationTask{
		ReceiverID: 10,
		ReporterID: &reporter,
		Subject:    notify.SubjectRef{Type: "post", ID: 5},
		TypeSlug:   "like",
	}
	payload, err := json.Marshal(task)
	require.NoError(t, err)

	err = handler(context.Background(), asynq.NewTask(TypeNotificationDeliver, payload))
	require.NoError(t, err)
	assert.Equal(t, 1, store.created)
}

func TestHandleNotificationTaskBadPayload(t *testing.T) {
	handler := handleNotificationTask(newTestDispatcher(&stubNotificationStore{}), zap.NewNop())

	err := handler(context.Background(), asynq.NewTask(TypeNotificationDeliver, []byte("not json")))
	require.Error(t, err)
	// The payload can never become valid, so asynq must not retry it.
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
