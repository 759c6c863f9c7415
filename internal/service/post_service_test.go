package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yak/internal/models"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"no tags", "just a plain sentence", nil},
		{"single tag", "check out #golang", []string{"golang"}},
		{"multiple tags", "#go and #backend and #go again", []string{"go", "backend"}},
		{"case folded", "#Go #GO #go", []string{"go"}},
		{"tag with digits", "#web3 is here", []string{"web3"}},
		{"bare hash ignored", "a # alone", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTags(tt.text))
		})
	}
}

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"no mentions", "nothing here", nil},
		{"single mention", "hey @alice look", []string{"alice"}},
		{"deduplicated", "@bob @bob @alice", []string{"bob", "alice"}},
		{"case preserved", "thanks @Alice", []string{"Alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMentions(tt.text))
		})
	}
}

type mockPostStore struct {
	posts  map[uint]*models.Post
	tagged map[uint][]models.Tag
	nextID uint
}

func newMockPostStore() *mockPostStore {
	return &mockPostStore{posts: make(map[uint]*models.Post), tagged: make(map[uint][]models.Tag)}
}

func (m *mockPostStore) Create(p *models.Post) error {
	m.nextID++
	p.ID = m.nextID
	m.posts[p.ID] = p
	return nil
}

func (m *mockPostStore) GetByID(id uint) (*models.Post, error) {
	if p, ok := m.posts[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPostStore) Update(p *models.Post) error {
	m.posts[p.ID] = p
	return nil
}

func (m *mockPostStore) Delete(id, _ uint) error {
	delete(m.posts, id)
	return nil
}

func (m *mockPostStore) ReplaceTags(p *models.Post, tags []models.Tag) error {
	m.tagged[p.ID] = tags
	return nil
}

type mockTagStore struct {
	tags   map[string]*models.Tag
	nextID uint
}

func newMockTagStore() *mockTagStore {
	return &mockTagStore{tags: make(map[string]*models.Tag)}
}

func (m *mockTagStore) GetOrCreate(name string) (*models.Tag, error) {
	if tag, ok := m.tags[name]; ok {
		return tag, nil
	}
	m.nextID++
	tag := &models.Tag{ID: m.nextID, Name: name}
	m.tags[name] = tag
	return tag, nil
}

type mockUserStore struct {
	byUsername map[string]*models.User
	nextID     uint
}

func newMockUserStore(users ...*models.User) *mockUserStore {
	m := &mockUserStore{byUsername: make(map[string]*models.User)}
	for _, u := range users {
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
		m.byUsername[u.Username] = u
	}
	return m
}

func (m *mockUserStore) Create(u *models.User) error {
	m.nextID++
	u.ID = m.nextID
	m.byUsername[u.Username] = u
	return nil
}

func (m *mockUserStore) GetByID(id uint) (*models.User, error) {
	for _, u := range m.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserStore) GetByEmail(email string) (*models.User, error) {
	for _, u := range m.byUsername {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserStore) GetByUsername(username string) (*models.User, error) {
	if u, ok := m.byUsername[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserStore) GetByGoogleID(googleID string) (*models.User, error) {
	for _, u := range m.byUsername {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserStore) Update(u *models.User) error {
	m.byUsername[u.Username] = u
	return nil
}

func newPostFixture() (*PostService, *mockPostStore, *recordingEnqueuer) {
	posts := newMockPostStore()
	enq := &recordingEnqueuer{}
	notifSvc := NewNotificationService(&mockTypeLister{}, &mockSettingStore{},
		&mockTokenStore{}, &mockProvider{}, enq, zap.NewNop())
	users := newMockUserStore(
		&models.User{ID: 1, Username: "alice"},
		&models.User{ID: 2, Username: "bob"},
	)
	svc := NewPostService(posts, newMockTagStore(), users, notifSvc, zap.NewNop())
	return svc, posts, enq
}

func TestCreatePostRelatesTags(t *testing.T) {
	svc, posts, _ := newPostFixture()

	p, err := svc.CreatePost(context.Background(), 1, "My Post", "about #Go and #testing", "")
	require.NoError(t, err)

	tags := posts.tagged[p.ID]
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0].Name)
	assert.Equal(t, "testing", tags[1].Name)
}

func TestCreatePostNotifiesMentions(t *testing.T) {
	svc, _, enq := newPostFixture()

	_, err := svc.CreatePost(context.Background(), 1, "My Post", "shoutout to @bob and @nobody", "")
	require.NoError(t, err)

	require.Len(t, enq.tasks, 1, "unknown usernames are skipped")
	assert.Equal(t, uint(2), enq.tasks[0].ReceiverID)
	assert.Equal(t, "mention", enq.tasks[0].TypeSlug)
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	svc, posts, _ := newPostFixture()

	p, err := svc.CreatePost(context.Background(), 1, "Mine", "text", "")
	require.NoError(t, err)

	_, err = svc.UpdatePost(context.Background(), 2, p.ID, "Stolen", "text")
	assert.ErrorIs(t, err, ErrNotPostOwner)

	updated, err := svc.UpdatePost(context.Background(), 1, p.ID, "Renamed", "now with #tags")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	require.Len(t, posts.tagged[p.ID], 1)
	assert.Equal(t, "tags", posts.tagged[p.ID][0].Name)
}

func TestDeletePostOwnerOnly(t *testing.T) {
	svc, posts, _ := newPostFixture()

	p, err := svc.CreatePost(context.Background(), 1, "Mine", "text", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeletePost(2, p.ID), ErrNotPostOwner)
	require.NoError(t, svc.DeletePost(1, p.ID))
	_, err = posts.GetByID(p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
