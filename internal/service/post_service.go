package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yak/internal/models"
)

var (
	ErrNotPostOwner = errors.New("not the post owner")

	tagPattern     = regexp.MustCompile(`#(\w+)`)
	mentionPattern = regexp.MustCompile(`@(\w+)`)
)

type PostStore interface {
	Create(p *models.Post) error
	GetByID(id uint) (*models.Post, error)
	Update(p *models.Post) error
	Delete(id, userID uint) error
	ReplaceTags(p *models.Post, tags []models.Tag) error
}

type TagStore interface {
	GetOrCreate(name string) (*models.Tag, error)
}

type PostService struct {
	posts    PostStore
	tags     TagStore
	users    UserStore
	notifSvc *NotificationService
	logger   *zap.Logger
}

func NewPostService(posts PostStore, tags TagStore, users UserStore, notifSvc *NotificationService, logger *zap.Logger) *PostService {
	return &PostService{posts: posts, tags: tags, users: users, notifSvc: notifSvc, logger: logger}
}

// CreatePost persists the post, then runs the post-creation hooks: hashtag
// extraction from the description and mention notifications.
func (s *PostService) CreatePost(ctx context.Context, userID uint, title, description, thumbnailURL string) (*models.Post, error) {
	p := &models.Post{
		UserID:       userID,
		Title:        title,
		Description:  description,
		ThumbnailURL: thumbnailURL,
	}
	if err := s.posts.Create(p); err != nil {
		return nil, err
	}
	if err := s.relateTags(p); err != nil {
		return nil, err
	}
	s.notifyMentions(ctx, p.Description, userID, p.ID)
	return p, nil
}

// UpdatePost applies owner-only edits and re-runs tag extraction.
func (s *PostService) UpdatePost(ctx context.Context, userID, postID uint, title, description string) (*models.Post, error) {
	p, err := s.posts.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrNotPostOwner
	}
	p.Title = title
	p.Description = description
	if err := s.posts.Update(p); err != nil {
		return nil, err
	}
	if err := s.relateTags(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) DeletePost(userID, postID uint) error {
	p, err := s.posts.GetByID(postID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return ErrNotPostOwner
	}
	return s.posts.Delete(postID, userID)
}

// relateTags syncs the post's tag associations with the #tags in its
// description. Tag names are stored lower-cased without the '#'.
func (s *PostService) relateTags(p *models.Post) error {
	names := ExtractTags(p.Description)
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		t, err := s.tags.GetOrCreate(name)
		if err != nil {
			return err
		}
		tags = append(tags, *t)
	}
	return s.posts.ReplaceTags(p, tags)
}

// notifyMentions resolves @username mentions against real users and enqueues
// one mention notification each. Unknown names are ignored.
func (s *PostService) notifyMentions(ctx context.Context, text string, reporterID, postID uint) {
	for _, username := range ExtractMentions(text) {
		u, err := s.users.GetByUsername(username)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Warn("mention lookup failed", zap.String("username", username), zap.Error(err))
			}
			continue
		}
		s.notifSvc.NotifyMention(ctx, u.ID, reporterID, postID)
	}
}

// ExtractTags returns the distinct lower-cased #tag names in text, in order
// of first appearance.
func ExtractTags(text string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, m := range tagPattern.FindAllStringSubmatch(text, -1) {
		name := strings.ToLower(m[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ExtractMentions returns the distinct @usernames in text, in order of first
// appearance. Case is preserved; usernames are matched exactly.
func ExtractMentions(text string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}
