package notify

import (
	"fmt"
	"sync"
)

// Subject is anything a notification can be about. E.g. when someone likes a
// post, the subject is the Post, not the Like.
type Subject interface {
	Identifier() string
}

// ExtraParamsProvider lets a subject feed additional key/value pairs into the
// template context.
type ExtraParamsProvider interface {
	ExtraNotificationParams() map[string]string
}

// SubjectRef references a subject polymorphically by type tag and row id.
// It is what gets persisted on the notification and serialized onto the queue.
type SubjectRef struct {
	Type string `json:"type"`
	ID   uint   `json:"id"`
}

// SubjectResolver loads the subject entity behind a ref.
type SubjectResolver func(id uint) (Subject, error)

// SubjectRegistry maps subject type tags to resolvers. Registration happens
// once at startup; lookups are concurrent.
type SubjectRegistry struct {
	mu        sync.RWMutex
	resolvers map[string]SubjectResolver
}

func NewSubjectRegistry() *SubjectRegistry {
	return &SubjectRegistry{resolvers: make(map[string]SubjectResolver)}
}

func (r *SubjectRegistry) Register(typeTag string, resolver SubjectResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[typeTag] = resolver
}

func (r *SubjectRegistry) Resolve(ref SubjectRef) (Subject, error) {
	r.mu.RLock()
	resolver, ok := r.resolvers[ref.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no subject resolver registered for type %q", ref.Type)
	}
	return resolver(ref.ID)
}
