package service

import (
	"context"
	"sync"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/repository"
)

type chatCall struct {
	Operation string
	System    string
	User      string
}

// fakeChat answers every operation from replies, or with err.
type fakeChat struct {
	enabled bool
	replies map[string]string
	err     error

	mu    sync.Mutex
	calls []chatCall
}

func newFakeChat(replies map[string]string) *fakeChat {
	return &fakeChat{enabled: true, replies: replies}
}

func (f *fakeChat) Enabled() bool { return f.enabled }

func (f *fakeChat) ChatJSON(_ context.Context, operation, system, user string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, chatCall{Operation: operation, System: system, User: user})
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.replies[operation], nil
}

func (f *fakeChat) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*model.Notification
}

func (p *fakePublisher) Publish(_ context.Context, n *model.Notification) {
	p.mu.Lock()
	p.published = append(p.published, n)
	p.mu.Unlock()
}

// fakeSearchStore records filters and search logs.
type fakeSearchStore struct {
	listings []model.Listing
	err      error

	mu       sync.Mutex
	filters  []model.SearchFilter
	logs     []*model.SearchLog
	feedback []string
}

func (s *fakeSearchStore) SearchListings(_ context.Context, f model.SearchFilter) ([]model.Listing, error) {
	s.mu.Lock()
	s.filters = append(s.filters, f)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.Listing, len(s.listings))
	copy(out, s.listings)
	return out, nil
}

func (s *fakeSearchStore) LogSearch(_ context.Context, entry *model.SearchLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	return nil
}

func (s *fakeSearchStore) LogFeedback(_ context.Context, searchID, listingID, action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.logs {
		if l.ID == searchID {
			s.feedback = append(s.feedback, searchID+":"+listingID+":"+action)
			return nil
		}
	}
	return repository.ErrNotFound
}

// memoryUsers is an in-memory UserStore.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*model.User{}}
}

func (m *memoryUsers) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memoryUsers) setStatus(id string, status model.UserStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].Status = status
}

// memorySettings is an in-memory SettingStore.
type memorySettings struct {
	values map[string]model.Setting
}

func (m *memorySettings) ListSettings(_ context.Context) ([]model.Setting, error) {
	out := []model.Setting{}
	for _, s := range m.values {
		out = append(out, s)
	}
	return out, nil
}

func (m *memorySettings) UpsertSetting(_ context.Context, s *model.Setting) error {
	if m.values == nil {
		m.values = map[string]model.Setting{}
	}
	m.values[s.Key] = *s
	return nil
}

func listing(id, title string) model.Listing {
	return model.Listing{ID: id, Title: title, Description: title + " for rent", Category: "Tools", Status: model.ListingActive, Available: true}
}

func strPtr(s string) *string { return &s }

func float64Ptr(v float64) *float64 { return &v }
