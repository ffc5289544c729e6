package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests
// ---------------------------------------------------------------------------

type stubCredRepo struct {
	mu      sync.Mutex
	byUID   map[string]*domain.Credential
	findErr error
	marked  []string
}

func newStubCredRepo() *stubCredRepo {
	return &stubCredRepo{byUID: make(map[string]*domain.Credential)}
}

func (r *stubCredRepo) FindByEmail(_ context.Context, email string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, c := range r.byUID {
		if c.Email == email {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubCredRepo) FindByUID(_ context.Context, uid string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byUID[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCredRepo) Create(_ context.Context, cred *domain.Credential) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byUID {
		if c.Email == cred.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := *cred
	r.byUID[cred.UID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCredRepo) UpdateProfile(_ context.Context, uid, displayName, photoURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byUID[uid]
	if !ok {
		return domain.ErrUserNotFound
	}
	c.DisplayName = displayName
	c.PhotoURL = photoURL
	return nil
}

func (r *stubCredRepo) MarkVerificationSent(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marked = append(r.marked, uid)
	return nil
}

type stubRevocation struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newStubRevocation() *stubRevocation {
	return &stubRevocation{revoked: make(map[string]time.Duration)}
}

func (r *stubRevocation) Revoke(_ context.Context, id string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[id] = ttl
	return nil
}

func (r *stubRevocation) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[id]
	return ok, nil
}

type stubMailer struct {
	sent []domain.VerificationMessage
	err  error
}

func (m *stubMailer) SendVerification(_ context.Context, msg domain.VerificationMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubUserStore struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	patches   map[string][]domain.UserPatch
	deleted   []string
	nextID    int
	getErr    error
	writeErr  error
	updateErr error
}

func newStubUserStore(users ...*domain.User) *stubUserStore {
	s := &stubUserStore{
		users:   make(map[string]*domain.User),
		patches: make(map[string][]domain.UserPatch),
	}
	for _, u := range users {
		clone := *u
		s.users[u.ID] = &clone
	}
	return s
}

func (s *stubUserStore) Get(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *stubUserStore) Set(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *stubUserStore) Update(_ context.Context, id string, patch domain.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.patches[id] = append(s.patches[id], patch)
	return nil
}

func (s *stubUserStore) Push(_ context.Context, user *domain.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return "", s.writeErr
	}
	s.nextID++
	id := "pushed-" + strconv.Itoa(s.nextID)
	clone := *user
	clone.ID = id
	s.users[id] = &clone
	return id, nil
}

func (s *stubUserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	delete(s.users, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubUserStore) List(context.Context, int) ([]*domain.User, error) { return nil, nil }

func (s *stubUserStore) Watch(context.Context) (<-chan domain.Change, error) { return nil, nil }

type stubRegLog struct {
	events []domain.RegistrationEvent
	err    error
}

func (l *stubRegLog) Append(_ context.Context, ev domain.RegistrationEvent) error {
	if l.err != nil {
		return l.err
	}
	l.events = append(l.events, ev)
	return nil
}

// stubAuth is a scripted AuthProvider for the flows built on top of it.
type stubAuth struct {
	identity   *domain.Identity
	session    *domain.Session
	signUpErr  error
	signInErr  error
	profileErr error
	verifyErr  error

	profiles  map[string]string
	verified  []string
	signedOut []string
}

func newStubAuth() *stubAuth {
	return &stubAuth{profiles: make(map[string]string)}
}

func (a *stubAuth) SignUp(_ context.Context, email, _ string) (*domain.Identity, error) {
	if a.signUpErr != nil {
		return nil, a.signUpErr
	}
	if a.identity != nil {
		return a.identity, nil
	}
	return &domain.Identity{UID: "uid-1", Email: email, Provider: providerPassword}, nil
}

func (a *stubAuth) SignIn(context.Context, string, string) (*domain.Session, error) {
	if a.signInErr != nil {
		return nil, a.signInErr
	}
	return a.session, nil
}

func (a *stubAuth) SignInFederated(context.Context, string) (*domain.Session, error) {
	if a.signInErr != nil {
		return nil, a.signInErr
	}
	return a.session, nil
}

func (a *stubAuth) SignOut(_ context.Context, token string) error {
	a.signedOut = append(a.signedOut, token)
	return nil
}

func (a *stubAuth) UpdateProfile(_ context.Context, uid, displayName, _ string) error {
	if a.profileErr != nil {
		return a.profileErr
	}
	a.profiles[uid] = displayName
	return nil
}

func (a *stubAuth) SendEmailVerification(_ context.Context, uid string) error {
	if a.verifyErr != nil {
		return a.verifyErr
	}
	a.verified = append(a.verified, uid)
	return nil
}

func (a *stubAuth) Verify(context.Context, string) (*domain.Identity, error) {
	if a.session == nil {
		return nil, domain.NewAuthError(domain.AuthInvalidIDToken, nil)
	}
	return &a.session.Identity, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
