package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryProvider is an in-memory Provider for tests and local development.
// Tokens are the UID itself, which keeps handler tests free of real JWTs.
type MemoryProvider struct {
	mu      sync.Mutex
	byUID   map[string]*User
	byEmail map[string]string

	// FailCreate, when set, makes CreateUser return that error.
	FailCreate error
	// NextUID, when set, is consumed as the uid of the next created user.
	NextUID string
	// Deleted records uids removed via DeleteUser, in order.
	Deleted []string
}

// NewMemoryProvider creates an empty in-memory identity provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		byUID:   make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (p *MemoryProvider) CreateUser(ctx context.Context, email, password, displayName string) (*User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailCreate != nil {
		return nil, p.FailCreate
	}
	if _, ok := p.byEmail[email]; ok {
		return nil, ErrEmailAlreadyExists
	}

	uid := p.NextUID
	p.NextUID = ""
	if uid == "" {
		uid = uuid.NewString()
	}

	u := &User{UID: uid, Email: email, DisplayName: displayName}
	p.byUID[u.UID] = u
	p.byEmail[email] = u.UID
	return u, nil
}

func (p *MemoryProvider) DeleteUser(ctx context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.byUID[uid]
	if !ok {
		return ErrUserNotFound
	}
	delete(p.byUID, uid)
	delete(p.byEmail, u.Email)
	p.Deleted = append(p.Deleted, uid)
	return nil
}

func (p *MemoryProvider) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.byUID[idToken]; !ok {
		return "", ErrInvalidToken
	}
	return idToken, nil
}

func (p *MemoryProvider) PasswordResetLink(ctx context.Context, email string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.byEmail[email]; !ok {
		return "", ErrUserNotFound
	}
	return "https://auth.example.com/reset?email=" + email, nil
}

// Has reports whether an identity exists for the uid.
func (p *MemoryProvider) Has(uid string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.byUID[uid]
	return ok
}
