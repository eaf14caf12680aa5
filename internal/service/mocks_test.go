package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"safe-harbor/internal/domain"
	"safe-harbor/internal/repository"
)

type mockUserRepo struct {
	mu           sync.Mutex
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := m.usersByEmail[key]; ok {
		return repository.ErrDuplicateEmail
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[key] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.usersByEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, email, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.usersByEmail[strings.ToLower(email)]
	if !ok {
		return pgx.ErrNoRows
	}
	user := m.usersByID[id]
	user.PasswordHash = passwordHash
	m.usersByID[id] = user
	return nil
}

type mockCounsellorRepo struct {
	mu           sync.Mutex
	byID         map[string]domain.CounsellorProfile
	idByEmail    map[string]string
	updateCalled int
}

func newMockCounsellorRepo() *mockCounsellorRepo {
	return &mockCounsellorRepo{
		byID:      make(map[string]domain.CounsellorProfile),
		idByEmail: make(map[string]string),
	}
}

func (m *mockCounsellorRepo) Create(_ context.Context, profile domain.CounsellorProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(profile.Email)
	if _, ok := m.idByEmail[key]; ok {
		return repository.ErrDuplicateEmail
	}
	m.byID[profile.ID] = profile
	m.idByEmail[key] = profile.ID
	return nil
}

func (m *mockCounsellorRepo) GetByID(_ context.Context, id string) (domain.CounsellorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.byID[id]
	if !ok {
		return domain.CounsellorProfile{}, pgx.ErrNoRows
	}
	return profile, nil
}

func (m *mockCounsellorRepo) GetByEmail(_ context.Context, email string) (domain.CounsellorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.idByEmail[strings.ToLower(email)]
	if !ok {
		return domain.CounsellorProfile{}, pgx.ErrNoRows
	}
	return m.byID[id], nil
}

func (m *mockCounsellorRepo) List(_ context.Context) ([]domain.CounsellorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var profiles []domain.CounsellorProfile
	for _, p := range m.byID {
		// el store proyecta fuera los campos sensibles
		p.Documents = domain.DocumentSet{}
		p.History = nil
		p.AdminApproved = false
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (m *mockCounsellorRepo) Update(_ context.Context, profile domain.CounsellorProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.byID[profile.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	m.updateCalled++
	if !strings.EqualFold(old.Email, profile.Email) {
		if _, taken := m.idByEmail[strings.ToLower(profile.Email)]; taken {
			return repository.ErrDuplicateEmail
		}
		delete(m.idByEmail, strings.ToLower(old.Email))
		m.idByEmail[strings.ToLower(profile.Email)] = profile.ID
	}
	m.byID[profile.ID] = profile
	return nil
}

func (m *mockCounsellorRepo) EmailInUseByOther(_ context.Context, email, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	otherID, ok := m.idByEmail[strings.ToLower(email)]
	return ok && otherID != id, nil
}

func (m *mockCounsellorRepo) LicenseInUseByOther(_ context.Context, license, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for otherID, p := range m.byID {
		if otherID != id && p.LicenseNumber != nil && *p.LicenseNumber == license {
			return true, nil
		}
	}
	return false, nil
}

// mockSignupStore escribe el par en ambos repos o en ninguno, como la
// transacción real.
type mockSignupStore struct {
	users       *mockUserRepo
	counsellors *mockCounsellorRepo
	failWith    error
}

func (m *mockSignupStore) CreateUserAndProfile(ctx context.Context, user domain.User, profile domain.CounsellorProfile) error {
	if m.failWith != nil {
		return m.failWith
	}
	if err := m.users.Create(ctx, user); err != nil {
		return err
	}
	if err := m.counsellors.Create(ctx, profile); err != nil {
		m.users.mu.Lock()
		delete(m.users.usersByID, user.ID)
		delete(m.users.usersByEmail, strings.ToLower(user.Email))
		m.users.mu.Unlock()
		return err
	}
	return nil
}

type mockUploader struct {
	uploaded []string
	failFor  map[string]bool
}

func (m *mockUploader) Upload(_ context.Context, _ string, originalName string) (string, error) {
	if m.failFor[originalName] {
		return "", errors.New("gateway unavailable")
	}
	m.uploaded = append(m.uploaded, originalName)
	return "https://files.example.com/" + originalName, nil
}

type mockEmailSender struct {
	lastName string
	lastTo   string
	lastCode string
	err      error
}

func (m *mockEmailSender) SendPasswordOTP(_ context.Context, name, toEmail, code string) error {
	m.lastName = name
	m.lastTo = toEmail
	m.lastCode = code
	return m.err
}
