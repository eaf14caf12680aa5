package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"safe-harbor/internal/domain"
	"safe-harbor/internal/repository"
	"safe-harbor/internal/service"
)

const (
	testProfileID = "11111111-1111-1111-1111-111111111111"
	otherProfileID = "22222222-2222-2222-2222-222222222222"
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
	mu        sync.Mutex
	byID      map[string]domain.CounsellorProfile
	idByEmail map[string]string
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

type mockSignupStore struct {
	users       *mockUserRepo
	counsellors *mockCounsellorRepo
}

func (m *mockSignupStore) CreateUserAndProfile(ctx context.Context, user domain.User, profile domain.CounsellorProfile) error {
	if err := m.users.Create(ctx, user); err != nil {
		return err
	}
	return m.counsellors.Create(ctx, profile)
}

type mockUploader struct{}

func (m *mockUploader) Upload(_ context.Context, _ string, originalName string) (string, error) {
	return "https://files.example.com/" + originalName, nil
}

type mockEmailSender struct {
	lastTo   string
	lastCode string
	err      error
}

func (m *mockEmailSender) SendPasswordOTP(_ context.Context, _ string, toEmail, code string) error {
	m.lastTo = toEmail
	m.lastCode = code
	return m.err
}

type testEnv struct {
	router      *gin.Engine
	users       *mockUserRepo
	counsellors *mockCounsellorRepo
	sender      *mockEmailSender
	otpServ     *service.OTPService
	jwtServ     *service.JWTService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newMockUserRepo()
	counsellors := newMockCounsellorRepo()
	sender := &mockEmailSender{}

	counsellorSvc := service.NewCounsellorService(
		zap.NewNop(), users, counsellors,
		&mockSignupStore{users: users, counsellors: counsellors},
		&mockUploader{},
	)
	otpSvc := service.NewOTPService(zap.NewNop(), nil, sender, nil)
	jwtSvc := service.NewJWTService("test-secret", time.Hour)

	handler := NewCounsellorHandler(zap.NewNop(), counsellorSvc, otpSvc, jwtSvc, false)
	router := NewRouter(zap.NewNop(), handler, jwtSvc)

	return &testEnv{
		router:      router,
		users:       users,
		counsellors: counsellors,
		sender:      sender,
		otpServ:     otpSvc,
		jwtServ:     jwtSvc,
	}
}

func (e *testEnv) seedCounsellor(t *testing.T, approved bool) (domain.User, domain.CounsellorProfile) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	user := domain.User{
		ID:           "u1",
		Email:        "counsellor@example.com",
		PasswordHash: string(hash),
		Fullname:     "Test Counsellor",
		Role:         domain.RoleCounsellor,
	}
	docURL := "https://files.example.com/id.png"
	profile := domain.CounsellorProfile{
		ID:            testProfileID,
		UserID:        "u1",
		Fullname:      "Test Counsellor",
		Email:         "counsellor@example.com",
		Documents:     domain.DocumentSet{GovernmentID: &docURL},
		History:       []domain.HistoryEntry{{Action: "signup", At: time.Now().UTC()}},
		AdminApproved: approved,
		IsActive:      true,
	}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	if err := e.counsellors.Create(context.Background(), profile); err != nil {
		t.Fatalf("seed profile failed: %v", err)
	}
	return user, profile
}

func performRequest(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func signupForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func validSignupFields() map[string]string {
	return map[string]string{
		"fullname":           "Asha Rao",
		"email":              "asha@example.com",
		"password":           "very-secret-1",
		"contact_number":     "+911234567890",
		"dob":                "1990-04-12",
		"gender":             "female",
		"preferred_language": "en",
		"timezone":           "Asia/Kolkata",
		"counselling_type":   "individual",
		"specialties":        "anxiety",
		"bio":                "Experienced counsellor",
		"years_experience":   "8",
		"languages":          "en",
		"hourly_rate":        "45",
		"session_type":       "video",
	}
}

func TestSignupHandler_NoFiles(t *testing.T) {
	env := setupEnv(t)

	buf, contentType := signupForm(t, validSignupFields())
	req := httptest.NewRequest(http.MethodPost, "/api/counsellors/signup", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Profile domain.CounsellorProfile `json:"profile"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	for _, kind := range domain.DocumentKinds() {
		if resp.Profile.Documents.Get(kind) != nil {
			t.Fatalf("expected %s to be null", kind)
		}
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Fatalf("response must not expose the password hash")
	}
}

func TestSignupHandler_ValidationErrors(t *testing.T) {
	env := setupEnv(t)

	fields := validSignupFields()
	delete(fields, "email")
	buf, contentType := signupForm(t, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/counsellors/signup", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var resp struct {
		Errors []FieldError `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if len(resp.Errors) == 0 {
		t.Fatalf("expected field errors in response")
	}
	if len(env.users.usersByID) != 0 {
		t.Fatalf("expected no records created on validation failure")
	}
}

func TestSignupHandler_DuplicateEmail(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)

	fields := validSignupFields()
	fields["email"] = "counsellor@example.com"
	buf, contentType := signupForm(t, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/counsellors/signup", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if len(env.users.usersByID) != 1 {
		t.Fatalf("expected no new user record")
	}
}

func TestLoginHandler_NotFound(t *testing.T) {
	env := setupEnv(t)

	rec := performRequest(env.router, http.MethodPost, "/api/counsellors/login", map[string]string{
		"email": "missing@example.com", "password": "whatever",
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestLoginHandler_NotApproved(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, false)

	rec := performRequest(env.router, http.MethodPost, "/api/counsellors/login", map[string]string{
		"email": "counsellor@example.com", "password": "correct-password",
	}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)

	rec := performRequest(env.router, http.MethodPost, "/api/counsellors/login", map[string]string{
		"email": "counsellor@example.com", "password": "wrong",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestLoginHandler_Success(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)

	rec := performRequest(env.router, http.MethodPost, "/api/counsellors/login", map[string]string{
		"email": "counsellor@example.com", "password": "correct-password",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	cookieFound := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "authToken" && c.Value != "" && c.HttpOnly {
			cookieFound = true
		}
	}
	if !cookieFound {
		t.Fatalf("expected http-only authToken cookie")
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if resp.Token == "" || resp.User.ID != "u1" || resp.User.Role != "counsellor" {
		t.Fatalf("unexpected login response: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Fatalf("response must not expose the password hash")
	}
}

func TestListHandler_ProjectsSensitiveFields(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)

	rec := performRequest(env.router, http.MethodGet, "/api/counsellors", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, forbidden := range []string{"documents", "history", "admin_approved"} {
		if strings.Contains(body, forbidden) {
			t.Fatalf("listing must not include %q: %s", forbidden, body)
		}
	}
}

func TestGetByEmailHandler_RequiresToken(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)

	rec := performRequest(env.router, http.MethodGet, "/api/counsellors/counsellor@example.com", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestGetByEmailHandler_ForbiddenForOthers(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)

	token, err := env.jwtServ.Generate(domain.User{
		ID: "u9", Email: "someone-else@example.com", Role: domain.RoleCounsellor,
	})
	if err != nil {
		t.Fatalf("token generate failed: %v", err)
	}
	rec := performRequest(env.router, http.MethodGet, "/api/counsellors/counsellor@example.com", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestGetByEmailHandler_OwnerGetsFullProfile(t *testing.T) {
	env := setupEnv(t)
	user, _ := env.seedCounsellor(t, true)

	token, err := env.jwtServ.Generate(user)
	if err != nil {
		t.Fatalf("token generate failed: %v", err)
	}
	rec := performRequest(env.router, http.MethodGet, "/api/counsellors/counsellor@example.com", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "documents") {
		t.Fatalf("expected full profile with documents")
	}
}

func TestGetByEmailHandler_AdminAllowed(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)

	token, err := env.jwtServ.Generate(domain.User{
		ID: "admin1", Email: "admin@example.com", Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("token generate failed: %v", err)
	}
	rec := performRequest(env.router, http.MethodGet, "/api/counsellors/counsellor@example.com", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestResetPasswordHandler_WrongOTP(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)

	rec := performRequest(env.router, http.MethodPost, "/api/counsellors/reset-password", map[string]string{
		"email": "counsellor@example.com", "otp": "0000", "new_password": "brand-new-pass",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestResetPasswordHandler_FullFlow(t *testing.T) {
	env := setupEnv(t)
	user, _ := env.seedCounsellor(t, true)

	rec := performRequest(env.router, http.MethodPost, "/api/users/otp-for-password/counsellor@example.com", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected otp send 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.sender.lastCode == "" {
		t.Fatalf("expected otp code to be sent")
	}

	rec = performRequest(env.router, http.MethodPost, "/api/counsellors/reset-password", map[string]string{
		"email": "counsellor@example.com", "otp": env.sender.lastCode, "new_password": "brand-new-pass",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected reset 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, err := env.users.GetByEmail(context.Background(), user.Email)
	if err != nil {
		t.Fatalf("expected user stored, got %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-pass")); err != nil {
		t.Fatalf("expected password updated, got %v", err)
	}
}

func TestOTPHandler_UserNotFound(t *testing.T) {
	env := setupEnv(t)

	rec := performRequest(env.router, http.MethodPost, "/api/users/otp-for-password/missing@example.com", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestUpdateHandler_InvalidID(t *testing.T) {
	env := setupEnv(t)

	rec := performRequest(env.router, http.MethodPatch, "/api/counsellors/not-a-uuid", map[string]string{
		"bio": "x",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestUpdateHandler_EmailConflict(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)
	other := domain.CounsellorProfile{
		ID: otherProfileID, UserID: "u9", Fullname: "Other", Email: "other@example.com",
	}
	if err := env.counsellors.Create(context.Background(), other); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	rec := performRequest(env.router, http.MethodPatch, "/api/counsellors/"+testProfileID, map[string]string{
		"email": "other@example.com",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	stored, _ := env.counsellors.GetByID(context.Background(), testProfileID)
	if stored.Email != "counsellor@example.com" {
		t.Fatalf("expected target email unchanged, got %s", stored.Email)
	}
}

func TestStatusHandler_Messages(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)

	rec := performRequest(env.router, http.MethodPut, "/api/counsellors/"+testProfileID+"/status", map[string]any{
		"is_active": false,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "deactivated") {
		t.Fatalf("expected deactivated message, got %s", rec.Body.String())
	}

	rec = performRequest(env.router, http.MethodPut, "/api/counsellors/"+testProfileID+"/status", map[string]any{
		"is_active": true,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "activated") {
		t.Fatalf("expected activated message, got %s", rec.Body.String())
	}
}

func TestAvailabilityHandler_InvalidFormat(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)

	rec := performRequest(env.router, http.MethodPut, "/api/counsellors/"+testProfileID+"/availability", map[string]any{
		"working_hours": map[string]string{"start": "25:00", "end": "10:00"},
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	stored, _ := env.counsellors.GetByID(context.Background(), testProfileID)
	if stored.Availability.WorkingHours != nil {
		t.Fatalf("expected stored availability unchanged")
	}
}

func TestAvailabilityHandler_Success(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)

	rec := performRequest(env.router, http.MethodPut, "/api/counsellors/"+testProfileID+"/availability", map[string]any{
		"working_hours": map[string]string{"start": "09:00", "end": "17:30"},
		"working_days":  []string{"mon", "tue"},
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestQualificationHandler_InvalidYear(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)

	rec := performRequest(env.router, http.MethodPost, "/api/counsellors/"+testProfileID+"/qualifications", map[string]any{
		"degree": "BA", "institution": "Uni", "year": 1899,
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestQualificationHandler_Success(t *testing.T) {
	env := setupEnv(t)
	env.seedCounsellor(t, true)

	rec := performRequest(env.router, http.MethodPost, "/api/counsellors/"+testProfileID+"/qualifications", map[string]any{
		"degree": "MA", "institution": "Uni B", "year": 2015,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stored, _ := env.counsellors.GetByID(context.Background(), testProfileID)
	if len(stored.Qualifications) != 1 || stored.Qualifications[0].Degree != "MA" {
		t.Fatalf("expected qualification appended")
	}
}
