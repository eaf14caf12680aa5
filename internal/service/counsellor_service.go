package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"safe-harbor/internal/domain"
	"safe-harbor/internal/repository"
	"safe-harbor/internal/storage"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrLicenseTaken       = errors.New("license number already registered to another counsellor")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("counsellor not found")
	ErrNotCounsellor      = errors.New("only counsellor can login")
	ErrNotApproved        = errors.New("profile not approved by admin yet")
	ErrInvalidCredentials = errors.New("email or password maybe not correct")
	ErrOnlyCounsellor     = errors.New("only counsellor can change password")
	ErrInvalidYear        = errors.New("invalid year")
	ErrQualificationData  = errors.New("degree, institution, and year are required")
	ErrInvalidTimeFormat  = errors.New("invalid time format, use HH:mm")
	ErrInvalidProfile     = errors.New("profile data invalid")
)

var workingHoursRe = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// CounsellorService orquesta el alta y el ciclo de vida de counsellors.
type CounsellorService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	counsellors repository.CounsellorRepository
	signup      repository.SignupStore
	uploader    storage.Uploader
}

func NewCounsellorService(
	logger *zap.Logger,
	users repository.UserRepository,
	counsellors repository.CounsellorRepository,
	signup repository.SignupStore,
	uploader storage.Uploader,
) *CounsellorService {
	return &CounsellorService{
		logger:      logger,
		users:       users,
		counsellors: counsellors,
		signup:      signup,
		uploader:    uploader,
	}
}

// Attachment referencia un archivo local ya recibido por multipart.
type Attachment struct {
	LocalPath    string
	OriginalName string
}

// SignupInput contiene el payload validado de registro.
type SignupInput struct {
	Fullname            string
	Email               string
	Password            string
	ContactNumber       string
	DOB                 string
	Gender              string
	PreferredLanguage   string
	Timezone            string
	CounsellingType     string
	Specialties         []string
	Bio                 string
	Qualifications      []domain.Qualification
	YearsExperience     int
	Languages           []string
	HourlyRate          float64
	Availability        domain.Availability
	SessionType         string
	CalendarIntegration bool
	Attachments         map[domain.DocumentKind]Attachment
}

// Signup crea el par User + CounsellorProfile. Los documentos presentes se
// suben antes de escribir; el par se persiste en una sola transacción, así
// que nunca queda un User huérfano.
func (s *CounsellorService) Signup(ctx context.Context, input SignupInput) (domain.User, domain.CounsellorProfile, error) {
	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return domain.User{}, domain.CounsellorProfile{}, ErrInvalidEmail
	}

	// Pre-chequeo amistoso; la autoridad final es el índice único del store.
	if _, err := s.users.GetByEmail(ctx, emailAddr); err == nil {
		return domain.User{}, domain.CounsellorProfile{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.CounsellorProfile{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, domain.CounsellorProfile{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:                uuid.NewString(),
		Email:             emailAddr,
		PasswordHash:      string(hashBytes),
		Fullname:          strings.TrimSpace(input.Fullname),
		PhoneNumber:       input.ContactNumber,
		DOB:               input.DOB,
		Gender:            input.Gender,
		PreferredLanguage: input.PreferredLanguage,
		Timezone:          input.Timezone,
		Role:              domain.RoleCounsellor,
		CreatedAt:         now,
	}

	documents := s.uploadDocuments(ctx, input.Attachments)

	profile := domain.CounsellorProfile{
		ID:                  uuid.NewString(),
		UserID:              user.ID,
		Fullname:            user.Fullname,
		Email:               emailAddr,
		DOB:                 input.DOB,
		Gender:              input.Gender,
		ContactNumber:       input.ContactNumber,
		CounsellingType:     input.CounsellingType,
		Specialties:         input.Specialties,
		Bio:                 input.Bio,
		Qualifications:      input.Qualifications,
		YearsExperience:     input.YearsExperience,
		Languages:           input.Languages,
		HourlyRate:          input.HourlyRate,
		Availability:        input.Availability,
		SessionType:         input.SessionType,
		CalendarIntegration: input.CalendarIntegration,
		Documents:           documents,
		History:             []domain.HistoryEntry{{Action: "signup", At: now}},
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.signup.CreateUserAndProfile(ctx, user, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, domain.CounsellorProfile{}, ErrEmailTaken
		}
		return domain.User{}, domain.CounsellorProfile{}, err
	}

	return user, profile, nil
}

// uploadDocuments recorre la enumeración fija de documentos. Cada kind
// resuelve a URL subida, ausente (null) o fallo de subida (null + log);
// un fallo individual no aborta el registro.
func (s *CounsellorService) uploadDocuments(ctx context.Context, attachments map[domain.DocumentKind]Attachment) domain.DocumentSet {
	var documents domain.DocumentSet
	for _, kind := range domain.DocumentKinds() {
		att, ok := attachments[kind]
		if !ok {
			documents.Set(kind, nil)
			continue
		}
		url, err := s.uploader.Upload(ctx, att.LocalPath, att.OriginalName)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("document upload failed",
					zap.String("kind", string(kind)),
					zap.String("file", att.OriginalName),
					zap.Error(err),
				)
			}
			documents.Set(kind, nil)
			continue
		}
		documents.Set(kind, &url)
	}
	return documents
}

// Login autentica un counsellor. El gate de aprobación se evalúa antes de
// comparar la contraseña; un perfil inexistente cuenta como no aprobado.
func (s *CounsellorService) Login(ctx context.Context, emailAddr, password string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	if user.Role != domain.RoleCounsellor {
		return domain.User{}, ErrNotCounsellor
	}

	profile, err := s.counsellors.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotApproved
		}
		return domain.User{}, err
	}
	if !profile.AdminApproved {
		return domain.User{}, ErrNotApproved
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// UserByEmail busca la cuenta asociada a un email.
func (s *CounsellorService) UserByEmail(ctx context.Context, emailAddr string) (domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// List devuelve todos los perfiles ya proyectados por el store (sin
// documents, history ni admin_approved).
func (s *CounsellorService) List(ctx context.Context) ([]domain.CounsellorProfile, error) {
	return s.counsellors.List(ctx)
}

// GetByEmail devuelve el perfil completo asociado al email.
func (s *CounsellorService) GetByEmail(ctx context.Context, emailAddr string) (domain.CounsellorProfile, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return domain.CounsellorProfile{}, ErrInvalidEmail
	}
	profile, err := s.counsellors.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CounsellorProfile{}, ErrProfileNotFound
		}
		return domain.CounsellorProfile{}, err
	}
	return profile, nil
}

// ResetPassword reescribe la credencial. La prueba de titularidad es el
// código OTP emitido previamente al mismo email.
func (s *CounsellorService) ResetPassword(ctx context.Context, emailAddr, newPassword string) error {
	emailAddr = normalizeEmail(emailAddr)

	user, userErr := s.users.GetByEmail(ctx, emailAddr)
	_, profileErr := s.counsellors.GetByEmail(ctx, emailAddr)
	if userErr != nil && !errors.Is(userErr, pgx.ErrNoRows) {
		return userErr
	}
	if profileErr != nil && !errors.Is(profileErr, pgx.ErrNoRows) {
		return profileErr
	}
	if errors.Is(userErr, pgx.ErrNoRows) && errors.Is(profileErr, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	if errors.Is(profileErr, pgx.ErrNoRows) || user.Role != domain.RoleCounsellor {
		return ErrOnlyCounsellor
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, emailAddr, string(hashBytes)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// UpdateProfileInput es el payload parcial del PATCH: solo los campos
// presentes modifican el perfil.
type UpdateProfileInput struct {
	Fullname            *string
	Email               *string
	DOB                 *string
	Gender              *string
	ContactNumber       *string
	CounsellingType     *string
	Specialties         []string
	Bio                 *string
	YearsExperience     *int
	Languages           []string
	HourlyRate          *float64
	SessionType         *string
	CalendarIntegration *bool
	LicenseNumber       *string
}

// UpdateProfile aplica un merge parcial con chequeos de unicidad de email
// y licencia contra otros perfiles.
func (s *CounsellorService) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (domain.CounsellorProfile, error) {
	profile, err := s.getProfile(ctx, id)
	if err != nil {
		return domain.CounsellorProfile{}, err
	}

	if input.Email != nil {
		newEmail := normalizeEmail(*input.Email)
		if newEmail == "" {
			return domain.CounsellorProfile{}, ErrInvalidEmail
		}
		taken, err := s.counsellors.EmailInUseByOther(ctx, newEmail, id)
		if err != nil {
			return domain.CounsellorProfile{}, err
		}
		if taken {
			return domain.CounsellorProfile{}, ErrEmailTaken
		}
		profile.Email = newEmail
	}
	if input.LicenseNumber != nil {
		license := strings.TrimSpace(*input.LicenseNumber)
		taken, err := s.counsellors.LicenseInUseByOther(ctx, license, id)
		if err != nil {
			return domain.CounsellorProfile{}, err
		}
		if taken {
			return domain.CounsellorProfile{}, ErrLicenseTaken
		}
		profile.LicenseNumber = &license
	}

	if input.Fullname != nil {
		profile.Fullname = strings.TrimSpace(*input.Fullname)
	}
	if input.DOB != nil {
		profile.DOB = *input.DOB
	}
	if input.Gender != nil {
		profile.Gender = *input.Gender
	}
	if input.ContactNumber != nil {
		profile.ContactNumber = *input.ContactNumber
	}
	if input.CounsellingType != nil {
		profile.CounsellingType = *input.CounsellingType
	}
	if input.Specialties != nil {
		profile.Specialties = input.Specialties
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.YearsExperience != nil {
		profile.YearsExperience = *input.YearsExperience
	}
	if input.Languages != nil {
		profile.Languages = input.Languages
	}
	if input.HourlyRate != nil {
		profile.HourlyRate = *input.HourlyRate
	}
	if input.SessionType != nil {
		profile.SessionType = *input.SessionType
	}
	if input.CalendarIntegration != nil {
		profile.CalendarIntegration = *input.CalendarIntegration
	}

	if err := validateProfile(profile); err != nil {
		return domain.CounsellorProfile{}, err
	}

	return s.saveProfile(ctx, profile, "profile_updated")
}

// StatusInput es el payload de activación/verificación administrativa.
type StatusInput struct {
	IsActive   bool
	IsVerified *bool
	Approved   *bool
}

// UpdateStatus aplica los flags administrativos como merge parcial.
func (s *CounsellorService) UpdateStatus(ctx context.Context, id string, input StatusInput) (domain.CounsellorProfile, error) {
	profile, err := s.getProfile(ctx, id)
	if err != nil {
		return domain.CounsellorProfile{}, err
	}

	profile.IsActive = input.IsActive
	if input.IsVerified != nil {
		profile.IsVerified = *input.IsVerified
	}
	if input.Approved != nil {
		profile.AdminApproved = *input.Approved
	}

	return s.saveProfile(ctx, profile, "status_updated")
}

// AvailabilityInput admite horario y días en forma independiente.
type AvailabilityInput struct {
	WorkingHours *domain.WorkingHours
	WorkingDays  []string
}

// UpdateAvailability valida el formato HH:mm de ambos extremos y aplica
// solo los campos presentes.
func (s *CounsellorService) UpdateAvailability(ctx context.Context, id string, input AvailabilityInput) (domain.CounsellorProfile, error) {
	if input.WorkingHours != nil {
		if !workingHoursRe.MatchString(input.WorkingHours.Start) || !workingHoursRe.MatchString(input.WorkingHours.End) {
			return domain.CounsellorProfile{}, ErrInvalidTimeFormat
		}
	}

	profile, err := s.getProfile(ctx, id)
	if err != nil {
		return domain.CounsellorProfile{}, err
	}

	if input.WorkingHours != nil {
		profile.Availability.WorkingHours = input.WorkingHours
	}
	if input.WorkingDays != nil {
		profile.Availability.WorkingDays = input.WorkingDays
	}

	return s.saveProfile(ctx, profile, "availability_updated")
}

// AddQualification agrega un título al final de la secuencia, sin
// de-duplicar ni reordenar.
func (s *CounsellorService) AddQualification(ctx context.Context, id string, qualification domain.Qualification) (domain.CounsellorProfile, error) {
	if strings.TrimSpace(qualification.Degree) == "" ||
		strings.TrimSpace(qualification.Institution) == "" ||
		qualification.Year == 0 {
		return domain.CounsellorProfile{}, ErrQualificationData
	}
	if qualification.Year < 1900 || qualification.Year > time.Now().UTC().Year() {
		return domain.CounsellorProfile{}, ErrInvalidYear
	}

	profile, err := s.getProfile(ctx, id)
	if err != nil {
		return domain.CounsellorProfile{}, err
	}

	profile.Qualifications = append(profile.Qualifications, qualification)
	return s.saveProfile(ctx, profile, "qualification_added")
}

func (s *CounsellorService) getProfile(ctx context.Context, id string) (domain.CounsellorProfile, error) {
	profile, err := s.counsellors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CounsellorProfile{}, ErrProfileNotFound
		}
		return domain.CounsellorProfile{}, err
	}
	return profile, nil
}

func (s *CounsellorService) saveProfile(ctx context.Context, profile domain.CounsellorProfile, action string) (domain.CounsellorProfile, error) {
	now := time.Now().UTC()
	profile.History = append(profile.History, domain.HistoryEntry{Action: action, At: now})
	profile.UpdatedAt = now

	if err := s.counsellors.Update(ctx, profile); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.CounsellorProfile{}, ErrProfileNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return domain.CounsellorProfile{}, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateLicense):
			return domain.CounsellorProfile{}, ErrLicenseTaken
		}
		return domain.CounsellorProfile{}, err
	}
	return profile, nil
}

// validateProfile repite la validación del store sobre el resultado del
// merge, antes de escribir.
func validateProfile(p domain.CounsellorProfile) error {
	if !strings.Contains(p.Email, "@") {
		return ErrInvalidProfile
	}
	if strings.TrimSpace(p.Fullname) == "" {
		return ErrInvalidProfile
	}
	if p.YearsExperience < 0 || p.HourlyRate < 0 {
		return ErrInvalidProfile
	}
	for _, q := range p.Qualifications {
		if q.Year < 1900 || q.Year > time.Now().UTC().Year() {
			return ErrInvalidProfile
		}
	}
	return nil
}
