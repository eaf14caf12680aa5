package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"safe-harbor/internal/domain"
	"safe-harbor/internal/service"
)

// CounsellorHandler mantiene dependencias para los endpoints de counsellors.
type CounsellorHandler struct {
	logger         *zap.Logger
	counsellorServ *service.CounsellorService
	otpServ        *service.OTPService
	jwtServ        *service.JWTService
	secureCookies  bool
}

// NewCounsellorHandler crea una instancia con las dependencias necesarias.
func NewCounsellorHandler(
	logger *zap.Logger,
	counsellorServ *service.CounsellorService,
	otpServ *service.OTPService,
	jwtServ *service.JWTService,
	secureCookies bool,
) *CounsellorHandler {
	return &CounsellorHandler{
		logger:         logger,
		counsellorServ: counsellorServ,
		otpServ:        otpServ,
		jwtServ:        jwtServ,
		secureCookies:  secureCookies,
	}
}

// counsellorView es la proyección pública del listado: nunca incluye
// documents, history ni admin_approved.
type counsellorView struct {
	ID                  string                 `json:"id"`
	UserID              string                 `json:"user_id"`
	Fullname            string                 `json:"fullname"`
	Email               string                 `json:"email"`
	DOB                 string                 `json:"dob"`
	Gender              string                 `json:"gender"`
	ContactNumber       string                 `json:"contact_number"`
	CounsellingType     string                 `json:"counselling_type"`
	Specialties         []string               `json:"specialties"`
	Bio                 string                 `json:"bio"`
	Qualifications      []domain.Qualification `json:"qualifications"`
	YearsExperience     int                    `json:"years_experience"`
	Languages           []string               `json:"languages"`
	HourlyRate          float64                `json:"hourly_rate"`
	Availability        domain.Availability    `json:"availability"`
	SessionType         string                 `json:"session_type"`
	CalendarIntegration bool                   `json:"calendar_integration"`
	LicenseNumber       *string                `json:"license_number,omitempty"`
	IsActive            bool                   `json:"is_active"`
	IsVerified          bool                   `json:"is_verified"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

func toCounsellorView(p domain.CounsellorProfile) counsellorView {
	return counsellorView{
		ID:                  p.ID,
		UserID:              p.UserID,
		Fullname:            p.Fullname,
		Email:               p.Email,
		DOB:                 p.DOB,
		Gender:              p.Gender,
		ContactNumber:       p.ContactNumber,
		CounsellingType:     p.CounsellingType,
		Specialties:         p.Specialties,
		Bio:                 p.Bio,
		Qualifications:      p.Qualifications,
		YearsExperience:     p.YearsExperience,
		Languages:           p.Languages,
		HourlyRate:          p.HourlyRate,
		Availability:        p.Availability,
		SessionType:         p.SessionType,
		CalendarIntegration: p.CalendarIntegration,
		LicenseNumber:       p.LicenseNumber,
		IsActive:            p.IsActive,
		IsVerified:          p.IsVerified,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

type signupRequest struct {
	Fullname            string   `form:"fullname" binding:"required"`
	Email               string   `form:"email" binding:"required,email"`
	Password            string   `form:"password" binding:"required,min=8"`
	ContactNumber       string   `form:"contact_number" binding:"required"`
	DOB                 string   `form:"dob" binding:"required"`
	Gender              string   `form:"gender" binding:"required,oneof=male female other"`
	PreferredLanguage   string   `form:"preferred_language" binding:"required"`
	Timezone            string   `form:"timezone" binding:"required"`
	CounsellingType     string   `form:"counselling_type" binding:"required,oneof=individual couples family group"`
	Specialties         []string `form:"specialties" binding:"required,min=1"`
	Bio                 string   `form:"bio" binding:"required"`
	Qualifications      string   `form:"qualifications"`
	YearsExperience     int      `form:"years_experience" binding:"min=0"`
	Languages           []string `form:"languages" binding:"required,min=1"`
	HourlyRate          float64  `form:"hourly_rate" binding:"min=0"`
	Availability        string   `form:"availability"`
	SessionType         string   `form:"session_type" binding:"required,oneof=video audio chat in_person"`
	CalendarIntegration bool     `form:"calendar_integration"`
}

// Signup maneja POST /api/counsellors/signup (multipart).
func (h *CounsellorHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "validation error", "errors": bindingErrors(err)})
		return
	}

	var qualifications []domain.Qualification
	if strings.TrimSpace(req.Qualifications) != "" {
		if err := json.Unmarshal([]byte(req.Qualifications), &qualifications); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "validation error", "errors": []FieldError{
				{Field: "qualifications", Message: "must be a JSON array of {degree, institution, year}"},
			}})
			return
		}
	}

	var availability domain.Availability
	if strings.TrimSpace(req.Availability) != "" {
		if err := json.Unmarshal([]byte(req.Availability), &availability); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "validation error", "errors": []FieldError{
				{Field: "availability", Message: "must be a JSON availability descriptor"},
			}})
			return
		}
	}

	attachments, cleanup, err := h.collectAttachments(c)
	if err != nil {
		h.logger.Error("store uploaded files failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "could not store uploaded files"})
		return
	}
	defer cleanup()

	user, profile, err := h.counsellorServ.Signup(c.Request.Context(), service.SignupInput{
		Fullname:            req.Fullname,
		Email:               req.Email,
		Password:            req.Password,
		ContactNumber:       req.ContactNumber,
		DOB:                 req.DOB,
		Gender:              req.Gender,
		PreferredLanguage:   req.PreferredLanguage,
		Timezone:            req.Timezone,
		CounsellingType:     req.CounsellingType,
		Specialties:         req.Specialties,
		Bio:                 req.Bio,
		Qualifications:      qualifications,
		YearsExperience:     req.YearsExperience,
		Languages:           req.Languages,
		HourlyRate:          req.HourlyRate,
		Availability:        availability,
		SessionType:         req.SessionType,
		CalendarIntegration: req.CalendarIntegration,
		Attachments:         attachments,
	})
	if err != nil {
		h.respondServiceError(c, err, "counsellor signup")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg":     "Counsellor registered successfully",
		"user":    user,
		"profile": profile,
	})
}

// collectAttachments guarda los archivos multipart presentes en disco
// temporal y devuelve la función que los limpia al terminar el request.
func (h *CounsellorHandler) collectAttachments(c *gin.Context) (map[domain.DocumentKind]service.Attachment, func(), error) {
	attachments := make(map[domain.DocumentKind]service.Attachment)
	var tempFiles []string
	cleanup := func() {
		for _, p := range tempFiles {
			_ = os.Remove(p)
		}
	}

	for _, kind := range domain.DocumentKinds() {
		fileHeader, err := c.FormFile(string(kind))
		if err != nil {
			// ausente: el registro sigue y el documento queda en null
			continue
		}
		dst := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(fileHeader.Filename))
		if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
			cleanup()
			return nil, func() {}, err
		}
		tempFiles = append(tempFiles, dst)
		attachments[kind] = service.Attachment{
			LocalPath:    dst,
			OriginalName: fileHeader.Filename,
		}
	}
	return attachments, cleanup, nil
}

// Login maneja POST /api/counsellors/login.
func (h *CounsellorHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "validation error", "errors": bindingErrors(err)})
		return
	}

	user, err := h.counsellorServ.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondServiceError(c, err, "counsellor login")
		return
	}

	token, err := h.jwtServ.Generate(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "could not issue token"})
		return
	}

	c.SetCookie(authCookieName, token, int(h.jwtServ.TTL().Seconds()), "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"fullname": user.Fullname,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// List maneja GET /api/counsellors/.
func (h *CounsellorHandler) List(c *gin.Context) {
	profiles, err := h.counsellorServ.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "list counsellors")
		return
	}

	views := make([]counsellorView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, toCounsellorView(p))
	}
	c.JSON(http.StatusOK, gin.H{"msg": "all counsellor fetch", "counsellor": views})
}

// GetByEmail maneja GET /api/counsellors/:email. Devuelve el perfil
// completo, así que exige que el solicitante sea el dueño o un admin.
func (h *CounsellorHandler) GetByEmail(c *gin.Context) {
	emailParam := strings.TrimSpace(c.Param("email"))
	if emailParam == "" {
		c.JSON(http.StatusNotFound, gin.H{"msg": "email is required"})
		return
	}

	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing token"})
		return
	}
	if claims.Role != domain.RoleAdmin && !strings.EqualFold(claims.Email, emailParam) {
		c.JSON(http.StatusForbidden, gin.H{"msg": "not allowed to view this profile"})
		return
	}

	profile, err := h.counsellorServ.GetByEmail(c.Request.Context(), emailParam)
	if err != nil {
		h.respondServiceError(c, err, "get counsellor by email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "counsellor is found", "counsellor": profile})
}

// ResetPassword maneja POST /api/counsellors/reset-password. El código OTP
// enviado al email es la prueba de titularidad.
func (h *CounsellorHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Otp         string `json:"otp" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "validation error", "errors": bindingErrors(err)})
		return
	}

	if err := h.otpServ.Verify(c.Request.Context(), req.Email, req.Otp); err != nil {
		h.respondServiceError(c, err, "reset password otp")
		return
	}

	if err := h.counsellorServ.ResetPassword(c.Request.Context(), req.Email, req.NewPassword); err != nil {
		h.respondServiceError(c, err, "reset password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Password updated successfully"})
}

type updateRequest struct {
	Fullname            *string  `json:"fullname" binding:"omitempty,min=1"`
	Email               *string  `json:"email" binding:"omitempty,email"`
	DOB                 *string  `json:"dob"`
	Gender              *string  `json:"gender" binding:"omitempty,oneof=male female other"`
	ContactNumber       *string  `json:"contact_number"`
	CounsellingType     *string  `json:"counselling_type" binding:"omitempty,oneof=individual couples family group"`
	Specialties         []string `json:"specialties"`
	Bio                 *string  `json:"bio"`
	YearsExperience     *int     `json:"years_experience" binding:"omitempty,min=0"`
	Languages           []string `json:"languages"`
	HourlyRate          *float64 `json:"hourly_rate" binding:"omitempty,min=0"`
	SessionType         *string  `json:"session_type" binding:"omitempty,oneof=video audio chat in_person"`
	CalendarIntegration *bool    `json:"calendar_integration"`
	LicenseNumber       *string  `json:"license_number"`
}

// Update maneja PATCH /api/counsellors/:id (merge parcial).
func (h *CounsellorHandler) Update(c *gin.Context) {
	id, ok := h.counsellorID(c)
	if !ok {
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "validation error", "errors": bindingErrors(err)})
		return
	}

	profile, err := h.counsellorServ.UpdateProfile(c.Request.Context(), id, service.UpdateProfileInput{
		Fullname:            req.Fullname,
		Email:               req.Email,
		DOB:                 req.DOB,
		Gender:              req.Gender,
		ContactNumber:       req.ContactNumber,
		CounsellingType:     req.CounsellingType,
		Specialties:         req.Specialties,
		Bio:                 req.Bio,
		YearsExperience:     req.YearsExperience,
		Languages:           req.Languages,
		HourlyRate:          req.HourlyRate,
		SessionType:         req.SessionType,
		CalendarIntegration: req.CalendarIntegration,
		LicenseNumber:       req.LicenseNumber,
	})
	if err != nil {
		h.respondServiceError(c, err, "update counsellor")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Counsellor updated successfully", "data": profile})
}

// UpdateStatus maneja PUT /api/counsellors/:id/status.
func (h *CounsellorHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.counsellorID(c)
	if !ok {
		return
	}
	var req struct {
		IsActive      *bool `json:"is_active" binding:"required"`
		IsVerified    *bool `json:"is_verified"`
		AdminApproved *bool `json:"admin_approved"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "validation error", "errors": bindingErrors(err)})
		return
	}

	profile, err := h.counsellorServ.UpdateStatus(c.Request.Context(), id, service.StatusInput{
		IsActive:   *req.IsActive,
		IsVerified: req.IsVerified,
		Approved:   req.AdminApproved,
	})
	if err != nil {
		h.respondServiceError(c, err, "update counsellor status")
		return
	}

	msg := "Counsellor deactivated successfully"
	if profile.IsActive {
		msg = "Counsellor activated successfully"
	}
	c.JSON(http.StatusOK, gin.H{"msg": msg, "data": profile})
}

// UpdateAvailability maneja PUT /api/counsellors/:id/availability.
func (h *CounsellorHandler) UpdateAvailability(c *gin.Context) {
	id, ok := h.counsellorID(c)
	if !ok {
		return
	}
	var req struct {
		WorkingHours *domain.WorkingHours `json:"working_hours"`
		WorkingDays  []string             `json:"working_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "validation error", "errors": bindingErrors(err)})
		return
	}

	profile, err := h.counsellorServ.UpdateAvailability(c.Request.Context(), id, service.AvailabilityInput{
		WorkingHours: req.WorkingHours,
		WorkingDays:  req.WorkingDays,
	})
	if err != nil {
		h.respondServiceError(c, err, "update availability")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Availability updated successfully", "data": profile})
}

// AddQualification maneja POST /api/counsellors/:id/qualifications.
func (h *CounsellorHandler) AddQualification(c *gin.Context) {
	id, ok := h.counsellorID(c)
	if !ok {
		return
	}
	var req struct {
		Degree      string `json:"degree" binding:"required"`
		Institution string `json:"institution" binding:"required"`
		Year        int    `json:"year" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "validation error", "errors": bindingErrors(err)})
		return
	}

	profile, err := h.counsellorServ.AddQualification(c.Request.Context(), id, domain.Qualification{
		Degree:      req.Degree,
		Institution: req.Institution,
		Year:        req.Year,
	})
	if err != nil {
		h.respondServiceError(c, err, "add qualification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Qualification added successfully", "data": profile})
}

// SendPasswordOTP maneja POST /api/users/otp-for-password/:email.
func (h *CounsellorHandler) SendPasswordOTP(c *gin.Context) {
	emailParam := strings.TrimSpace(c.Param("email"))
	if emailParam == "" {
		c.JSON(http.StatusNotFound, gin.H{"msg": "email is required"})
		return
	}

	user, err := h.counsellorServ.UserByEmail(c.Request.Context(), emailParam)
	if err != nil {
		h.respondServiceError(c, err, "otp user lookup")
		return
	}

	if err := h.otpServ.Send(c.Request.Context(), user.Fullname, user.Email); err != nil {
		h.respondServiceError(c, err, "send password otp")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "otp sent"})
}

func (h *CounsellorHandler) counsellorID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid counsellor ID"})
		return "", false
	}
	return id, true
}

// respondServiceError traduce cada error del workflow a una respuesta
// estructurada; ningún fallo se responde en silencio.
func (h *CounsellorHandler) respondServiceError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrLicenseTaken),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidProfile),
		errors.Is(err, service.ErrInvalidYear),
		errors.Is(err, service.ErrQualificationData),
		errors.Is(err, service.ErrInvalidTimeFormat),
		errors.Is(err, service.ErrOTPInvalid),
		errors.Is(err, service.ErrOTPNotRequested),
		errors.Is(err, service.ErrOnlyCounsellor):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrNotCounsellor),
		errors.Is(err, service.ErrNotApproved):
		c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"msg": "too many requests"})
	case errors.Is(err, service.ErrEmailSendFailure):
		c.JSON(http.StatusServiceUnavailable, gin.H{"msg": "email delivery unavailable"})
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
	}
}
