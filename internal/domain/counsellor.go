package domain

import "time"

// Qualification es una entrada de la secuencia ordenada de títulos.
type Qualification struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year"`
}

// WorkingHours define una franja horaria en formato 24h HH:mm.
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Availability agrupa horario y días de trabajo del counsellor.
type Availability struct {
	WorkingHours *WorkingHours `json:"working_hours,omitempty"`
	WorkingDays  []string      `json:"working_days,omitempty"`
}

// DocumentKind identifica cada uno de los seis documentos reconocidos.
type DocumentKind string

const (
	DocGovernmentID              DocumentKind = "government_id"
	DocProfilePicture            DocumentKind = "profile_picture"
	DocQualificationCertificates DocumentKind = "qualification_certificates"
	DocLicence                   DocumentKind = "licence"
	// el nombre de campo "experince_letter" viene del contrato original
	DocExperienceLetter    DocumentKind = "experince_letter"
	DocAdditionalDocuments DocumentKind = "additional_documents"
)

// DocumentKinds devuelve la enumeración fija en orden estable.
func DocumentKinds() []DocumentKind {
	return []DocumentKind{
		DocGovernmentID,
		DocProfilePicture,
		DocQualificationCertificates,
		DocLicence,
		DocExperienceLetter,
		DocAdditionalDocuments,
	}
}

// DocumentSet guarda una URL o null por cada documento reconocido.
type DocumentSet struct {
	GovernmentID              *string `json:"government_id"`
	ProfilePicture            *string `json:"profile_picture"`
	QualificationCertificates *string `json:"qualification_certificates"`
	Licence                   *string `json:"licence"`
	ExperienceLetter          *string `json:"experince_letter"`
	AdditionalDocuments       *string `json:"additional_documents"`
}

// Set asigna la URL del documento indicado.
func (d *DocumentSet) Set(kind DocumentKind, url *string) {
	switch kind {
	case DocGovernmentID:
		d.GovernmentID = url
	case DocProfilePicture:
		d.ProfilePicture = url
	case DocQualificationCertificates:
		d.QualificationCertificates = url
	case DocLicence:
		d.Licence = url
	case DocExperienceLetter:
		d.ExperienceLetter = url
	case DocAdditionalDocuments:
		d.AdditionalDocuments = url
	}
}

// Get devuelve la URL del documento indicado.
func (d *DocumentSet) Get(kind DocumentKind) *string {
	switch kind {
	case DocGovernmentID:
		return d.GovernmentID
	case DocProfilePicture:
		return d.ProfilePicture
	case DocQualificationCertificates:
		return d.QualificationCertificates
	case DocLicence:
		return d.Licence
	case DocExperienceLetter:
		return d.ExperienceLetter
	case DocAdditionalDocuments:
		return d.AdditionalDocuments
	}
	return nil
}

// HistoryEntry registra una mutación interna del perfil.
type HistoryEntry struct {
	Action string    `json:"action"`
	At     time.Time `json:"at"`
}

// CounsellorProfile contiene los datos profesionales del counsellor,
// enlazados uno a uno con su User.
type CounsellorProfile struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	Fullname            string          `json:"fullname"`
	Email               string          `json:"email"`
	DOB                 string          `json:"dob"`
	Gender              string          `json:"gender"`
	ContactNumber       string          `json:"contact_number"`
	CounsellingType     string          `json:"counselling_type"`
	Specialties         []string        `json:"specialties"`
	Bio                 string          `json:"bio"`
	Qualifications      []Qualification `json:"qualifications"`
	YearsExperience     int             `json:"years_experience"`
	Languages           []string        `json:"languages"`
	HourlyRate          float64         `json:"hourly_rate"`
	Availability        Availability    `json:"availability"`
	SessionType         string          `json:"session_type"`
	CalendarIntegration bool            `json:"calendar_integration"`
	LicenseNumber       *string         `json:"license_number,omitempty"`
	Documents           DocumentSet     `json:"documents"`
	History             []HistoryEntry  `json:"history"`
	AdminApproved       bool            `json:"admin_approved"`
	IsActive            bool            `json:"is_active"`
	IsVerified          bool            `json:"is_verified"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
