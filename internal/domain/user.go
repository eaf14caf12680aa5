package domain

import "time"

// Role enumera los roles soportados por la plataforma.
type Role string

const (
	RoleSeeker     Role = "seeker"
	RoleCounsellor Role = "counsellor"
	RoleAdmin      Role = "admin"
)

// User representa una cuenta genérica de la plataforma.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Fullname          string    `json:"fullname"`
	PhoneNumber       string    `json:"phone_number"`
	DOB               string    `json:"dob"`
	Gender            string    `json:"gender"`
	PreferredLanguage string    `json:"preferred_language"`
	Timezone          string    `json:"timezone"`
	Role              Role      `json:"role"`
	CreatedAt         time.Time `json:"created_at"`
}
