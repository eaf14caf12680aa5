package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"safe-harbor/internal/domain"
)

// CounsellorRepository define el contrato de persistencia para perfiles.
type CounsellorRepository interface {
	Create(ctx context.Context, profile domain.CounsellorProfile) error
	GetByID(ctx context.Context, id string) (domain.CounsellorProfile, error)
	GetByEmail(ctx context.Context, email string) (domain.CounsellorProfile, error)
	// List devuelve los perfiles proyectando fuera documents, history y
	// admin_approved: esos campos nunca salen del store en el listado.
	List(ctx context.Context) ([]domain.CounsellorProfile, error)
	Update(ctx context.Context, profile domain.CounsellorProfile) error
	EmailInUseByOther(ctx context.Context, email, id string) (bool, error)
	LicenseInUseByOther(ctx context.Context, license, id string) (bool, error)
}

// PgCounsellorRepository implementa CounsellorRepository usando pgxpool.
type PgCounsellorRepository struct {
	pool *pgxpool.Pool
}

func NewPgCounsellorRepository(pool *pgxpool.Pool) *PgCounsellorRepository {
	return &PgCounsellorRepository{pool: pool}
}

const counsellorColumns = `
	id, user_id, fullname, email, dob, gender, contact_number,
	counselling_type, specialties, bio, qualifications, years_experience,
	languages, hourly_rate, availability, session_type, calendar_integration,
	license_number, documents, history, admin_approved, is_active,
	is_verified, created_at, updated_at
`

const insertCounsellorQuery = `
	INSERT INTO counsellor_profiles (
		id, user_id, fullname, email, dob, gender, contact_number,
		counselling_type, specialties, bio, qualifications, years_experience,
		languages, hourly_rate, availability, session_type, calendar_integration,
		license_number, documents, history, admin_approved, is_active,
		is_verified, created_at, updated_at
	)
	VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21, $22, $23, $24, $25
	)
`

func counsellorInsertArgs(p domain.CounsellorProfile) []any {
	return []any{
		p.ID,
		p.UserID,
		p.Fullname,
		p.Email,
		p.DOB,
		p.Gender,
		p.ContactNumber,
		p.CounsellingType,
		p.Specialties,
		p.Bio,
		p.Qualifications,
		p.YearsExperience,
		p.Languages,
		p.HourlyRate,
		p.Availability,
		p.SessionType,
		p.CalendarIntegration,
		p.LicenseNumber,
		p.Documents,
		p.History,
		p.AdminApproved,
		p.IsActive,
		p.IsVerified,
		p.CreatedAt,
		p.UpdatedAt,
	}
}

func scanCounsellor(row pgx.Row) (domain.CounsellorProfile, error) {
	var p domain.CounsellorProfile
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Fullname,
		&p.Email,
		&p.DOB,
		&p.Gender,
		&p.ContactNumber,
		&p.CounsellingType,
		&p.Specialties,
		&p.Bio,
		&p.Qualifications,
		&p.YearsExperience,
		&p.Languages,
		&p.HourlyRate,
		&p.Availability,
		&p.SessionType,
		&p.CalendarIntegration,
		&p.LicenseNumber,
		&p.Documents,
		&p.History,
		&p.AdminApproved,
		&p.IsActive,
		&p.IsVerified,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *PgCounsellorRepository) Create(ctx context.Context, profile domain.CounsellorProfile) error {
	_, err := r.pool.Exec(ctx, insertCounsellorQuery, counsellorInsertArgs(profile)...)
	return translateUnique(err)
}

func (r *PgCounsellorRepository) GetByID(ctx context.Context, id string) (domain.CounsellorProfile, error) {
	const query = `SELECT ` + counsellorColumns + ` FROM counsellor_profiles WHERE id = $1`
	return scanCounsellor(r.pool.QueryRow(ctx, query, id))
}

func (r *PgCounsellorRepository) GetByEmail(ctx context.Context, email string) (domain.CounsellorProfile, error) {
	const query = `SELECT ` + counsellorColumns + ` FROM counsellor_profiles WHERE lower(email) = lower($1)`
	return scanCounsellor(r.pool.QueryRow(ctx, query, email))
}

func (r *PgCounsellorRepository) List(ctx context.Context) ([]domain.CounsellorProfile, error) {
	const query = `
		SELECT id, user_id, fullname, email, dob, gender, contact_number,
			counselling_type, specialties, bio, qualifications, years_experience,
			languages, hourly_rate, availability, session_type,
			calendar_integration, license_number, is_active, is_verified,
			created_at, updated_at
		FROM counsellor_profiles
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.CounsellorProfile
	for rows.Next() {
		var p domain.CounsellorProfile
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Fullname,
			&p.Email,
			&p.DOB,
			&p.Gender,
			&p.ContactNumber,
			&p.CounsellingType,
			&p.Specialties,
			&p.Bio,
			&p.Qualifications,
			&p.YearsExperience,
			&p.Languages,
			&p.HourlyRate,
			&p.Availability,
			&p.SessionType,
			&p.CalendarIntegration,
			&p.LicenseNumber,
			&p.IsActive,
			&p.IsVerified,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *PgCounsellorRepository) Update(ctx context.Context, profile domain.CounsellorProfile) error {
	const query = `
		UPDATE counsellor_profiles SET
			fullname = $2, email = $3, dob = $4, gender = $5,
			contact_number = $6, counselling_type = $7, specialties = $8,
			bio = $9, qualifications = $10, years_experience = $11,
			languages = $12, hourly_rate = $13, availability = $14,
			session_type = $15, calendar_integration = $16,
			license_number = $17, documents = $18, history = $19,
			admin_approved = $20, is_active = $21, is_verified = $22,
			updated_at = $23
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.Fullname,
		profile.Email,
		profile.DOB,
		profile.Gender,
		profile.ContactNumber,
		profile.CounsellingType,
		profile.Specialties,
		profile.Bio,
		profile.Qualifications,
		profile.YearsExperience,
		profile.Languages,
		profile.HourlyRate,
		profile.Availability,
		profile.SessionType,
		profile.CalendarIntegration,
		profile.LicenseNumber,
		profile.Documents,
		profile.History,
		profile.AdminApproved,
		profile.IsActive,
		profile.IsVerified,
		profile.UpdatedAt,
	)
	if err != nil {
		return translateUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgCounsellorRepository) EmailInUseByOther(ctx context.Context, email, id string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM counsellor_profiles
			WHERE lower(email) = lower($1) AND id <> $2
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, email, id).Scan(&exists)
	return exists, err
}

func (r *PgCounsellorRepository) LicenseInUseByOther(ctx context.Context, license, id string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM counsellor_profiles
			WHERE license_number = $1 AND id <> $2
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, license, id).Scan(&exists)
	return exists, err
}
