package repo

import (
	"context"
	"database/sql"

	"github.com/accredian/referral-api/internal/models"
)

// ==========================
// ReferralRepo
// ==========================
type ReferralRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewReferralRepo(db *sql.DB) *ReferralRepo {
	return &ReferralRepo{DB: db}
}

// ==========================
// Create Referral
// ==========================
func (r *ReferralRepo) Create(ctx context.Context, referrerID int, refereeName, refereeEmail, message string) (*models.Referral, error) {
	// Empty message is stored as NULL so the column reflects "not provided".
	query := `
		INSERT INTO referrals (referrer_id, referee_name, referee_email, message)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, referrer_id, referee_name, referee_email, COALESCE(message, ''), created_at
	`

	ref := &models.Referral{}

	err := r.DB.QueryRowContext(ctx, query, referrerID, refereeName, refereeEmail, message).
		Scan(&ref.ID, &ref.ReferrerID, &ref.RefereeName, &ref.RefereeEmail, &ref.Message, &ref.CreatedAt)

	if err != nil {
		return nil, err
	}

	return ref, nil
}

// ==========================
// List By Referrer
// ==========================
func (r *ReferralRepo) ListByReferrer(ctx context.Context, referrerID int) ([]models.Referral, error) {
	query := `
		SELECT id, referrer_id, referee_name, referee_email, COALESCE(message, ''), created_at
		FROM referrals
		WHERE referrer_id = $1
		ORDER BY id
	`

	rows, err := r.DB.QueryContext(ctx, query, referrerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []models.Referral
	for rows.Next() {
		var ref models.Referral
		if err := rows.Scan(&ref.ID, &ref.ReferrerID, &ref.RefereeName, &ref.RefereeEmail, &ref.Message, &ref.CreatedAt); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}
