package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/domain"
)

const credentialColumns = `id, identifier, email, password_hash, must_rotate,
	profile_photo_key, created_at, updated_at`

type credentialsRepo struct {
	q *Queries
}

func (r *credentialsRepo) CreateCredential(ctx context.Context, c domain.Credential) (int64, error) {
	now := c.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var id int64
	err := r.q.queryRow(ctx, `
		INSERT INTO credentials (identifier, email, password_hash, must_rotate,
			profile_photo_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		c.Identifier, c.Email, c.PasswordHash, c.MustRotate,
		mapStringNull(c.ProfilePhotoKey), now, now,
	).Scan(&id)
	if err != nil {
		return 0, r.q.mapErr(err)
	}
	return id, nil
}

func (r *credentialsRepo) GetCredentialByID(ctx context.Context, id int64) (domain.Credential, error) {
	row := r.q.queryRow(ctx, `SELECT `+credentialColumns+` FROM credentials WHERE id = ?`, id)
	return r.scan(row)
}

func (r *credentialsRepo) GetCredentialByIdentifier(ctx context.Context, identifier string) (domain.Credential, error) {
	row := r.q.queryRow(ctx, `SELECT `+credentialColumns+` FROM credentials WHERE identifier = ?`, identifier)
	return r.scan(row)
}

func (r *credentialsRepo) UpdatePasswordHash(
	ctx context.Context,
	id int64,
	hash string,
	mustRotate bool,
	at time.Time,
) error {
	return r.q.execOne(ctx,
		`UPDATE credentials SET password_hash = ?, must_rotate = ?, updated_at = ? WHERE id = ?`,
		hash, mustRotate, at, id,
	)
}

func (r *credentialsRepo) UpdateProfilePhotoKey(ctx context.Context, identifier, key string, at time.Time) error {
	return r.q.execOne(ctx,
		`UPDATE credentials SET profile_photo_key = ?, updated_at = ? WHERE identifier = ?`,
		mapStringNull(key), at, identifier,
	)
}

func (r *credentialsRepo) scan(row *sql.Row) (domain.Credential, error) {
	var (
		c        domain.Credential
		photoKey sql.NullString
	)
	err := row.Scan(
		&c.ID, &c.Identifier, &c.Email, &c.PasswordHash, &c.MustRotate,
		&photoKey, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Credential{}, r.q.mapErr(err)
	}
	c.ProfilePhotoKey = mapNullString(photoKey)
	return c, nil
}
