package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Contact struct {
	ID                    uuid.UUID
	DedupeKey             string
	RemoteID              *int
	PortalID              *int
	AdReference           *string
	URLOnPortal           *string
	Civility              *string
	FirstName             *string
	Name                  *string
	Identity              *string
	Email                 *string
	Phone                 *string
	PhoneE164             *string
	AddressLocality       *string
	PostalCode            *string
	AdditionalInformation *string
	Comment               *string
	CreatedAt             time.Time
	CreatedAtEstimated    bool
	ImportedAt            time.Time
	UpdatedAt             time.Time
}

type ListParams struct {
	CreatedAfter *time.Time
	AdReference  *string
	Limit        int
}

const upsertContactSQL = `
	INSERT INTO ubiflow_contacts (
		id, dedupe_key, remote_id, portal_id, ad_reference, url_on_portal,
		civility, first_name, name, identity, email, phone, phone_e164,
		address_locality, postal_code, additional_information, comment,
		created_at, created_at_estimated
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	ON CONFLICT (dedupe_key) DO UPDATE SET
		portal_id = EXCLUDED.portal_id,
		ad_reference = EXCLUDED.ad_reference,
		url_on_portal = EXCLUDED.url_on_portal,
		civility = EXCLUDED.civility,
		first_name = EXCLUDED.first_name,
		name = EXCLUDED.name,
		identity = EXCLUDED.identity,
		email = EXCLUDED.email,
		phone = EXCLUDED.phone,
		phone_e164 = EXCLUDED.phone_e164,
		address_locality = EXCLUDED.address_locality,
		postal_code = EXCLUDED.postal_code,
		additional_information = EXCLUDED.additional_information,
		comment = EXCLUDED.comment,
		created_at = CASE
			WHEN ubiflow_contacts.created_at_estimated AND NOT EXCLUDED.created_at_estimated THEN EXCLUDED.created_at
			ELSE ubiflow_contacts.created_at
		END,
		created_at_estimated = ubiflow_contacts.created_at_estimated AND EXCLUDED.created_at_estimated,
		updated_at = now()
`

func (r *Repository) Upsert(ctx context.Context, contacts []Contact) (int, error) {
	if len(contacts) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	for _, c := range contacts {
		id := c.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(upsertContactSQL,
			id, c.DedupeKey, c.RemoteID, c.PortalID, c.AdReference, c.URLOnPortal,
			c.Civility, c.FirstName, c.Name, c.Identity, c.Email, c.Phone, c.PhoneE164,
			c.AddressLocality, c.PostalCode, c.AdditionalInformation, c.Comment,
			c.CreatedAt, c.CreatedAtEstimated,
		)
	}

	results := tx.SendBatch(ctx, batch)
	written := 0
	for i := range contacts {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("upsert contact %s: %w", contacts[i].DedupeKey, err)
		}
		written += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return written, nil
}

// LatestCreatedAt ignores estimated timestamps: they are local clock readings
// and may lie ahead of leads the API has not returned yet.
func (r *Repository) LatestCreatedAt(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT max(created_at) FROM ubiflow_contacts WHERE NOT created_at_estimated
	`).Scan(&latest)
	if err != nil {
		return nil, err
	}
	return latest, nil
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Contact, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, dedupe_key, remote_id, portal_id, ad_reference, url_on_portal,
			civility, first_name, name, identity, email, phone, phone_e164,
			address_locality, postal_code, additional_information, comment,
			created_at, created_at_estimated, imported_at, updated_at
		FROM ubiflow_contacts
		WHERE ($1::timestamptz IS NULL OR created_at > $1)
			AND ($2::text IS NULL OR ad_reference = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, params.CreatedAfter, params.AdReference, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]Contact, 0)
	for rows.Next() {
		var c Contact
		if err := rows.Scan(
			&c.ID,
			&c.DedupeKey,
			&c.RemoteID,
			&c.PortalID,
			&c.AdReference,
			&c.URLOnPortal,
			&c.Civility,
			&c.FirstName,
			&c.Name,
			&c.Identity,
			&c.Email,
			&c.Phone,
			&c.PhoneE164,
			&c.AddressLocality,
			&c.PostalCode,
			&c.AdditionalInformation,
			&c.Comment,
			&c.CreatedAt,
			&c.CreatedAtEstimated,
			&c.ImportedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
