package repository

import (
	"context"
	"time"
)

// ContactRepository stores imported leads.
type ContactRepository interface {
	// Upsert inserts or refreshes contacts by dedupe key and returns how many rows were written.
	Upsert(ctx context.Context, contacts []Contact) (int, error)
	// LatestCreatedAt returns the newest creation time reported by the API, or nil
	// when no stored contact has one. Estimated timestamps never count.
	LatestCreatedAt(ctx context.Context) (*time.Time, error)
	// List returns stored contacts, newest first.
	List(ctx context.Context, params ListParams) ([]Contact, error)
}

// Ensure Repository implements ContactRepository
var _ ContactRepository = (*Repository)(nil)
