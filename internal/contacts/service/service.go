// Package service imports leads from the syndication API into Postgres.
package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"ubiflow_gateway/internal/contacts/repository"
	"ubiflow_gateway/internal/ubiflow/domain"
	"ubiflow_gateway/platform/logger"
	"ubiflow_gateway/platform/phone"
)

const defaultLookback = 30 * 24 * time.Hour

// ContactSource lists leads created after a point in time. Page failures
// must be returned so the import cursor is never advanced past lost data.
type ContactSource interface {
	GetContactsStrict(ctx context.Context, createdAfter time.Time, ad *domain.Ad) ([]domain.Contact, error)
}

// SyncResult summarizes one import run.
type SyncResult struct {
	Since   time.Time `json:"since"`
	Fetched int       `json:"fetched"`
	Written int       `json:"written"`
}

type Service struct {
	source   ContactSource
	repo     repository.ContactRepository
	log      *logger.Logger
	region   string
	lookback time.Duration
	now      func() time.Time
}

func New(source ContactSource, repo repository.ContactRepository, log *logger.Logger, region string, lookback time.Duration) *Service {
	if lookback <= 0 {
		lookback = defaultLookback
	}
	return &Service{
		source:   source,
		repo:     repo,
		log:      log,
		region:   region,
		lookback: lookback,
		now:      time.Now,
	}
}

// Sync imports every contact created after since. A nil since resumes from
// the newest stored contact, or from the lookback window on an empty table.
func (s *Service) Sync(ctx context.Context, since *time.Time) (SyncResult, error) {
	cursor, err := s.resolveCursor(ctx, since)
	if err != nil {
		return SyncResult{}, err
	}

	log := s.log.WithContext(ctx)
	log.Info("contact sync started", "since", cursor)

	contacts, err := s.source.GetContactsStrict(ctx, cursor, nil)
	if err != nil {
		log.Error("contact sync fetch failed", "since", cursor, "error", err)
		return SyncResult{}, fmt.Errorf("fetch contacts: %w", err)
	}

	records := make([]repository.Contact, 0, len(contacts))
	for _, contact := range contacts {
		records = append(records, s.toRecord(contact))
	}

	written, err := s.repo.Upsert(ctx, records)
	if err != nil {
		log.DatabaseError("upsert contacts", err)
		return SyncResult{}, fmt.Errorf("store contacts: %w", err)
	}

	result := SyncResult{Since: cursor, Fetched: len(contacts), Written: written}
	log.Info("contact sync finished", "since", cursor, "fetched", result.Fetched, "written", result.Written)
	return result, nil
}

// List returns imported contacts for the gateway.
func (s *Service) List(ctx context.Context, params repository.ListParams) ([]repository.Contact, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) resolveCursor(ctx context.Context, since *time.Time) (time.Time, error) {
	if since != nil {
		return *since, nil
	}

	latest, err := s.repo.LatestCreatedAt(ctx)
	if err != nil {
		s.log.DatabaseError("latest contact", err)
		return time.Time{}, fmt.Errorf("resolve sync cursor: %w", err)
	}
	if latest != nil {
		return *latest, nil
	}
	return s.now().Add(-s.lookback), nil
}

func (s *Service) toRecord(c domain.Contact) repository.Contact {
	record := repository.Contact{
		DedupeKey:             dedupeKey(c),
		RemoteID:              c.ID,
		PortalID:              c.PortalID,
		AdReference:           c.AdReference,
		URLOnPortal:           c.URLOnPortal,
		Civility:              c.Civility,
		FirstName:             c.FirstName,
		Name:                  c.Name,
		Identity:              c.Identity,
		Email:                 c.Email,
		Phone:                 c.Phone,
		AddressLocality:       c.AddressLocality,
		PostalCode:            c.PostalCode,
		AdditionalInformation: c.AdditionalInformation,
		Comment:               c.Comment,
		CreatedAt:             c.CreatedAt,
		CreatedAtEstimated:    c.CreatedAtEstimated,
	}
	if c.Phone != nil {
		if normalized, ok := phone.NormalizeE164(*c.Phone, s.region); ok {
			record.PhoneE164 = &normalized
		}
	}
	return record
}

// dedupeKey identifies a contact across runs. Contacts without a remote id
// are keyed by their content; createdAt is left out since it may be a
// fallback timestamp.
func dedupeKey(c domain.Contact) string {
	if c.ID != nil {
		return "id:" + strconv.Itoa(*c.ID)
	}

	c.CreatedAt = time.Time{}
	c.CreatedAtEstimated = false
	raw, _ := json.Marshal(c)
	sum := sha1.Sum(raw)
	return "sha1:" + hex.EncodeToString(sum[:])
}
