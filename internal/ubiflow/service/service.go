// Package service exposes the syndication client to the gateway handlers.
package service

import (
	"context"
	"fmt"
	"time"

	"ubiflow_gateway/internal/ubiflow/domain"
	"ubiflow_gateway/internal/ubiflow/transport"
	"ubiflow_gateway/platform/apperr"
	"ubiflow_gateway/platform/logger"
)

// SyndicationClient is the subset of the API client used by the gateway.
type SyndicationClient interface {
	GetPortal(ctx context.Context, id int) (*domain.Portal, error)
	GetPortals(ctx context.Context, universe domain.Universe) ([]domain.Portal, error)
	PublishAd(ctx context.Context, ad *domain.Ad) (*domain.Ad, error)
	UnpublishAd(ctx context.Context, ad *domain.Ad) (*domain.Ad, error)
	RemoveAd(ctx context.Context, ad *domain.Ad) (*domain.Ad, error)
	GetAdPublications(ctx context.Context, ad *domain.Ad) ([]domain.AdPublication, error)
	GetContacts(ctx context.Context, createdAfter time.Time, ad *domain.Ad) []domain.Contact
}

type Service struct {
	client SyndicationClient
	log    *logger.Logger
}

func New(client SyndicationClient, log *logger.Logger) *Service {
	return &Service{client: client, log: log}
}

func (s *Service) ListPortals(ctx context.Context, req transport.ListPortalsRequest) (transport.PortalListResponse, error) {
	universe, err := domain.ParseUniverse(req.Universe)
	if err != nil {
		return transport.PortalListResponse{}, apperr.BadRequest(err.Error())
	}

	portals, err := s.client.GetPortals(ctx, universe)
	if err != nil {
		return transport.PortalListResponse{}, err
	}
	return transport.PortalListResponse{Items: portals, Total: len(portals)}, nil
}

func (s *Service) GetPortal(ctx context.Context, id int) (domain.Portal, error) {
	portal, err := s.client.GetPortal(ctx, id)
	if err != nil {
		return domain.Portal{}, err
	}
	if portal == nil {
		return domain.Portal{}, apperr.NotFound(fmt.Sprintf("portal %d not found", id))
	}
	return *portal, nil
}

func (s *Service) PublishAd(ctx context.Context, req transport.PublishAdRequest) (transport.AdResponse, error) {
	ad, err := toAd(req)
	if err != nil {
		return transport.AdResponse{}, err
	}

	published, err := s.client.PublishAd(ctx, ad)
	if err != nil {
		return transport.AdResponse{}, err
	}
	return toAdResponse(published), nil
}

func (s *Service) UnpublishAd(ctx context.Context, id int, req transport.UnpublishAdRequest) (transport.AdResponse, error) {
	ad, err := s.client.UnpublishAd(ctx, adRef(id, req.Reference))
	if err != nil {
		return transport.AdResponse{}, err
	}
	s.log.WithContext(ctx).Info("ubiflow ad unpublished", "adId", id)
	return toAdResponse(ad), nil
}

func (s *Service) RemoveAd(ctx context.Context, id int) error {
	_, err := s.client.RemoveAd(ctx, adRef(id, ""))
	return err
}

func (s *Service) ListPublications(ctx context.Context, id int) (transport.PublicationListResponse, error) {
	publications, err := s.client.GetAdPublications(ctx, adRef(id, ""))
	if err != nil {
		return transport.PublicationListResponse{}, err
	}
	return transport.PublicationListResponse{Items: publications, Total: len(publications)}, nil
}

func (s *Service) ListContacts(ctx context.Context, req transport.ListContactsRequest) transport.ContactListResponse {
	var ad *domain.Ad
	if req.Reference != "" {
		ad = domain.NewAd(domain.AdParams{Reference: req.Reference})
	}

	contacts := s.client.GetContacts(ctx, req.CreatedAfter, ad)
	return transport.ContactListResponse{Items: contacts, Total: len(contacts)}
}

func adRef(id int, reference string) *domain.Ad {
	return domain.NewAd(domain.AdParams{ID: &id, Reference: reference})
}

func toAd(req transport.PublishAdRequest) (*domain.Ad, error) {
	transaction, err := domain.ParseTransaction(req.Transaction)
	if err != nil {
		return nil, apperr.BadRequest(err.Error())
	}

	ad := domain.NewAd(domain.AdParams{
		ID:          req.ID,
		Reference:   req.Reference,
		Transaction: transaction,
		Price:       req.Price,
		HousingType: req.HousingType,
		Title:       req.Title,
		Description: req.Description,
		Pictures:    req.Pictures,
		Portals:     req.Portals,
	})

	for _, entry := range req.Data {
		key, err := domain.ParseDataKey(entry.Code)
		if err != nil {
			return nil, apperr.BadRequest(err.Error())
		}
		ad.SetData(key, entry.Value)
	}
	return ad, nil
}

func toAdResponse(ad *domain.Ad) transport.AdResponse {
	resp := transport.AdResponse{
		Reference:   ad.Reference(),
		Transaction: ad.Transaction().Code(),
		Price:       ad.Price(),
		HousingType: ad.HousingType(),
		Title:       ad.Title(),
		Description: ad.Description(),
		Pictures:    ad.Pictures(),
		Portals:     ad.Portals(),
		Data:        make([]transport.DataEntry, 0),
	}
	if id, ok := ad.ID(); ok {
		resp.ID = &id
	}
	if resp.Pictures == nil {
		resp.Pictures = []string{}
	}
	if resp.Portals == nil {
		resp.Portals = []string{}
	}
	for _, entry := range ad.Data() {
		resp.Data = append(resp.Data, transport.DataEntry{Code: entry.Key.Code(), Value: entry.Value})
	}
	return resp
}
