package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"ubiflow_gateway/internal/ubiflow/decode"
	"ubiflow_gateway/internal/ubiflow/domain"
	"ubiflow_gateway/platform/apperr"
)

type codeRef struct {
	Code string `json:"code"`
}

// publishRequest is the ad body plus the account it is published under.
type publishRequest struct {
	Advertiser codeRef `json:"advertiser"`
	Source     codeRef `json:"source"`
	domain.AdPayload
}

type selectionRequest struct {
	Selected bool `json:"selected"`
}

// PublishAd creates the ad (or updates it when it already has an id), then
// selects exactly the publications whose portal is listed on the ad.
func (c *Client) PublishAd(ctx context.Context, ad *domain.Ad) (*domain.Ad, error) {
	body := publishRequest{
		Advertiser: codeRef{Code: c.clientCode},
		Source:     codeRef{Code: c.clientLogin},
		AdPayload:  ad.Payload(),
	}

	var (
		raw any
		err error
	)
	if id, ok := ad.ID(); ok {
		raw, err = c.put(ctx, fmt.Sprintf("ads/%d", id), body)
	} else {
		raw, err = c.post(ctx, "ads", body)
	}
	if err != nil {
		return nil, err
	}

	obj, _ := decode.AsObject(raw)
	id, ok := obj.Int("id")
	if !ok {
		return nil, apperr.Upstream("ad identifier missing from response").WithOp("ubiflow.publishAd")
	}
	ad.AssignID(id)
	c.log.WithContext(ctx).Info("ubiflow ad saved", "adId", id, "reference", ad.Reference())

	publications, err := c.GetAdPublications(ctx, ad)
	if err != nil {
		return nil, err
	}
	for _, publication := range publications {
		if err := c.UpdateAdPublication(ctx, publication, ad.TargetsPortal(publication.PortalCode())); err != nil {
			return nil, err
		}
	}

	return ad, nil
}

// UnpublishAd deselects every publication of an already published ad.
func (c *Client) UnpublishAd(ctx context.Context, ad *domain.Ad) (*domain.Ad, error) {
	if _, ok := ad.ID(); !ok {
		return nil, apperr.Validation("cannot unpublish an ad without an identifier").WithOp("ubiflow.unpublishAd")
	}

	publications, err := c.GetAdPublications(ctx, ad)
	if err != nil {
		return nil, err
	}
	for _, publication := range publications {
		if err := c.UpdateAdPublication(ctx, publication, false); err != nil {
			return nil, err
		}
	}

	return ad, nil
}

// RemoveAd deletes an already published ad.
func (c *Client) RemoveAd(ctx context.Context, ad *domain.Ad) (*domain.Ad, error) {
	id, ok := ad.ID()
	if !ok {
		return nil, apperr.Validation("cannot delete an ad without an identifier").WithOp("ubiflow.removeAd")
	}

	if _, err := c.delete(ctx, fmt.Sprintf("ads/%d", id)); err != nil {
		return nil, err
	}
	c.log.WithContext(ctx).Info("ubiflow ad removed", "adId", id)

	return ad, nil
}

// GetAdPublications lists the per-portal publication states of an ad.
// Elements missing a required field are skipped.
func (c *Client) GetAdPublications(ctx context.Context, ad *domain.Ad) ([]domain.AdPublication, error) {
	id, ok := ad.ID()
	if !ok {
		return nil, apperr.Validation("cannot list publications of an ad without an identifier").WithOp("ubiflow.getAdPublications")
	}

	query := url.Values{}
	query.Set("ad.id", strconv.Itoa(id))

	raw, err := c.get(ctx, "ad_publications", query, false)
	if err != nil {
		return nil, err
	}
	return decode.List(raw, decodeAdPublication), nil
}

// UpdateAdPublication sets the selected flag of one publication. The
// response body is not inspected.
func (c *Client) UpdateAdPublication(ctx context.Context, publication domain.AdPublication, selected bool) error {
	_, err := c.put(ctx, fmt.Sprintf("ad_publications/%d", publication.ID), selectionRequest{Selected: selected})
	return err
}
