package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"ubiflow_gateway/internal/ubiflow/decode"
	"ubiflow_gateway/internal/ubiflow/domain"
)

// createdAfterLayout is the timestamp format of the createdAt filter.
const createdAfterLayout = "2006-01-02T15:04:05-07:00"

// GetContacts returns the leads created after createdAfter, optionally
// restricted to one ad. A page that fails to load ends paging silently and
// its contacts are lost; use GetContactsStrict to see such failures.
func (c *Client) GetContacts(ctx context.Context, createdAfter time.Time, ad *domain.Ad) []domain.Contact {
	contacts, _ := c.collectContacts(ctx, createdAfter, ad, false)
	return contacts
}

// GetContactsStrict is GetContacts with page failures returned to the caller
// instead of being read as the end of the listing.
func (c *Client) GetContactsStrict(ctx context.Context, createdAfter time.Time, ad *domain.Ad) ([]domain.Contact, error) {
	return c.collectContacts(ctx, createdAfter, ad, true)
}

func (c *Client) collectContacts(ctx context.Context, createdAfter time.Time, ad *domain.Ad, strict bool) ([]domain.Contact, error) {
	contacts := make([]domain.Contact, 0)
	decodeContact := contactDecoder(c.now)

	for page := 1; ; page++ {
		raw, err := c.get(ctx, "mail_tracking_contacts", c.contactsQuery(page, createdAfter, ad), false)
		if err != nil {
			if strict {
				return nil, err
			}
			c.log.WithContext(ctx).Warn("ubiflow contacts page failed, stopping", "page", page, "error", err)
			break
		}

		decoded := decode.List(raw, decodeContact)
		if len(decoded) == 0 {
			break
		}
		contacts = append(contacts, decoded...)
	}

	return contacts, nil
}

func (c *Client) contactsQuery(page int, createdAfter time.Time, ad *domain.Ad) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("ad.advertiser.id", c.clientID)
	query.Set("createdAt[after]", createdAfter.Format(createdAfterLayout))
	if ad != nil {
		query.Set("ad.reference", ad.Reference())
	}
	return query
}
