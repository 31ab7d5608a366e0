package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"ubiflow_gateway/internal/ubiflow/decode"
	"ubiflow_gateway/internal/ubiflow/domain"
)

// GetPortal returns the portal with the given id, or nil when the response
// lacks one of id, code or name.
func (c *Client) GetPortal(ctx context.Context, id int) (*domain.Portal, error) {
	raw, err := c.get(ctx, fmt.Sprintf("portals/%d", id), nil, true)
	if err != nil {
		return nil, err
	}

	portal, ok := decode.One(raw, decodePortal)
	if !ok {
		return nil, nil
	}
	return &portal, nil
}

// GetPortals walks every page of the portal listing for a universe. Paging
// stops at the first page that yields no usable portal.
func (c *Client) GetPortals(ctx context.Context, universe domain.Universe) ([]domain.Portal, error) {
	portals := make([]domain.Portal, 0)

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("universe.code", universe.Code())

		raw, err := c.get(ctx, "portals", query, true)
		if err != nil {
			return nil, err
		}

		decoded := decode.List(raw, decodePortal)
		if len(decoded) == 0 {
			break
		}
		portals = append(portals, decoded...)
	}

	return portals, nil
}
