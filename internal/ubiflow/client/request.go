package client

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ubiflow_gateway/internal/ubiflow/decode"
	"ubiflow_gateway/platform/apperr"
	"ubiflow_gateway/platform/logger"
)

type cacheKeyParts struct {
	Class string     `json:"class"`
	Path  string     `json:"path"`
	Query url.Values `json:"query"`
}

// requestCacheKey derives a stable key from the request path and query.
// url.Values marshals with sorted keys, so equal queries give equal keys.
func requestCacheKey(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	raw, _ := json.Marshal(cacheKeyParts{Class: cacheNamespace, Path: path, Query: query})
	sum := sha1.Sum(raw)
	return hex.EncodeToString(sum[:])
}

// get performs an authenticated GET. With useCache, a cached list-like body
// is returned without a network call and a fresh body is stored for cacheTTL.
func (c *Client) get(ctx context.Context, path string, query url.Values, useCache bool) (any, error) {
	if !useCache || c.store == nil {
		return c.request(ctx, http.MethodGet, path, query, nil)
	}

	key := requestCacheKey(path, query)
	if cached, ok := c.cachedResponse(ctx, key); ok {
		return cached, nil
	}

	data, err := c.request(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(data)
	if err == nil {
		if err := c.store.Set(ctx, key, raw, c.now().Add(cacheTTL)); err != nil {
			c.log.CacheError("set", key, err)
		}
	}
	return data, nil
}

func (c *Client) cachedResponse(ctx context.Context, key string) (any, bool) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.CacheError("get", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	data, err := decode.Parse(raw)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Client) post(ctx context.Context, path string, body any) (any, error) {
	return c.request(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) put(ctx context.Context, path string, body any) (any, error) {
	return c.request(ctx, http.MethodPut, path, nil, body)
}

// delete treats any status above 300 as a refusal. 204 yields an empty list.
func (c *Client) delete(ctx context.Context, path string) (any, error) {
	resp, err := c.send(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode > 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, apperr.Validation(fmt.Sprintf("delete %s refused with status %d", path, resp.StatusCode)).
			WithOp("ubiflow.delete").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
	if resp.StatusCode == http.StatusNoContent {
		return []any{}, nil
	}

	return c.readBody(http.MethodDelete, path, resp)
}

// request sends an authenticated call and decodes the JSON body.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return c.readBody(method, path, resp)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.apiURL + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s payload: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", method, path, err)
	}
	req.Header.Set(authHeader, "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID, ok := ctx.Value(logger.RequestIDKey).(string); ok && requestID != "" {
		req.Header.Set(requestIDHeader, requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithContext(ctx).UpstreamError(method, path, err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.log.WithContext(ctx).UpstreamRequest(method, path, resp.StatusCode, float64(time.Since(start).Microseconds())/1000)

	return resp, nil
}

func (c *Client) readBody(method, path string, resp *http.Response) (any, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	parsed, err := decode.Parse(data)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, fmt.Sprintf("%s %s returned an unreadable body", method, path), err).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
	return parsed, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}
