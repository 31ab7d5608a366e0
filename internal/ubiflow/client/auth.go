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

	"ubiflow_gateway/internal/ubiflow/decode"
	"ubiflow_gateway/platform/apperr"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Authenticate returns the bearer token, logging in only when neither the
// in-memory copy nor the external cache holds one. The token is never
// refreshed: expiry is governed solely by the cache TTL.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	if token := c.memoizedToken(); token != "" {
		return token, nil
	}

	value, err, _ := c.tokenGroup.Do(c.tokenCacheKey(), func() (any, error) {
		if token := c.memoizedToken(); token != "" {
			return token, nil
		}

		if token, ok := c.cachedToken(ctx); ok {
			c.memoizeToken(token)
			return token, nil
		}

		token, err := c.login(ctx)
		if err != nil {
			return "", err
		}
		c.memoizeToken(token)
		c.storeToken(ctx, token)
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

func (c *Client) memoizedToken() string {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	return c.token
}

func (c *Client) memoizeToken(token string) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	c.token = token
}

func (c *Client) tokenCacheKey() string {
	sum := sha1.Sum([]byte(c.loginURL))
	return hex.EncodeToString(sum[:])
}

func (c *Client) cachedToken(ctx context.Context) (string, bool) {
	if c.store == nil {
		return "", false
	}

	key := c.tokenCacheKey()
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.CacheError("get", key, err)
		return "", false
	}
	if !ok {
		return "", false
	}

	var token string
	if err := json.Unmarshal(raw, &token); err != nil || token == "" {
		return "", false
	}
	return token, true
}

func (c *Client) storeToken(ctx context.Context, token string) {
	if c.store == nil {
		return
	}

	key := c.tokenCacheKey()
	raw, err := json.Marshal(token)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, raw, c.now().Add(cacheTTL)); err != nil {
		c.log.CacheError("set", key, err)
	}
}

func (c *Client) login(ctx context.Context) (string, error) {
	body, err := json.Marshal(loginRequest{Username: c.clientLogin, Password: c.clientSecret})
	if err != nil {
		return "", fmt.Errorf("marshal login payload: %w", err)
	}

	if err := c.wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError(http.MethodPost, "login", err)
		return "", fmt.Errorf("login request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read login response: %w", err)
	}

	raw, err := decode.Parse(data)
	if err != nil {
		c.log.Warn("ubiflow login response unreadable", "status", resp.StatusCode)
		return "", apperr.Wrap(apperr.KindUnauthorized, "token missing from response", err).WithOp("ubiflow.authenticate")
	}

	obj, _ := decode.AsObject(raw)
	token, ok := obj.String("token")
	if !ok {
		c.log.Warn("ubiflow login response without token", "status", resp.StatusCode)
		return "", apperr.Unauthorized("token missing from response").WithOp("ubiflow.authenticate")
	}

	c.log.Info("ubiflow token obtained")
	return token, nil
}
