// Package client provides the HTTP client for the Ubiflow classifieds
// syndication API: portal listings, ad publication and lead retrieval.
package client

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"ubiflow_gateway/platform/cache"
	"ubiflow_gateway/platform/config"
	"ubiflow_gateway/platform/logger"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	// cacheTTL applies to both the bearer token and cached GET responses.
	cacheTTL = 10 * time.Hour

	authHeader      = "X-AUTH-TOKEN"
	requestIDHeader = "X-Request-ID"

	defaultHTTPTimeout = 30 * time.Second
	maxResponseBytes   = 10 << 20

	// cacheNamespace scopes GET cache keys to this client.
	cacheNamespace = "ubiflow.client"
)

// HTTPDoer is the transport used for every call. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the syndication API on behalf of one advertiser account.
// It is safe for concurrent use.
type Client struct {
	httpClient HTTPDoer
	store      cache.Store
	limiter    *rate.Limiter
	log        *logger.Logger
	now        func() time.Time

	apiURL   string
	loginURL string

	clientID     string
	clientCode   string
	clientLogin  string
	clientSecret string

	tokenMu    sync.Mutex
	token      string
	tokenGroup singleflight.Group
}

// New creates a client. httpClient may be nil, in which case a plain
// *http.Client with the configured timeout is used. store may be nil to
// disable the external cache; the token is then only memoized in memory.
func New(cfg config.UbiflowConfig, log *logger.Logger, httpClient HTTPDoer, store cache.Store) *Client {
	if httpClient == nil {
		timeout := cfg.GetUbiflowHTTPTimeout()
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if rps := cfg.GetUbiflowRateLimit(); rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}

	apiURL := cfg.GetUbiflowAPIURL()
	if apiURL == "" {
		apiURL = config.DefaultUbiflowAPIURL
	}
	loginURL := cfg.GetUbiflowLoginURL()
	if loginURL == "" {
		loginURL = config.DefaultUbiflowLoginURL
	}

	return &Client{
		httpClient:   httpClient,
		store:        store,
		limiter:      limiter,
		log:          log,
		now:          time.Now,
		apiURL:       strings.TrimRight(apiURL, "/") + "/",
		loginURL:     loginURL,
		clientID:     cfg.GetUbiflowClientID(),
		clientCode:   cfg.GetUbiflowClientCode(),
		clientLogin:  cfg.GetUbiflowClientLogin(),
		clientSecret: cfg.GetUbiflowClientSecret(),
	}
}
