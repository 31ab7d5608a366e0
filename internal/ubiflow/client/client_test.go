package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"ubiflow_gateway/internal/ubiflow/domain"
	"ubiflow_gateway/platform/apperr"
	"ubiflow_gateway/platform/cache"
	"ubiflow_gateway/platform/logger"
)

type testConfig struct {
	apiURL   string
	loginURL string
}

func (c testConfig) GetUbiflowClientID() string           { return "adv-42" }
func (c testConfig) GetUbiflowClientCode() string         { return "AG123" }
func (c testConfig) GetUbiflowClientLogin() string        { return "agency-login" }
func (c testConfig) GetUbiflowClientSecret() string       { return "s3cret" }
func (c testConfig) GetUbiflowAPIURL() string             { return c.apiURL }
func (c testConfig) GetUbiflowLoginURL() string           { return c.loginURL }
func (c testConfig) GetUbiflowHTTPTimeout() time.Duration { return 5 * time.Second }
func (c testConfig) GetUbiflowRateLimit() float64         { return 0 }

type recordedCall struct {
	Method string
	Path   string
	Query  url.Values
	Token  string
	Body   map[string]any
}

// fakeAPI serves the login endpoint and routes API calls by "METHOD path".
type fakeAPI struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	logins    int
	loginBody string
	calls     []recordedCall
	routes    map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{
		t:         t,
		loginBody: `{"token":"tok-1"}`,
		routes:    make(map[string]http.HandlerFunc),
	}
	api.server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeAPI) handle(method, path string, handler http.HandlerFunc) {
	a.routes[method+" "+path] = handler
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/login_check" {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["username"] != "agency-login" || creds["password"] != "s3cret" {
			a.t.Errorf("unexpected login credentials: %v", creds)
		}
		a.mu.Lock()
		a.logins++
		body := a.loginBody
		a.mu.Unlock()
		writeBody(w, http.StatusOK, body)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/")
	call := recordedCall{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.Query(),
		Token:  r.Header.Get(authHeader),
	}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		if err := json.Unmarshal(raw, &call.Body); err != nil {
			a.t.Errorf("request body is not a json object: %v", err)
		}
	}

	a.mu.Lock()
	a.calls = append(a.calls, call)
	handler := a.routes[r.Method+" "+path]
	a.mu.Unlock()

	if handler == nil {
		writeBody(w, http.StatusNotFound, `{"error":"not found"}`)
		return
	}
	handler(w, r)
}

func (a *fakeAPI) recorded() []recordedCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]recordedCall(nil), a.calls...)
}

func (a *fakeAPI) loginCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.logins
}

func (a *fakeAPI) client(store cache.Store) *Client {
	cfg := testConfig{
		apiURL:   a.server.URL + "/api/",
		loginURL: a.server.URL + "/login_check",
	}
	return New(cfg, logger.NewWithWriter("development", io.Discard), a.server.Client(), store)
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, body)
	}
}

// pagedResponder serves bodies[page-1] and an empty list past the end.
func pagedResponder(bodies ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 || page > len(bodies) {
			writeBody(w, http.StatusOK, `[]`)
			return
		}
		writeBody(w, http.StatusOK, bodies[page-1])
	}
}

func sampleAd(portals ...string) *domain.Ad {
	return domain.NewAd(domain.AdParams{
		Reference:   "REF-1",
		Transaction: domain.TransactionSale,
		Price:       250000,
		HousingType: 1200,
		Title:       "Maison de ville",
		Description: "Trois chambres",
		Pictures:    []string{"https://img.example/1.jpg"},
		Portals:     portals,
	})
}

func TestAuthenticateLogsInOnceAcrossCalls(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "portals/1", respond(`{"id":1,"code":"SL","name":"SeLoger"}`))
	c := api.client(nil)

	for i := 0; i < 5; i++ {
		if _, err := c.GetPortal(context.Background(), 1); err != nil {
			t.Fatalf("GetPortal: %v", err)
		}
	}

	if got := api.loginCount(); got != 1 {
		t.Fatalf("expected one login, got %d", got)
	}
	for _, call := range api.recorded() {
		if call.Token != "Bearer tok-1" {
			t.Fatalf("expected bearer header, got %q", call.Token)
		}
	}
}

func TestAuthenticateConcurrentCallersShareOneLogin(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Authenticate(context.Background()); err != nil {
				t.Errorf("Authenticate: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := api.loginCount(); got != 1 {
		t.Fatalf("expected one login, got %d", got)
	}
}

func TestAuthenticateReadsAndWritesTokenCache(t *testing.T) {
	api := newFakeAPI(t)
	store := cache.NewMemory()
	c := api.client(store)

	token, err := c.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("unexpected token %q", token)
	}

	raw, ok, _ := store.Get(context.Background(), c.tokenCacheKey())
	if !ok || string(raw) != `"tok-1"` {
		t.Fatalf("expected token cached, got %q (hit=%v)", raw, ok)
	}

	// A second client sharing the store must not log in again.
	other := api.client(store)
	if _, err := other.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got := api.loginCount(); got != 1 {
		t.Fatalf("expected cached token to be reused, got %d logins", got)
	}
}

func TestAuthenticateFailsWithoutToken(t *testing.T) {
	api := newFakeAPI(t)
	api.loginBody = `{"code":401,"message":"Invalid credentials."}`
	c := api.client(nil)

	_, err := c.Authenticate(context.Background())
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestGetPortalDecodesFields(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "portals/123", respond(`{"id":123,"code":"c","name":"n"}`))
	api.handle(http.MethodGet, "portals/124", respond(`{"id":124,"name":"n"}`))
	c := api.client(nil)

	portal, err := c.GetPortal(context.Background(), 123)
	if err != nil {
		t.Fatalf("GetPortal: %v", err)
	}
	if portal == nil || *portal != (domain.Portal{ID: 123, Code: "c", Name: "n"}) {
		t.Fatalf("unexpected portal %+v", portal)
	}

	missing, err := c.GetPortal(context.Background(), 124)
	if err != nil {
		t.Fatalf("GetPortal: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil portal when code is missing, got %+v", missing)
	}
}

func TestGetPortalsWalksPagesUntilEmpty(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "portals", pagedResponder(
		`[{"id":1,"code":"A","name":"a"},{"id":2,"code":"B","name":"b"}]`,
		`[{"id":3,"code":"C","name":"c"}]`,
	))
	c := api.client(nil)

	portals, err := c.GetPortals(context.Background(), domain.UniverseImmo)
	if err != nil {
		t.Fatalf("GetPortals: %v", err)
	}
	if len(portals) != 3 {
		t.Fatalf("expected 3 portals, got %d", len(portals))
	}
	for i, code := range []string{"A", "B", "C"} {
		if portals[i].Code != code {
			t.Fatalf("portal %d: expected %s, got %s", i, code, portals[i].Code)
		}
	}

	calls := api.recorded()
	if len(calls) != 3 {
		t.Fatalf("expected 3 GETs, got %d", len(calls))
	}
	for i, call := range calls {
		if call.Method != http.MethodGet || call.Path != "portals" {
			t.Fatalf("unexpected call %s %s", call.Method, call.Path)
		}
		if call.Query.Get("page") != []string{"1", "2", "3"}[i] {
			t.Fatalf("call %d: unexpected page %q", i, call.Query.Get("page"))
		}
		if call.Query.Get("universe.code") != "IMMO" {
			t.Fatalf("call %d: unexpected universe %q", i, call.Query.Get("universe.code"))
		}
	}
}

func TestGetPortalsStopsOnPageWithoutUsableEntries(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "portals", pagedResponder(
		`[{"id":1,"code":"A","name":"a"}]`,
		`[{"id":"x","code":"B","name":"b"},{"code":"C"}]`,
		`[{"id":3,"code":"C","name":"c"}]`,
	))
	c := api.client(nil)

	portals, err := c.GetPortals(context.Background(), domain.UniverseImmo)
	if err != nil {
		t.Fatalf("GetPortals: %v", err)
	}
	if len(portals) != 1 {
		t.Fatalf("expected 1 portal, got %d", len(portals))
	}
	if got := len(api.recorded()); got != 2 {
		t.Fatalf("expected paging to stop after 2 GETs, got %d", got)
	}
}

func TestCachedGetSkipsNetworkOnHit(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "portals/5", respond(`{"id":5,"code":"E","name":"e"}`))
	c := api.client(cache.NewMemory())

	for i := 0; i < 3; i++ {
		portal, err := c.GetPortal(context.Background(), 5)
		if err != nil || portal == nil || portal.Code != "E" {
			t.Fatalf("GetPortal: %+v %v", portal, err)
		}
	}
	if got := len(api.recorded()); got != 1 {
		t.Fatalf("expected a single network GET, got %d", got)
	}
}

func TestCachedGetIgnoresScalarCacheEntry(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "portals/5", respond(`{"id":5,"code":"E","name":"e"}`))
	store := cache.NewMemory()
	key := requestCacheKey("portals/5", nil)
	if err := store.Set(context.Background(), key, []byte(`"stale"`), time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	c := api.client(store)

	portal, err := c.GetPortal(context.Background(), 5)
	if err != nil || portal == nil {
		t.Fatalf("GetPortal: %+v %v", portal, err)
	}
	if got := len(api.recorded()); got != 1 {
		t.Fatalf("expected the scalar entry to be treated as a miss, got %d calls", got)
	}
}

func TestRequestCacheKeyIsStable(t *testing.T) {
	a := url.Values{}
	a.Set("page", "1")
	a.Set("universe.code", "IMMO")
	b := url.Values{}
	b.Set("universe.code", "IMMO")
	b.Set("page", "1")

	if requestCacheKey("portals", a) != requestCacheKey("portals", b) {
		t.Fatal("expected insertion order not to matter")
	}
	if requestCacheKey("portals", a) == requestCacheKey("ad_publications", a) {
		t.Fatal("expected path to be part of the key")
	}
}

const twoPublications = `[
	{"id":1,"selected":false,"publishable":true,"advertiserPublication":{"id":10,"portal":{"id":100,"code":"SL"}}},
	{"id":2,"selected":true,"publishable":true,"advertiserPublication":{"id":20,"portal":{"id":200,"code":"LBC"}}}
]`

func TestPublishAdCreatesThenSelectsPublications(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodPost, "ads", respond(`{"id":999}`))
	api.handle(http.MethodGet, "ad_publications", respond(twoPublications))
	api.handle(http.MethodPut, "ad_publications/1", respond(`{"id":1}`))
	api.handle(http.MethodPut, "ad_publications/2", respond(`{"id":2}`))
	c := api.client(nil)

	ad := sampleAd("SL")
	published, err := c.PublishAd(context.Background(), ad)
	if err != nil {
		t.Fatalf("PublishAd: %v", err)
	}
	if id, ok := published.ID(); !ok || id != 999 {
		t.Fatalf("expected id 999, got %d (set=%v)", id, ok)
	}

	calls := api.recorded()
	if len(calls) != 4 {
		t.Fatalf("expected 4 calls, got %d", len(calls))
	}

	create := calls[0]
	if create.Method != http.MethodPost || create.Path != "ads" {
		t.Fatalf("expected POST ads, got %s %s", create.Method, create.Path)
	}
	if create.Body["reference"] != "REF-1" || create.Body["status"] != "A" {
		t.Fatalf("unexpected ad body %v", create.Body)
	}
	if advertiser, _ := create.Body["advertiser"].(map[string]any); advertiser["code"] != "AG123" {
		t.Fatalf("expected advertiser code, got %v", create.Body["advertiser"])
	}
	if source, _ := create.Body["source"].(map[string]any); source["code"] != "agency-login" {
		t.Fatalf("expected source code, got %v", create.Body["source"])
	}

	if calls[1].Method != http.MethodGet || calls[1].Path != "ad_publications" || calls[1].Query.Get("ad.id") != "999" {
		t.Fatalf("expected publication listing for ad 999, got %+v", calls[1])
	}

	selections := map[string]any{}
	for _, call := range calls[2:] {
		if call.Method != http.MethodPut {
			t.Fatalf("expected PUT, got %s", call.Method)
		}
		selections[call.Path] = call.Body["selected"]
	}
	if selections["ad_publications/1"] != true || selections["ad_publications/2"] != false {
		t.Fatalf("unexpected selections %v", selections)
	}
}

func TestPublishAdUpdatesWhenIDKnown(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodPut, "ads/7", respond(`{"id":7}`))
	api.handle(http.MethodGet, "ad_publications", respond(`[]`))
	c := api.client(nil)

	ad := sampleAd()
	ad.AssignID(7)
	if _, err := c.PublishAd(context.Background(), ad); err != nil {
		t.Fatalf("PublishAd: %v", err)
	}

	calls := api.recorded()
	if calls[0].Method != http.MethodPut || calls[0].Path != "ads/7" {
		t.Fatalf("expected PUT ads/7, got %s %s", calls[0].Method, calls[0].Path)
	}
}

func TestPublishAdRequiresIntegerID(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodPost, "ads", respond(`{"id":"999","violations":[]}`))
	c := api.client(nil)

	ad := sampleAd()
	_, err := c.PublishAd(context.Background(), ad)
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if _, ok := ad.ID(); ok {
		t.Fatal("expected ad id to stay unset")
	}
	if got := len(api.recorded()); got != 1 {
		t.Fatalf("expected no publication calls, got %d calls", got)
	}
}

func TestUnpublishAdWithoutIDFailsBeforeNetwork(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(nil)

	_, err := c.UnpublishAd(context.Background(), sampleAd("SL"))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if api.loginCount() != 0 || len(api.recorded()) != 0 {
		t.Fatal("expected no network activity")
	}
}

func TestUnpublishAdDeselectsEveryPublication(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "ad_publications", respond(twoPublications))
	api.handle(http.MethodPut, "ad_publications/1", respond(`{}`))
	api.handle(http.MethodPut, "ad_publications/2", respond(`{}`))
	c := api.client(nil)

	ad := sampleAd("SL", "LBC")
	ad.AssignID(5)
	if _, err := c.UnpublishAd(context.Background(), ad); err != nil {
		t.Fatalf("UnpublishAd: %v", err)
	}

	puts := 0
	for _, call := range api.recorded() {
		if call.Method != http.MethodPut {
			continue
		}
		puts++
		if call.Body["selected"] != false {
			t.Fatalf("expected selected=false on %s, got %v", call.Path, call.Body["selected"])
		}
	}
	if puts != 2 {
		t.Fatalf("expected 2 PUTs, got %d", puts)
	}
}

func TestRemoveAdDeletesOnce(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodDelete, "ads/12", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := api.client(nil)

	ad := sampleAd()
	ad.AssignID(12)
	removed, err := c.RemoveAd(context.Background(), ad)
	if err != nil {
		t.Fatalf("RemoveAd: %v", err)
	}
	if removed != ad {
		t.Fatal("expected the same ad back")
	}

	calls := api.recorded()
	if len(calls) != 1 || calls[0].Method != http.MethodDelete || calls[0].Path != "ads/12" {
		t.Fatalf("expected exactly one DELETE ads/12, got %+v", calls)
	}
}

func TestDeleteNoContentYieldsEmptyList(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodDelete, "ads/12", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := api.client(nil)

	raw, err := c.delete(context.Background(), "ads/12")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, ok := raw.([]any)
	if !ok || len(items) != 0 {
		t.Fatalf("expected empty list, got %#v", raw)
	}
}

func TestRemoveAdRejectedStatusIsValidationError(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodDelete, "ads/12", func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusForbidden, `{"error":"forbidden"}`)
	})
	c := api.client(nil)

	ad := sampleAd()
	ad.AssignID(12)
	_, err := c.RemoveAd(context.Background(), ad)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status code in message, got %q", err.Error())
	}
}

func TestRemoveAdWithoutIDFailsBeforeNetwork(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client(nil)

	_, err := c.RemoveAd(context.Background(), sampleAd())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if api.loginCount() != 0 || len(api.recorded()) != 0 {
		t.Fatal("expected no network activity")
	}
}

func TestGetAdPublicationsDecodesAndSkips(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "ad_publications", respond(`[
		{"id":1,"selected":1,"publishable":null,
		 "advertiserPublication":{"id":10,"portal":{"id":100,"code":"SL"}},
		 "publicationIncompatibilities":[{"description":"missing price"},{"code":"X"},{"description":3}],
		 "lastPublishedAt":"2024-03-01T10:00:00+01:00","unPublishedAt":null,
		 "urlOnPortal":"https://portal.example/ad/1"},
		{"id":2,"advertiserPublication":{"id":20,"portal":{"id":200}}},
		"garbage"
	]`))
	c := api.client(nil)

	ad := sampleAd()
	ad.AssignID(3)
	publications, err := c.GetAdPublications(context.Background(), ad)
	if err != nil {
		t.Fatalf("GetAdPublications: %v", err)
	}
	if len(publications) != 1 {
		t.Fatalf("expected 1 publication, got %d", len(publications))
	}

	p := publications[0]
	if p.ID != 1 || p.AdvertiserPublication.ID != 10 || p.PortalCode() != "SL" || p.AdvertiserPublication.Portal.Name != "" {
		t.Fatalf("unexpected publication %+v", p)
	}
	if !p.Selected || p.Publishable {
		t.Fatalf("unexpected flags selected=%v publishable=%v", p.Selected, p.Publishable)
	}
	if len(p.Incompatibilities) != 1 || p.Incompatibilities[0] != "missing price" {
		t.Fatalf("unexpected incompatibilities %v", p.Incompatibilities)
	}
	if p.LastPublishedAt == nil || p.LastPublishedAt.UTC().Hour() != 9 {
		t.Fatalf("unexpected lastPublishedAt %v", p.LastPublishedAt)
	}
	if p.UnpublishedAt != nil {
		t.Fatalf("expected nil unpublishedAt, got %v", p.UnpublishedAt)
	}
	if p.URLOnPortal == nil || *p.URLOnPortal != "https://portal.example/ad/1" {
		t.Fatalf("unexpected url %v", p.URLOnPortal)
	}
}

func TestGetContactsWalksPagesWithFilters(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "mail_tracking_contacts", pagedResponder(
		`[{"id":1,"createdAt":"2024-05-01T08:00:00+02:00"},{"id":2,"createdAt":"2024-05-01T09:00:00+02:00"}]`,
		`[{"id":3,"createdAt":"2024-05-02T08:00:00+02:00"}]`,
	))
	c := api.client(nil)

	after := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	contacts := c.GetContacts(context.Background(), after, sampleAd())
	if len(contacts) != 3 {
		t.Fatalf("expected 3 contacts, got %d", len(contacts))
	}
	for i, contact := range contacts {
		if contact.ID == nil || *contact.ID != i+1 {
			t.Fatalf("contact %d out of order: %v", i, contact.ID)
		}
	}

	calls := api.recorded()
	if len(calls) != 3 {
		t.Fatalf("expected 3 GETs, got %d", len(calls))
	}
	query := calls[0].Query
	if query.Get("ad.advertiser.id") != "adv-42" {
		t.Fatalf("unexpected advertiser filter %q", query.Get("ad.advertiser.id"))
	}
	if query.Get("createdAt[after]") != "2024-04-30T00:00:00+00:00" {
		t.Fatalf("unexpected date filter %q", query.Get("createdAt[after]"))
	}
	if query.Get("ad.reference") != "REF-1" {
		t.Fatalf("unexpected reference filter %q", query.Get("ad.reference"))
	}
}

func TestGetContactsWithoutAdOmitsReference(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "mail_tracking_contacts", respond(`[]`))
	c := api.client(nil)

	c.GetContacts(context.Background(), time.Now(), nil)

	calls := api.recorded()
	if len(calls) != 1 {
		t.Fatalf("expected 1 GET, got %d", len(calls))
	}
	if _, ok := calls[0].Query["ad.reference"]; ok {
		t.Fatal("expected no reference filter")
	}
}

func TestGetContactsTreatsFailedPageAsEnd(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "mail_tracking_contacts", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			writeBody(w, http.StatusOK, `[{"id":1},{"id":2}]`)
		case "2":
			writeBody(w, http.StatusInternalServerError, `upstream exploded`)
		default:
			writeBody(w, http.StatusOK, `[{"id":3}]`)
		}
	})
	c := api.client(nil)

	contacts := c.GetContacts(context.Background(), time.Now(), nil)
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}
	if got := len(api.recorded()); got != 2 {
		t.Fatalf("expected paging to stop at the failed page, got %d GETs", got)
	}

	if _, err := c.GetContactsStrict(context.Background(), time.Now(), nil); err == nil {
		t.Fatal("expected strict listing to surface the page failure")
	}
}

func TestGetContactsDecodesFieldsLeniently(t *testing.T) {
	api := newFakeAPI(t)
	api.handle(http.MethodGet, "mail_tracking_contacts", pagedResponder(`[{
		"id":7,"portal":{"id":3},"ad":{"reference":"REF-1"},"createdAt":"not a date",
		"contactInformation":{"civility":"M.","firstName":"Jean","name":"Dupont","email":"jean@example.fr",
			"phone":"0612345678","postalAddress":{"addressLocality":"Lyon","postalCode":"69001"}},
		"additionalInformation":"Visite samedi","comment":null
	}]`))
	c := api.client(nil)
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	contacts := c.GetContacts(context.Background(), time.Now(), nil)
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}

	contact := contacts[0]
	if !contact.CreatedAt.Equal(fixed) || !contact.CreatedAtEstimated {
		t.Fatalf("expected createdAt to fall back to now and be marked estimated, got %v %v", contact.CreatedAt, contact.CreatedAtEstimated)
	}
	if contact.PortalID == nil || *contact.PortalID != 3 {
		t.Fatalf("unexpected portal id %v", contact.PortalID)
	}
	if contact.AdReference == nil || *contact.AdReference != "REF-1" {
		t.Fatalf("unexpected ad reference %v", contact.AdReference)
	}
	if contact.Email == nil || *contact.Email != "jean@example.fr" {
		t.Fatalf("unexpected email %v", contact.Email)
	}
	if contact.AddressLocality == nil || *contact.AddressLocality != "Lyon" || contact.PostalCode == nil || *contact.PostalCode != "69001" {
		t.Fatalf("unexpected address %v %v", contact.AddressLocality, contact.PostalCode)
	}
	if contact.Identity != nil || contact.Comment != nil {
		t.Fatal("expected absent fields to stay nil")
	}
	if contact.AdditionalInformation == nil || *contact.AdditionalInformation != "Visite samedi" {
		t.Fatalf("unexpected additional information %v", contact.AdditionalInformation)
	}
}
