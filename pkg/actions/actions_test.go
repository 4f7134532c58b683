package actions

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metadeploy/metadeploy-sdk/pkg/api"
	"github.com/metadeploy/metadeploy-sdk/pkg/config"
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/selectors"
	"github.com/metadeploy/metadeploy-sdk/pkg/socket"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

type mockSubscriber struct {
	sync.Mutex
	subscriptions []socket.Subscription
	reconnects    int
}

func (m *mockSubscriber) Subscribe(sub socket.Subscription) {
	m.Lock()
	defer m.Unlock()
	m.subscriptions = append(m.subscriptions, sub)
}

func (m *mockSubscriber) Reconnect(ctx context.Context) error {
	m.Lock()
	defer m.Unlock()
	m.reconnects++
	return nil
}

func (m *mockSubscriber) subscribed() []socket.Subscription {
	m.Lock()
	defer m.Unlock()
	return append([]socket.Subscription{}, m.subscriptions...)
}

type recordedRequest struct {
	method string
	path   string
	query  string
	body   string
}

// mockSite serves canned responses keyed by "METHOD path"
type mockSite struct {
	sync.Mutex
	responses map[string]mockResponse
	requests  []recordedRequest
	server    *httptest.Server
}

type mockResponse struct {
	code int
	body string
}

func newMockSite(t *testing.T) *mockSite {
	m := &mockSite{responses: map[string]mockResponse{}}
	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockSite) on(method, path string, code int, body string) {
	m.Lock()
	defer m.Unlock()
	m.responses[method+" "+path] = mockResponse{code: code, body: body}
}

func (m *mockSite) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	m.Lock()
	m.requests = append(m.requests, recordedRequest{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: string(body)})
	res, ok := m.responses[r.Method+" "+r.URL.Path]
	m.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not found."}`))
		return
	}
	w.WriteHeader(res.code)
	w.Write([]byte(res.body))
}

func (m *mockSite) count(method, path string) int {
	m.Lock()
	defer m.Unlock()
	n := 0
	for _, r := range m.requests {
		if r.method == method && r.path == path {
			n++
		}
	}
	return n
}

func (m *mockSite) total() int {
	m.Lock()
	defer m.Unlock()
	return len(m.requests)
}

func (m *mockSite) last(method, path string) recordedRequest {
	m.Lock()
	defer m.Unlock()
	for i := len(m.requests) - 1; i >= 0; i-- {
		if m.requests[i].method == method && m.requests[i].path == path {
			return m.requests[i]
		}
	}
	return recordedRequest{}
}

func newTestActions(t *testing.T, globals *config.Globals) (*Actions, *mockSite, *mockSubscriber, store.Store) {
	site := newMockSite(t)
	st := store.New()
	t.Cleanup(st.Close)
	sub := &mockSubscriber{}
	a := New(api.NewClient(api.WithTimeout(5*time.Second)), site.server.URL, st, sub, globals)
	return a, site, sub, st
}

const (
	productJSON = `{"id":"p1","slug":"product","old_slugs":["old-product"],"title":"Product","is_allowed":true,"is_listed":true,
		"most_recent_version":{"id":"v1","product":"p1","label":"1.0",
			"primary_plan":{"id":"plan1","slug":"install","title":"Install","is_allowed":true,"requires_preflight":true,"supported_orgs":"Both"}}}`
	planJSON      = `{"id":"plan2","slug":"extras","old_slugs":["addons"],"title":"Extras","is_allowed":true,"steps":[{"id":"s1","name":"One","is_required":true}]}`
	userJSON      = `{"id":"u1","username":"jane","valid_token_for":"00D1","org_type":"Production"}`
	preflightJSON = `{"id":"pf1","plan":"plan1","status":"started","edited_at":"2026-01-01T00:00:00Z"}`
)

func TestFetchProducts(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "should accept a bare list", body: `[` + productJSON + `]`},
		{name: "should accept a paginated list", body: `{"count":1,"results":[` + productJSON + `]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, site, _, st := newTestActions(t, nil)
			site.on(http.MethodGet, api.ProductsPath, 200, tc.body)

			require.Nil(t, a.FetchProducts(context.Background()))
			state := st.State()
			assert.True(t, state.Products.Fetched)
			product, ok := state.Products.BySlug("old-product").Get()
			require.True(t, ok)
			assert.Equal(t, "p1", product.ID)
		})
	}
}

func TestFetchProductNotFound(t *testing.T) {
	a, _, _, st := newTestActions(t, nil)

	require.Nil(t, a.FetchProduct(context.Background(), "missing"))
	assert.Equal(t, model.Absent, st.State().Products.BySlug("missing").Presence())
	// a 404 allowed by the caller is not an error
	assert.Empty(t, st.State().Errors)
}

func TestFetchErrorsAreSurfaced(t *testing.T) {
	a, site, _, st := newTestActions(t, nil)
	site.on(http.MethodGet, api.ProductsPath, 500, `{"detail":"Server exploded."}`)

	err := a.FetchProducts(context.Background())
	require.NotNil(t, err)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)

	errs := st.State().Errors
	require.Len(t, errs, 1)
	assert.Equal(t, "Server exploded.", errs[0].Message)

	require.Nil(t, a.DismissError(errs[0].ID))
	assert.Empty(t, st.State().Errors)
}

func TestEnsurePlanRoute(t *testing.T) {
	globals := config.NewGlobals()
	globals.ScratchOrgsEnabled = true
	a, site, sub, st := newTestActions(t, globals)
	site.on(http.MethodGet, api.UserPath, 200, userJSON)
	site.on(http.MethodGet, api.ProductPath, 200, productJSON)
	site.on(http.MethodGet, api.PreflightPath("plan1"), 200, preflightJSON)
	site.on(http.MethodGet, api.OrgsPath, 200, `{}`)

	ctx := context.Background()
	require.Nil(t, a.EnsurePlanRoute(ctx, "product", "1.0", "install"))

	state := st.State()
	assert.True(t, state.User.IsPresent())
	assert.True(t, state.Orgs.Fetched)
	assert.True(t, selectors.SelectPlan(state, selectors.Route{ProductSlug: "product", VersionLabel: "1.0", PlanSlug: "install"}).IsPresent())
	preflight, ok := state.Preflights["plan1"].Get()
	require.True(t, ok)
	assert.Equal(t, "pf1", preflight.ID)
	// the scratch org endpoint answered 404
	assert.Equal(t, model.Absent, state.ScratchOrgs["plan1"].Presence())

	// the version came with the product, so no version fetch
	assert.Equal(t, 0, site.count(http.MethodGet, api.VersionPath))
	assert.Equal(t, "slug=product", site.last(http.MethodGet, api.ProductPath).query)

	assert.Contains(t, sub.subscribed(), socket.Subscription{Model: socket.ModelUser, ID: "u1"})
	assert.Contains(t, sub.subscribed(), socket.Subscription{Model: socket.ModelPreflight, ID: "pf1"})

	// everything is known now, a second pass fetches nothing
	before := site.total()
	require.Nil(t, a.EnsurePlanRoute(ctx, "product", "1.0", "install"))
	assert.Equal(t, before, site.total())

	route := selectors.Route{ProductSlug: "old-product", VersionLabel: "1.0", PlanSlug: "install"}
	assert.Equal(t, selectors.RouteResult{Status: selectors.Redirect, Redirect: "/products/product/1.0/install"}, selectors.LoadingOrNotFound(st.State(), route))
}

func TestEnsureRouteFetchesMissingPlan(t *testing.T) {
	a, site, _, st := newTestActions(t, nil)
	site.on(http.MethodGet, api.UserPath, 404, `{}`)
	site.on(http.MethodGet, api.ProductPath, 200, productJSON)
	site.on(http.MethodGet, api.PlanPath, 200, planJSON)

	ctx := context.Background()
	route := selectors.Route{ProductSlug: "product", VersionLabel: "1.0", PlanSlug: "addons"}
	require.Nil(t, a.EnsureRoute(ctx, route))

	state := st.State()
	assert.Equal(t, model.Absent, state.User.Presence())
	plan, ok := selectors.SelectPlan(state, route).Get()
	require.True(t, ok)
	assert.Equal(t, "plan2", plan.ID)
	// stored under both slugs
	assert.True(t, selectors.SelectPlan(state, selectors.Route{ProductSlug: "product", VersionLabel: "1.0", PlanSlug: "extras"}).IsPresent())
	assert.Equal(t, "slug=addons&version=v1", site.last(http.MethodGet, api.PlanPath).query)
	// logged out users have no preflights
	assert.Equal(t, 0, site.count(http.MethodGet, api.PreflightPath("plan2")))

	missing := selectors.Route{ProductSlug: "product", VersionLabel: "1.0", PlanSlug: "nope"}
	site.on(http.MethodGet, api.PlanPath, 404, `{}`)
	require.Nil(t, a.EnsureRoute(ctx, missing))
	assert.Equal(t, selectors.NotFound, selectors.LoadingOrNotFound(st.State(), missing).Status)

	// confirmed absence is not fetched again
	count := site.count(http.MethodGet, api.PlanPath)
	require.Nil(t, a.EnsureRoute(ctx, missing))
	assert.Equal(t, count, site.count(http.MethodGet, api.PlanPath))
}

func TestEnsureVersionRouteFetchesAdditionalPlans(t *testing.T) {
	a, site, _, st := newTestActions(t, nil)
	site.on(http.MethodGet, api.UserPath, 404, `{}`)
	site.on(http.MethodGet, api.ProductPath, 200, productJSON)
	site.on(http.MethodGet, api.AdditionalPlansPath("v1"), 200, `[`+planJSON+`]`)

	route := selectors.Route{ProductSlug: "product", VersionLabel: "1.0"}
	require.Nil(t, a.EnsureRoute(context.Background(), route))

	version, ok := selectors.SelectVersion(st.State(), route).Get()
	require.True(t, ok)
	assert.True(t, version.FetchedAdditionalPlans)
	assert.True(t, version.Plan("extras").IsPresent())
}

func TestStartPreflightAndJob(t *testing.T) {
	a, site, sub, st := newTestActions(t, nil)
	site.on(http.MethodPost, api.PreflightPath("plan1"), 201, preflightJSON)
	site.on(http.MethodPost, api.JobsPath, 201, `{"id":"j1","plan":"plan1","steps":["s1"],"status":"started","edited_at":"2026-01-01T00:00:00Z"}`)
	site.on(http.MethodPatch, api.JobPath("j1"), 200, `{"id":"j1","plan":"plan1","steps":["s1"],"status":"started","is_public":true,"edited_at":"2026-01-01T00:01:00Z"}`)
	site.on(http.MethodDelete, api.JobPath("j1"), 204, ``)

	ctx := context.Background()
	preflight, err := a.StartPreflight(ctx, "plan1")
	require.Nil(t, err)
	assert.Equal(t, model.StatusStarted, preflight.Status)
	assert.True(t, st.State().Preflights["plan1"].IsPresent())

	job, err := a.StartJob(ctx, JobRequest{Plan: "plan1", Steps: []string{"s1"}})
	require.Nil(t, err)
	assert.Equal(t, "j1", job.ID)
	assert.JSONEq(t, `{"plan":"plan1","steps":["s1"]}`, site.last(http.MethodPost, api.JobsPath).body)

	job, err = a.UpdateJob(ctx, "j1", true)
	require.Nil(t, err)
	assert.True(t, job.IsPublic)
	stored, ok := st.State().Jobs["j1"].Get()
	require.True(t, ok)
	assert.True(t, stored.IsPublic)

	require.Nil(t, a.CancelJob(ctx, "j1"))
	assert.Equal(t, 1, site.count(http.MethodDelete, api.JobPath("j1")))

	assert.Equal(t, []socket.Subscription{
		{Model: socket.ModelPreflight, ID: "pf1"},
		{Model: socket.ModelJob, ID: "j1"},
	}, sub.subscribed())
}

func TestFetchJobOfAnotherPlan(t *testing.T) {
	a, site, sub, st := newTestActions(t, nil)
	site.on(http.MethodGet, api.JobPath("j1"), 200, `{"id":"j1","plan":"plan1","status":"complete","product_slug":"product","version_label":"1.0","plan_slug":"install"}`)

	ctx := context.Background()
	require.Nil(t, a.FetchJob(ctx, "j1", "product", "1.0", "other"))
	assert.Equal(t, model.Absent, st.State().Jobs["j1"].Presence())

	require.Nil(t, a.FetchJob(ctx, "j1", "product", "1.0", "install"))
	assert.True(t, st.State().Jobs["j1"].IsPresent())
	// only the matching job is subscribed, finished or not
	assert.Equal(t, []socket.Subscription{{Model: socket.ModelJob, ID: "j1"}}, sub.subscribed())
}

func TestScratchOrgs(t *testing.T) {
	t.Run("should refuse when scratch orgs are disabled", func(t *testing.T) {
		a, _, _, _ := newTestActions(t, nil)
		_, err := a.SpinScratchOrg(context.Background(), "plan1", "jane@example.com")
		assert.ErrorIs(t, err, ErrScratchOrgsDisabled)
	})

	t.Run("should spin one up and subscribe with its uuid", func(t *testing.T) {
		globals := config.NewGlobals()
		globals.ScratchOrgsEnabled = true
		a, site, sub, st := newTestActions(t, globals)
		site.on(http.MethodPost, api.ScratchOrgPath("plan1"), 202, `{"uuid":"u1","plan":"plan1","status":"started"}`)

		org, err := a.SpinScratchOrg(context.Background(), "plan1", "jane@example.com")
		require.Nil(t, err)
		assert.Equal(t, "u1", org.UUID)
		assert.JSONEq(t, `{"email":"jane@example.com"}`, site.last(http.MethodPost, api.ScratchOrgPath("plan1")).body)
		assert.True(t, st.State().ScratchOrgs["plan1"].IsPresent())
		assert.Equal(t, []socket.Subscription{{Model: socket.ModelScratchOrg, ID: "plan1", UUID: "u1"}}, sub.subscribed())
	})
}

func TestFetchOrgs(t *testing.T) {
	a, site, sub, st := newTestActions(t, nil)
	site.on(http.MethodGet, api.OrgsPath, 200, `{"00D1":{"org_type":"Production","current_job":{"id":"j1"},"current_preflight":null}}`)

	require.Nil(t, a.FetchOrgs(context.Background()))
	orgs := st.State().Orgs
	assert.True(t, orgs.Fetched)
	require.Contains(t, orgs.Items, "00D1")
	assert.Equal(t, "00D1", orgs.Items["00D1"].OrgID)
	assert.Equal(t, "j1", selectors.CurrentJobID(orgs.Items["00D1"]))
	assert.Equal(t, []socket.Subscription{{Model: socket.ModelOrg, ID: "00D1"}}, sub.subscribed())
}

func TestLogout(t *testing.T) {
	a, site, sub, st := newTestActions(t, nil)
	site.on(http.MethodGet, api.UserPath, 200, userJSON)
	site.on(http.MethodPost, api.LogoutPath, 200, `{}`)
	site.on(http.MethodGet, api.ProductsPath, 200, `[`+productJSON+`]`)
	site.on(http.MethodGet, api.PreflightPath("plan1"), 200, preflightJSON)

	ctx := context.Background()
	require.Nil(t, a.FetchUser(ctx))
	require.Nil(t, a.FetchPreflight(ctx, "plan1"))
	require.True(t, st.State().Preflights["plan1"].IsPresent())

	require.Nil(t, a.Logout(ctx))
	state := st.State()
	assert.Equal(t, model.Absent, state.User.Presence())
	assert.Empty(t, state.Preflights)
	assert.True(t, state.Products.Fetched)
	assert.Equal(t, 1, sub.reconnects)
}

func TestResync(t *testing.T) {
	a, site, sub, st := newTestActions(t, nil)
	site.on(http.MethodGet, api.UserPath, 200, userJSON)
	site.on(http.MethodGet, api.OrgsPath, 200, `{}`)
	site.on(http.MethodGet, api.PreflightPath("plan1"), 200, `{"id":"pf1","plan":"plan1","status":"complete","is_ready":true,"edited_at":"2026-01-01T00:05:00Z"}`)
	site.on(http.MethodGet, api.JobPath("j1"), 200, `{"id":"j1","plan":"plan1","status":"complete","edited_at":"2026-01-01T00:05:00Z"}`)

	// state from before the connection dropped
	started := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Nil(t, st.Dispatch(store.UserLoggedIn{User: &model.User{ID: "u1"}}))
	require.Nil(t, st.Dispatch(store.PreflightStarted{Preflight: &model.Preflight{ID: "pf1", Plan: "plan1", Status: model.StatusStarted, EditedAt: started}}))
	require.Nil(t, st.Dispatch(store.JobStarted{Job: &model.Job{ID: "j1", Plan: "plan1", Status: model.StatusStarted, EditedAt: started}}))
	require.Nil(t, st.Dispatch(store.JobFetched{JobID: "j2", Job: &model.Job{ID: "j2", Status: model.StatusFailed}}))

	a.ReconnectHandler()(context.Background())

	state := st.State()
	preflight, _ := state.Preflights["plan1"].Get()
	assert.Equal(t, model.StatusComplete, preflight.Status)
	job, _ := state.Jobs["j1"].Get()
	assert.Equal(t, model.StatusComplete, job.Status)
	// finished jobs are not refetched
	assert.Equal(t, 0, site.count(http.MethodGet, api.JobPath("j2")))
	assert.Equal(t, 1, site.count(http.MethodGet, api.OrgsPath))
	// the new connection carries none of the old subscriptions
	assert.ElementsMatch(t, []socket.Subscription{
		{Model: socket.ModelUser, ID: "u1"},
		{Model: socket.ModelPreflight, ID: "pf1"},
		{Model: socket.ModelJob, ID: "j1"},
	}, sub.subscribed())
}

func TestResyncDropsDeletedPreflight(t *testing.T) {
	a, site, _, st := newTestActions(t, nil)
	site.on(http.MethodGet, api.UserPath, 200, userJSON)
	site.on(http.MethodGet, api.OrgsPath, 200, `{}`)
	// the preflight endpoint answers 404 for a preflight deleted while disconnected

	require.Nil(t, st.Dispatch(store.UserLoggedIn{User: &model.User{ID: "u1"}}))
	edited := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Nil(t, st.Dispatch(store.PreflightCompleted{Preflight: &model.Preflight{ID: "pf1", Plan: "plan1", Status: model.StatusComplete, IsReady: true, EditedAt: edited}}))

	a.ReconnectHandler()(context.Background())

	assert.Equal(t, 1, site.count(http.MethodGet, api.PreflightPath("plan1")))
	assert.Equal(t, model.Absent, st.State().Preflights["plan1"].Presence())
}

func TestFetchPreflightHearsInvalidation(t *testing.T) {
	site := newMockSite(t)
	completed := `{"id":"pf1","plan":"plan1","status":"complete","is_valid":true,"is_ready":true,"edited_at":"2026-01-01T00:05:00Z"}`
	site.on(http.MethodGet, api.PreflightPath("plan1"), 200, completed)

	conns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	push := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(push.Close)

	st := store.New()
	t.Cleanup(st.Close)
	socketURL, err := socket.URLFor(push.URL)
	require.Nil(t, err)
	sock := socket.New(socketURL, st, socket.WithDisconnectGrace(time.Hour))
	require.Nil(t, sock.Start(context.Background()))
	t.Cleanup(sock.Close)

	a := New(api.NewClient(api.WithTimeout(5*time.Second)), site.server.URL, st, sock, nil)
	token := "00D1"
	require.Nil(t, st.Dispatch(store.UserLoggedIn{User: &model.User{ID: "u1", ValidTokenFor: &token}}))
	require.Nil(t, a.FetchPreflight(context.Background(), "plan1"))

	plan := &model.Plan{ID: "plan1", Slug: "install", IsAllowed: true, RequiresPreflight: true}
	opts := selectors.CTAOptions{Now: time.Date(2026, 1, 1, 0, 6, 0, 0, time.UTC), PreflightLifetime: 10 * time.Minute}
	assert.Equal(t, selectors.CTAInstall, selectors.CTA(st.State(), plan, opts).Kind)

	var conn *websocket.Conn
	select {
	case conn = <-conns:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "no push connection")
	}
	defer conn.Close()

	var sub socket.Subscription
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.Nil(t, conn.ReadJSON(&sub))
	assert.Equal(t, socket.Subscription{Model: socket.ModelPreflight, ID: "pf1"}, sub)

	frame := `{"type":"PREFLIGHT_INVALIDATED","payload":` + completed + `}`
	require.Nil(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))

	assert.Eventually(t, func() bool {
		return selectors.CTA(st.State(), plan, opts).Kind == selectors.CTAReRunPreflight
	}, 5*time.Second, 10*time.Millisecond)
	preflight, _ := st.State().Preflights["plan1"].Get()
	assert.False(t, preflight.IsValid)
}

func TestWatchRoute(t *testing.T) {
	a, site, _, st := newTestActions(t, nil)
	site.on(http.MethodGet, api.UserPath, 404, `{}`)
	site.on(http.MethodGet, api.ProductPath, 200, productJSON)
	site.on(http.MethodGet, api.PreflightPath("plan1"), 200, preflightJSON)
	site.on(http.MethodGet, api.OrgsPath, 200, `{}`)

	route := selectors.Route{ProductSlug: "product", VersionLabel: "1.0", PlanSlug: "install"}
	b := a.WatchRoute(context.Background(), route)
	defer b.Unmount()

	assert.Eventually(t, func() bool {
		return selectors.LoadingOrNotFound(st.State(), route).Status == selectors.Ready
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, site.count(http.MethodGet, api.PreflightPath("plan1")))

	// logging in changes what the route needs, so the preflight gets fetched
	var user model.User
	require.Nil(t, json.Unmarshal([]byte(userJSON), &user))
	require.Nil(t, st.Dispatch(store.UserLoggedIn{User: &user}))

	assert.Eventually(t, func() bool {
		return st.State().Preflights["plan1"].IsPresent()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestInit(t *testing.T) {
	globals := config.NewGlobals()
	globals.User = &model.User{ID: "u1", Username: "jane"}
	a, _, sub, st := newTestActions(t, globals)

	require.Nil(t, a.Init())
	assert.True(t, st.State().User.IsPresent())
	assert.Equal(t, []socket.Subscription{{Model: socket.ModelUser, ID: "u1"}}, sub.subscribed())
}
