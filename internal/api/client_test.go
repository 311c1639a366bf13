package api

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"go.uber.org/zap"

	"publisher-planner/internal/model"
)

type recorded struct {
	Method string
	URI    string
	Auth   string
	Body   string
}

type stubServer struct {
	mu       sync.Mutex
	requests []recorded
	handler  fasthttp.RequestHandler
}

func (s *stubServer) serve(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	s.requests = append(s.requests, recorded{
		Method: string(ctx.Method()),
		URI:    string(ctx.RequestURI()),
		Auth:   string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)),
		Body:   string(ctx.PostBody()),
	})
	s.mu.Unlock()
	s.handler(ctx)
}

func (s *stubServer) last() recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

func newTestClient(t *testing.T, h fasthttp.RequestHandler) (*Client, *stubServer) {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	stub := &stubServer{handler: h}
	srv := &fasthttp.Server{Handler: stub.serve}
	go srv.Serve(ln) //nolint:errcheck
	t.Cleanup(func() {
		_ = srv.Shutdown()
	})

	hc := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}
	c, err := NewWithDoer(Config{BaseURL: "http://backend/api", Token: "secret", Timeout: time.Second}, hc, zap.NewNop())
	require.NoError(t, err)
	return c, stub
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	b, _ := json.Marshal(v)
	ctx.SetBody(b)
}

func TestPublisher(t *testing.T) {
	c, stub := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		writeJSON(ctx, fasthttp.StatusOK, map[string]any{
			"id":        "package-1",
			"publisher": "Elsevier",
			"name":      "My Elsevier package",
			"is_demo":   true,
			"scenarios": []map[string]any{{"id": "scenario-1", "name": "First"}},
			"journal_detail": map[string]any{
				"counts":      map[string]any{"in_scenario": 120},
				"diff_counts": map[string]any{"diff_no_price": 3, "diff_not_published_in_2019": 1, "diff_changed_publisher": 2},
			},
			"data_files":   []map[string]any{{"name": "prices", "uploaded": true, "rows_count": 10}},
			"cost_bigdeal": 2500000,
		})
	})

	p, err := c.Publisher(context.Background(), "package-1")
	require.NoError(t, err)

	assert.Equal(t, "package-1", p.ID)
	assert.True(t, p.IsDemo)
	require.Len(t, p.Scenarios, 1)
	assert.Equal(t, "scenario-1", p.Scenarios[0].ID)
	assert.Equal(t, 120, p.JournalDetail.Counts.InScenario)
	assert.Equal(t, 3, p.JournalDetail.JournalCounts().LeftOrStopped)
	require.Len(t, p.DataFiles, 1)
	assert.Equal(t, "price", p.DataFiles[0].NormalizedName())
	assert.Contains(t, p.DataFiles[0].Extra, "rows_count")
	assert.Equal(t, 2500000.0, p.CostBigdeal)

	req := stub.last()
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/api/publisher/package-1", req.URI)
	assert.Equal(t, "Bearer secret", req.Auth)
}

func TestScenarioJournals(t *testing.T) {
	c, stub := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"journals":[{"issn_l":"1111-1111","title":"A"}],"saved":{"name":"S","configs":{"cost_bigdeal":10},"subrs":[]},"meta":{"scenario_id":"scenario-9"}}`)
	})

	resp, err := c.ScenarioJournals(context.Background(), "scenario-9")
	require.NoError(t, err)
	assert.Equal(t, "scenario-9", resp.Meta.ScenarioID)
	require.Len(t, resp.Journals, 1)
	assert.Equal(t, "1111-1111", resp.Journals[0].IssnL)
	assert.Equal(t, "/api/scenario/scenario-9/journals", stub.last().URI)
}

func TestSaveScenarioPostsSavedObject(t *testing.T) {
	c, stub := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
	})

	saved := model.SavedScenario{Name: "Renamed", Configs: map[string]any{"cost_bigdeal": 5.0}, Subrs: []string{"x"}}
	require.NoError(t, c.SaveScenario(context.Background(), "scenario-2", saved))

	req := stub.last()
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/api/scenario/scenario-2", req.URI)
	assert.JSONEq(t, `{"name":"Renamed","configs":{"cost_bigdeal":5},"subrs":["x"]}`, req.Body)
}

func TestCreateScenario(t *testing.T) {
	c, stub := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusCreated)
	})

	body := model.CreateScenarioRequest{ID: "scenario-new", Name: "New Scenario"}
	require.NoError(t, c.CreateScenario(context.Background(), "package-1", body, ""))
	assert.Equal(t, "/api/package/package-1/scenario", stub.last().URI)
	assert.JSONEq(t, `{"id":"scenario-new","name":"New Scenario"}`, stub.last().Body)

	require.NoError(t, c.CreateScenario(context.Background(), "package-1", body, "scenario-old"))
	assert.Equal(t, "/api/package/package-1/scenario?copy=scenario-old", stub.last().URI)
}

func TestDeleteScenarioStatusError(t *testing.T) {
	c, stub := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		ctx.SetBodyString("no such scenario")
	})

	err := c.DeleteScenario(context.Background(), "scenario-x")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, fasthttp.StatusNotFound, se.Status)
	assert.Equal(t, "no such scenario", se.Body)
	assert.Equal(t, fasthttp.StatusNotFound, StatusCode(err))
	assert.Equal(t, "DELETE", stub.last().Method)
}

func TestCanceledContext(t *testing.T) {
	c, stub := newTestClient(t, func(ctx *fasthttp.RequestCtx) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.PublisherApc(ctx, "package-1")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stub.requests)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{}, nil)
	require.ErrorIs(t, err, ErrNoBaseURL)
}
