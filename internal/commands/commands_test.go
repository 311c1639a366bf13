package commands

import (
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"publisher-planner/internal/model"
)

// backendStub serves package-1 with one scenario "a".
type backendStub struct {
	mu      sync.Mutex
	saved   model.SavedScenario
	deleted bool
}

func (b *backendStub) serve(ctx *fasthttp.RequestCtx) {
	b.mu.Lock()
	defer b.mu.Unlock()

	write := func(v any) {
		ctx.SetContentType("application/json")
		_ = json.NewEncoder(ctx).Encode(v)
	}
	switch method, path := string(ctx.Method()), string(ctx.Path()); {
	case method == fasthttp.MethodGet && path == "/publisher/package-1":
		write(model.PublisherResponse{
			ID:          "package-1",
			Publisher:   "Acme",
			Name:        "Package One",
			Scenarios:   []model.ScenarioStub{{ID: "a", Name: b.saved.Name}},
			CostBigdeal: 1000,
		})
	case method == fasthttp.MethodGet && path == "/scenario/a/journals":
		write(model.ScenarioResponse{
			Journals: []model.Journal{
				{IssnL: "1111-1111", Title: "One", CostSubscription: 100, CostIll: 10, Usage: 50},
			},
			Saved: b.saved,
			Meta:  model.ScenarioMeta{ScenarioID: "a"},
		})
	case method == fasthttp.MethodPost && path == "/scenario/a":
		var saved model.SavedScenario
		if err := json.Unmarshal(ctx.PostBody(), &saved); err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			return
		}
		b.saved = saved
	case method == fasthttp.MethodDelete && path == "/scenario/a":
		b.deleted = true
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

func startBackend(t *testing.T) *backendStub {
	t.Helper()
	b := &backendStub{saved: model.SavedScenario{
		Name: "Base",
		Configs: map[string]any{
			model.ConfigCostBigdeal:         1000.0,
			model.ConfigCostBigdealIncrease: 5.0,
		},
		Subrs: []string{"1111-1111"},
	}}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &fasthttp.Server{Handler: b.serve}
	go srv.Serve(ln) //nolint:errcheck
	t.Cleanup(func() { _ = srv.Shutdown() })

	t.Setenv("PLANNER_API_BASE_URL", "http://"+ln.Addr().String()+"/")
	t.Setenv("PLANNER_LOG_LEVEL", "error")
	return b
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPublisherCommand(t *testing.T) {
	startBackend(t)

	out, err := run(t, "publisher", "package-1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Package One (package-1)")
	assert.Contains(t, out, "$1,000")
	assert.Contains(t, out, "Base")
	assert.Contains(t, out, "$1,105")
}

func TestPublisherCommandJSON(t *testing.T) {
	startBackend(t)

	out, err := run(t, "publisher", "package-1", "--json")
	require.NoError(t, err, out)

	var pub model.Publisher
	require.NoError(t, json.Unmarshal([]byte(out), &pub))
	require.Len(t, pub.Scenarios, 1)
	assert.False(t, pub.Scenarios[0].IsLoading)
	assert.Equal(t, 1, pub.Scenarios[0].SubscribedCount())
}

func TestUnknownPublisherFails(t *testing.T) {
	startBackend(t)

	_, err := run(t, "publisher", "package-404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestScenarioShow(t *testing.T) {
	startBackend(t)

	out, err := run(t, "scenario", "show", "package-1", "a", "--journals")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Base (a)")
	assert.Contains(t, out, "1 of 1 journals")
	assert.Contains(t, out, "1111-1111")

	_, err = run(t, "scenario", "show", "package-1", "zzz")
	assert.Error(t, err)
}

func TestScenarioConfig(t *testing.T) {
	b := startBackend(t)

	out, err := run(t, "scenario", "config", "package-1", "a", "cost_bigdeal", "2000")
	require.NoError(t, err, out)
	assert.Contains(t, out, "/saved/configs/cost_bigdeal")
	assert.Contains(t, out, "/costBigdealProjected")

	b.mu.Lock()
	assert.Equal(t, 2000.0, b.saved.ConfigFloat(model.ConfigCostBigdeal))
	b.mu.Unlock()

	_, err = run(t, "scenario", "config", "--", "package-1", "a", "cost_bigdeal", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEGATIVE_VALUE")
}

func TestScenarioRenameAndDelete(t *testing.T) {
	b := startBackend(t)

	out, err := run(t, "scenario", "rename", "package-1", "a", "Renamed")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Renamed (a)")

	out, err = run(t, "scenario", "delete", "package-1", "a")
	require.NoError(t, err, out)
	assert.True(t, strings.HasPrefix(out, "deleted a"))

	b.mu.Lock()
	assert.True(t, b.deleted)
	b.mu.Unlock()
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 2000.0, parseValue("2000"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, "abc", parseValue("abc"))
	assert.Nil(t, parseValue("null"))
}
