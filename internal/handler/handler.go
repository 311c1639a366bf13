// Package handler serves the planner's views and scenario commands over
// fasthttp. Views render store state as JSON; commands mutate it.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"publisher-planner/internal/api"
	"publisher-planner/internal/model"
	"publisher-planner/internal/router"
	"publisher-planner/internal/store"
)

const (
	defaultTimeout = 30 * time.Second
	userValueView  = "planner.view"
)

type Options struct {
	AppName string
	// Timeout bounds the backend calls made for one request.
	Timeout time.Duration
}

type viewFunc func(ctx context.Context, rc *fasthttp.RequestCtx, m router.Match) error

type Handler struct {
	store  *store.Store
	router *router.Router
	log    *zap.Logger
	opts   Options
	views  map[router.View]viewFunc
}

func New(st *store.Store, rt *router.Router, log *zap.Logger, opts Options) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	h := &Handler{
		store:  st,
		router: rt,
		log:    log.Named("handler"),
		opts:   opts,
	}
	h.views = map[router.View]viewFunc{
		router.ViewHome:           h.home,
		router.ViewPurchase:       h.static("purchase"),
		router.ViewPurchaseResult: h.purchaseResult,
		router.ViewSupport:        h.static("support"),
		router.ViewLogin:          h.static("login"),
		router.ViewAccount:        h.account,
		router.ViewPackage:        h.pkg,
		router.ViewScenario:       h.scenario,
		router.ViewOverview:       h.overview,
		router.ViewJournals:       h.journals,
		router.ViewApc:            h.apc,
		router.ViewExport:         h.export,

		router.ViewCreateScenario: h.createScenario,
		router.ViewCopyScenario:   h.copyScenario,
		router.ViewRenameScenario: h.renameScenario,
		router.ViewSetConfig:      h.setConfig,
		router.ViewDeleteScenario: h.deleteScenario,
	}
	return h
}

// Handle is the fasthttp entry point.
func (h *Handler) Handle(rc *fasthttp.RequestCtx) {
	m, err := h.router.Resolve(string(rc.Method()), string(rc.Path()))
	if err != nil {
		h.writeError(rc, err)
		return
	}
	rc.SetUserValue(userValueView, string(m.Route.View))
	if err := h.router.Authorize(m, bearerToken(rc)); err != nil {
		h.writeError(rc, err)
		return
	}
	fn, ok := h.views[m.Route.View]
	if !ok {
		h.writeError(rc, router.ErrNotFound)
		return
	}

	// rc is recycled once Handle returns; backend calls and the hydrations
	// they start get a context of their own.
	ctx, cancel := context.WithTimeout(context.Background(), h.opts.Timeout)
	defer cancel()
	if err := fn(ctx, rc, m); err != nil {
		h.writeError(rc, err)
	}
}

// ViewOf returns the view Handle resolved for rc, or "unmatched".
func ViewOf(rc *fasthttp.RequestCtx) string {
	if v, ok := rc.UserValue(userValueView).(string); ok {
		return v
	}
	return "unmatched"
}

func bearerToken(rc *fasthttp.RequestCtx) string {
	auth := string(rc.Request.Header.Peek(fasthttp.HeaderAuthorization))
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(message string) error {
	return &requestError{status: http.StatusBadRequest, message: message}
}

func decodeBody(rc *fasthttp.RequestCtx, v any) error {
	body := rc.PostBody()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return badRequest("Invalid request body: " + err.Error())
	}
	return nil
}

func writeJSON(rc *fasthttp.RequestCtx, status int, v any) {
	rc.SetContentType("application/json")
	rc.SetStatusCode(status)
	if err := json.NewEncoder(rc).Encode(v); err != nil {
		rc.Error(`{"status":500,"message":"encode failed"}`, http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(rc *fasthttp.RequestCtx, err error) {
	status := errorStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.ByteString("method", rc.Method()),
			zap.ByteString("path", rc.Path()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	if status == http.StatusUnauthorized {
		rc.Response.Header.Set(fasthttp.HeaderWWWAuthenticate, "Bearer")
	}
	writeJSON(rc, status, model.ErrorResponse{
		Status:  status,
		Message: message,
	})
}

func errorStatus(err error) int {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reqErr.status
	}
	switch {
	case errors.Is(err, router.ErrNotFound),
		errors.Is(err, store.ErrScenarioNotFound),
		errors.Is(err, store.ErrNoPublisher):
		return http.StatusNotFound
	case errors.Is(err, router.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, router.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrInvalidConfig):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, fasthttp.ErrTimeout):
		return http.StatusGatewayTimeout
	}
	switch code := api.StatusCode(err); {
	case code == http.StatusNotFound:
		return http.StatusNotFound
	case code != 0:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
