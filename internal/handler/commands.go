package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"

	"publisher-planner/internal/jsonpatch"
	"publisher-planner/internal/model"
	"publisher-planner/internal/router"
	"publisher-planner/internal/store"
)

type scenarioCreated struct {
	ID       string          `json:"id"`
	Scenario *model.Scenario `json:"scenario"`
}

func (h *Handler) createScenario(ctx context.Context, rc *fasthttp.RequestCtx, m router.Match) error {
	if err := h.store.FetchPublisher(ctx, m.Param("pkgId")); err != nil {
		return err
	}
	id, err := h.store.CreateScenario(ctx)
	if err != nil {
		return err
	}
	sc, _ := h.store.Scenario(id)
	writeJSON(rc, http.StatusCreated, scenarioCreated{ID: id, Scenario: sc})
	return nil
}

func (h *Handler) copyScenario(ctx context.Context, rc *fasthttp.RequestCtx, m router.Match) error {
	var req model.CopyRequest
	if err := decodeBody(rc, &req); err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return badRequest("A scenario name is required")
	}
	if _, err := h.loadScenario(ctx, m); err != nil {
		return err
	}
	id, err := h.store.CopyScenario(ctx, m.Param("scenarioId"), name)
	if err != nil {
		return err
	}
	sc, _ := h.store.Scenario(id)
	writeJSON(rc, http.StatusCreated, scenarioCreated{ID: id, Scenario: sc})
	return nil
}

func (h *Handler) renameScenario(ctx context.Context, rc *fasthttp.RequestCtx, m router.Match) error {
	var req model.RenameRequest
	if err := decodeBody(rc, &req); err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return badRequest("A scenario name is required")
	}
	if _, err := h.loadScenario(ctx, m); err != nil {
		return err
	}
	if err := h.store.RenameScenario(ctx, m.Param("scenarioId"), name); err != nil {
		return err
	}
	sc, _ := h.store.Scenario(m.Param("scenarioId"))
	writeJSON(rc, http.StatusOK, sc)
	return nil
}

type configResponse struct {
	Scenario *model.Scenario `json:"scenario,omitempty"`
	Messages []model.Message `json:"messages"`
	Changes  []jsonpatch.Op  `json:"changes"`
}

func (h *Handler) setConfig(ctx context.Context, rc *fasthttp.RequestCtx, m router.Match) error {
	var req model.ConfigRequest
	if err := decodeBody(rc, &req); err != nil {
		return err
	}
	if _, err := h.loadScenario(ctx, m); err != nil {
		return err
	}

	res, err := h.store.SetScenarioConfig(ctx, m.Param("scenarioId"), req.Key, req.Value)
	var invalid *store.InvalidConfigError
	if errors.As(err, &invalid) {
		writeJSON(rc, http.StatusUnprocessableEntity, configResponse{
			Messages: invalid.Messages,
			Changes:  []jsonpatch.Op{},
		})
		return nil
	}
	if err != nil {
		return err
	}

	resp := configResponse{Messages: res.Messages, Changes: res.Changes}
	if resp.Messages == nil {
		resp.Messages = []model.Message{}
	}
	if resp.Changes == nil {
		resp.Changes = []jsonpatch.Op{}
	}
	resp.Scenario, _ = h.store.Scenario(m.Param("scenarioId"))
	writeJSON(rc, http.StatusOK, resp)
	return nil
}

// deleteScenario removes the scenario and sends the caller back to its
// package page.
func (h *Handler) deleteScenario(ctx context.Context, rc *fasthttp.RequestCtx, m router.Match) error {
	if _, err := h.loadScenario(ctx, m); err != nil {
		return err
	}
	if err := h.store.DeleteScenario(ctx, m.Param("scenarioId")); err != nil {
		return err
	}
	rc.Response.Header.Set(fasthttp.HeaderLocation, "/a/"+m.Param("pkgId"))
	rc.SetStatusCode(http.StatusSeeOther)
	return nil
}
