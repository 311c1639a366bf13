package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"

	"publisher-planner/internal/format"
	"publisher-planner/internal/model"
	"publisher-planner/internal/router"
	"publisher-planner/internal/store"
)

func (h *Handler) home(_ context.Context, rc *fasthttp.RequestCtx, _ router.Match) error {
	writeJSON(rc, http.StatusOK, map[string]any{
		"page":   "home",
		"app":    h.opts.AppName,
		"routes": router.Routes,
	})
	return nil
}

func (h *Handler) static(page string) viewFunc {
	return func(_ context.Context, rc *fasthttp.RequestCtx, _ router.Match) error {
		writeJSON(rc, http.StatusOK, map[string]any{"page": page})
		return nil
	}
}

func (h *Handler) purchaseResult(_ context.Context, rc *fasthttp.RequestCtx, m router.Match) error {
	result := m.Param("result")
	writeJSON(rc, http.StatusOK, map[string]any{
		"page":    "purchase-result",
		"result":  result,
		"success": result == "success",
	})
	return nil
}

type accountView struct {
	Page          string `json:"page"`
	PublisherID   string `json:"publisherId,omitempty"`
	PublisherName string `json:"publisherName,omitempty"`
	IsLoading     bool   `json:"isLoading"`
}

func (h *Handler) account(_ context.Context, rc *fasthttp.RequestCtx, _ router.Match) error {
	writeJSON(rc, http.StatusOK, accountView{
		Page:          "account",
		PublisherID:   h.store.PublisherID(),
		PublisherName: h.store.PublisherName(),
		IsLoading:     h.store.IsLoading(),
	})
	return nil
}

type scenarioSummary struct {
	ID                          string  `json:"id"`
	Name                        string  `json:"name"`
	IsLoading                   bool    `json:"isLoading"`
	SubscribedCount             int     `json:"subscribedCount"`
	CostBigdealProjected        float64 `json:"costBigdealProjected"`
	CostBigdealProjectedDisplay string  `json:"costBigdealProjectedDisplay"`
}

func summarize(sc *model.Scenario) scenarioSummary {
	return scenarioSummary{
		ID:                          sc.ID,
		Name:                        sc.Saved.Name,
		IsLoading:                   sc.IsLoading,
		SubscribedCount:             sc.SubscribedCount(),
		CostBigdealProjected:        sc.CostBigdealProjected,
		CostBigdealProjectedDisplay: format.Currency(sc.CostBigdealProjected),
	}
}

type packageView struct {
	ID                    string                    `json:"id"`
	Name                  string                    `json:"name"`
	Publisher             string                    `json:"publisher"`
	Logo                  string                    `json:"logo"`
	IsDemo                bool                      `json:"isDemo"`
	IsOwnedByConsortium   bool                      `json:"isOwnedByConsortium"`
	IsLoading             bool                      `json:"isLoading"`
	BigDealCost           float64                   `json:"bigDealCost"`
	BigDealCostDisplay    string                    `json:"bigDealCostDisplay"`
	JournalCounts         model.JournalCounts       `json:"journalCounts"`
	JournalsCount         int                       `json:"journalsCount"`
	ValidJournalsCount    int                       `json:"validJournalsCount"`
	CounterIsUploaded     bool                      `json:"counterIsUploaded"`
	Files                 map[string]model.DataFile `json:"files"`
	Scenarios             []scenarioSummary         `json:"scenarios"`
	ScenariosCount        int                       `json:"scenariosCount"`
	ScenariosAreAllLoaded bool                      `json:"scenariosAreAllLoaded"`
}

func (h *Handler) pkg(ctx context.Context, rc *fasthttp.RequestCtx, m router.Match) error {
	if err := h.store.FetchPublisher(ctx, m.Param("pkgId")); err != nil {
		return err
	}
	scenarios := h.store.Scenarios()
	summaries := make([]scenarioSummary, len(scenarios))
	for i, sc := range scenarios {
		summaries[i] = summarize(sc)
	}
	writeJSON(rc, http.StatusOK, packageView{
		ID:                    h.store.PublisherID(),
		Name:                  h.store.PublisherName(),
		Publisher:             h.store.PublisherSlug(),
		Logo:                  h.store.PublisherLogo(),
		IsDemo:                h.store.IsDemo(),
		IsOwnedByConsortium:   h.store.IsOwnedByConsortium(),
		IsLoading:             h.store.IsLoading(),
		BigDealCost:           h.store.BigDealCost(),
		BigDealCostDisplay:    format.Currency(h.store.BigDealCost()),
		JournalCounts:         h.store.JournalCounts(),
		JournalsCount:         len(h.store.Journals()),
		ValidJournalsCount:    len(h.store.ValidJournals()),
		CounterIsUploaded:     h.store.CounterIsUploaded(),
		Files:                 h.store.FilesDict(),
		Scenarios:             summaries,
		ScenariosCount:        h.store.ScenariosCount(),
		ScenariosAreAllLoaded: h.store.ScenariosAreAllLoaded(),
	})
	return nil
}

// loadScenario makes sure the package is loaded and returns a snapshot of
// one of its scenarios.
func (h *Handler) loadScenario(ctx context.Context, m router.Match) (*model.Scenario, error) {
	if err := h.store.FetchPublisher(ctx, m.Param("pkgId")); err != nil {
		return nil, err
	}
	sc, ok := h.store.Scenario(m.Param("scenarioId"))
	if !ok {
		return nil, store.ErrScenarioNotFound
	}
	return sc, nil
}

type scenarioView struct {
	PublisherID   string          `json:"publisherId"`
	PublisherName string          `json:"publisherName"`
	Scenario      *model.Scenario `json:"scenario"`
}

func (h *Handler) scenario(ctx context.Context, rc *fasthttp.RequestCtx, m router.Match) error {
	sc, err := h.loadScenario(ctx, m)
	if err != nil {
		return err
	}
	writeJSON(rc, http.StatusOK, scenarioView{
		PublisherID:   h.store.PublisherID(),
		PublisherName: h.store.PublisherName(),
		Scenario:      sc,
	})
	return nil
}

type overviewView struct {
	ScenarioID                  string  `json:"scenarioId"`
	Name                        string  `json:"name"`
	IsLoading                   bool    `json:"isLoading"`
	JournalsCount               int     `json:"journalsCount"`
	SubscribedCount             int     `json:"subscribedCount"`
	SubscribedPercent           string  `json:"subscribedPercent"`
	SubscriptionCost            float64 `json:"subscriptionCost"`
	SubscriptionCostDisplay     string  `json:"subscriptionCostDisplay"`
	IllCost                     float64 `json:"illCost"`
	IllCostDisplay              string  `json:"illCostDisplay"`
	CostBigdeal                 float64 `json:"costBigdeal"`
	CostBigdealDisplay          string  `json:"costBigdealDisplay"`
	CostBigdealProjected        float64 `json:"costBigdealProjected"`
	CostBigdealProjectedDisplay string  `json:"costBigdealProjectedDisplay"`
	// PercentOfBigdeal is the cost of the scenario (subscriptions plus ILL
	// for everything else) relative to the projected big-deal cost.
	PercentOfBigdeal string `json:"percentOfBigdeal"`
}

func newOverview(sc *model.Scenario) overviewView {
	var subCost, illCost float64
	for _, j := range sc.Journals {
		if j.Subscribed {
			subCost += j.CostSubscription
		} else {
			illCost += j.CostIll
		}
	}
	bigdeal := sc.Saved.ConfigFloat(model.ConfigCostBigdeal)

	v := overviewView{
		ScenarioID:                  sc.ID,
		Name:                        sc.Saved.Name,
		IsLoading:                   sc.IsLoading,
		JournalsCount:               len(sc.Journals),
		SubscribedCount:             sc.SubscribedCount(),
		SubscriptionCost:            subCost,
		SubscriptionCostDisplay:     format.Currency(subCost),
		IllCost:                     illCost,
		IllCostDisplay:              format.Currency(illCost),
		CostBigdeal:                 bigdeal,
		CostBigdealDisplay:          format.Currency(bigdeal),
		CostBigdealProjected:        sc.CostBigdealProjected,
		CostBigdealProjectedDisplay: format.Currency(sc.CostBigdealProjected),
		SubscribedPercent:           format.Percent(0, 1),
		PercentOfBigdeal:            format.Percent(0, 1),
	}
	if n := len(sc.Journals); n > 0 {
		v.SubscribedPercent = format.Percent(float64(v.SubscribedCount)/float64(n)*100, 1)
	}
	if sc.CostBigdealProjected > 0 {
		v.PercentOfBigdeal = format.Percent((subCost+illCost)/sc.CostBigdealProjected*100, 1)
	}
	return v
}

func (h *Handler) overview(ctx context.Context, rc *fasthttp.RequestCtx, m router.Match) error {
	sc, err := h.loadScenario(ctx, m)
	if err != nil {
		return err
	}
	writeJSON(rc, http.StatusOK, newOverview(sc))
	return nil
}

type journalsView struct {
	ScenarioID      string          `json:"scenarioId"`
	IsLoading       bool            `json:"isLoading"`
	SubscribedCount int             `json:"subscribedCount"`
	Journals        []model.Journal `json:"journals"`
}

// journals lists the scenario's journals. ?subscribed=true or false narrows
// the list.
func (h *Handler) journals(ctx context.Context, rc *fasthttp.RequestCtx, m router.Match) error {
	sc, err := h.loadScenario(ctx, m)
	if err != nil {
		return err
	}
	list := sc.Journals
	if filter := rc.QueryArgs().Peek("subscribed"); len(filter) > 0 {
		want := string(filter) == "true"
		list = make([]model.Journal, 0, len(sc.Journals))
		for _, j := range sc.Journals {
			if j.Subscribed == want {
				list = append(list, j)
			}
		}
	}
	if list == nil {
		list = []model.Journal{}
	}
	writeJSON(rc, http.StatusOK, journalsView{
		ScenarioID:      sc.ID,
		IsLoading:       sc.IsLoading,
		SubscribedCount: sc.SubscribedCount(),
		Journals:        list,
	})
	return nil
}

type apcView struct {
	model.Apc
	PapersCountDisplay            string `json:"apcPapersCountDisplay"`
	AuthorsFractionalCountDisplay string `json:"apcAuthorsFractionalCountDisplay"`
	CostDisplay                   string `json:"apcCostDisplay"`
}

func displayOptional(v *float64, render func(float64) string) string {
	if v == nil {
		return ""
	}
	return render(*v)
}

// apc reports on the whole package; the scenario in the path only has to
// exist.
func (h *Handler) apc(ctx context.Context, rc *fasthttp.RequestCtx, m router.Match) error {
	if _, err := h.loadScenario(ctx, m); err != nil {
		return err
	}
	h.store.FetchApc(ctx, m.Param("pkgId"))
	apc := h.store.Apc()
	writeJSON(rc, http.StatusOK, apcView{
		Apc:                           apc,
		PapersCountDisplay:            displayOptional(apc.PapersCount, func(v float64) string { return format.Round(v, 0) }),
		AuthorsFractionalCountDisplay: displayOptional(apc.AuthorsFractionalCount, func(v float64) string { return format.Round(v, 1) }),
		CostDisplay:                   displayOptional(apc.Cost, format.Currency),
	})
	return nil
}
