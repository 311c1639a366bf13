package handler

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/stoewer/go-strcase"
	"github.com/valyala/fasthttp"

	"publisher-planner/internal/model"
	"publisher-planner/internal/router"
)

var exportHeader = []string{
	"issn_l", "title", "subject", "subscribed", "cpu", "cost_subscription", "cost_ill", "usage",
}

// export writes the scenario's journals as CSV. A scenario still loading is
// hydrated first so the file is never empty by accident.
func (h *Handler) export(ctx context.Context, rc *fasthttp.RequestCtx, m router.Match) error {
	sc, err := h.loadScenario(ctx, m)
	if err != nil {
		return err
	}
	if sc.IsLoading {
		if err := h.store.HydrateScenario(ctx, sc.ID); err != nil {
			return err
		}
		sc, err = h.loadScenario(ctx, m)
		if err != nil {
			return err
		}
	}

	rc.SetContentType("text/csv; charset=utf-8")
	rc.Response.Header.Set(fasthttp.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", exportFilename(sc)))

	w := csv.NewWriter(rc)
	if err := w.Write(exportHeader); err != nil {
		return err
	}
	for _, j := range sc.Journals {
		if err := w.Write(exportRow(j)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportFilename(sc *model.Scenario) string {
	name := strcase.KebabCase(sc.Saved.Name)
	if name == "" {
		name = sc.ID
	}
	return name + ".csv"
}

func exportRow(j model.Journal) []string {
	cpu := ""
	if j.CPU != nil {
		cpu = formatFloat(*j.CPU)
	}
	return []string{
		j.IssnL,
		j.Title,
		j.Subject,
		strconv.FormatBool(j.Subscribed),
		cpu,
		formatFloat(j.CostSubscription),
		formatFloat(j.CostIll),
		formatFloat(j.Usage),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
