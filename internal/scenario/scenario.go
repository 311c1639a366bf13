package scenario

import (
	"github.com/google/uuid"

	"publisher-planner/internal/model"
)

// ProjectionYears is the horizon of the big-deal cost projection.
const ProjectionYears = 5

// DefaultName is given to scenarios created from scratch.
const DefaultName = "New Scenario"

// Build turns a scenario payload into a scenario. Journals are annotated with
// their position and whether their ISSN-L is in subscriptions. resp is not
// modified.
func Build(resp *model.ScenarioResponse, subscriptions []string) *model.Scenario {
	subscribed := make(map[string]struct{}, len(subscriptions))
	for _, issn := range subscriptions {
		subscribed[issn] = struct{}{}
	}

	journals := make([]model.Journal, len(resp.Journals))
	for i, j := range resp.Journals {
		j = j.Clone()
		j.CPUIndex = i
		_, j.Subscribed = subscribed[j.IssnL]
		journals[i] = j
	}

	saved := resp.Saved.Clone()
	return &model.Scenario{
		ID:                   resp.Meta.ScenarioID,
		Saved:                saved,
		Journals:             journals,
		CostBigdealProjected: projectedFromConfigs(saved),
	}
}

// CostBigdealProjected is the average yearly big-deal cost over
// ProjectionYears, starting at cost and growing by increasePercent each year.
func CostBigdealProjected(cost, increasePercent float64) float64 {
	rate := increasePercent / 100
	var total float64
	costThisYear := cost
	for year := 1; year <= ProjectionYears; year++ {
		total += costThisYear
		costThisYear = costThisYear * (1 + rate)
	}
	return total / ProjectionYears
}

func projectedFromConfigs(saved model.SavedScenario) float64 {
	return CostBigdealProjected(
		saved.ConfigFloat(model.ConfigCostBigdeal),
		saved.ConfigFloat(model.ConfigCostBigdealIncrease),
	)
}

// New returns a placeholder scenario waiting for hydration.
func New(id, name string) *model.Scenario {
	return &model.Scenario{
		ID: id,
		Saved: model.SavedScenario{
			Name:    name,
			Configs: map[string]any{},
			Subrs:   []string{},
		},
		Journals:  []model.Journal{},
		IsLoading: true,
	}
}

// NewID returns a fresh client-side scenario id. Demo accounts get their own
// prefix.
func NewID(isDemo bool) string {
	prefix := "scenario-"
	if isDemo {
		prefix = "demo-scenario-"
	}
	return prefix + uuid.NewString()[:8]
}

// Merge copies a hydrated scenario onto dst. Config values already present on
// dst are kept; the server only fills keys dst does not have. The projection
// is recomputed from the merged configs and the loading flag cleared.
func Merge(dst, hydrated *model.Scenario) {
	configs := dst.Saved.Configs
	if configs == nil {
		configs = map[string]any{}
	}
	for k, v := range hydrated.Saved.Configs {
		if _, ok := configs[k]; !ok {
			configs[k] = v
		}
	}

	if hydrated.ID != "" {
		dst.ID = hydrated.ID
	}
	if hydrated.Saved.Name != "" {
		dst.Saved.Name = hydrated.Saved.Name
	}
	dst.Saved.Subrs = hydrated.Saved.Subrs
	dst.Saved.Configs = configs
	dst.Journals = hydrated.Journals
	dst.CostBigdealProjected = projectedFromConfigs(dst.Saved)
	dst.IsLoading = false
}
