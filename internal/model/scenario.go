package model

import (
	"math"
	"strconv"

	json "github.com/goccy/go-json"
)

// Config keys the client reads itself. Every other key is opaque and only
// round-tripped to the server.
const (
	ConfigCostBigdeal         = "cost_bigdeal"
	ConfigCostBigdealIncrease = "cost_bigdeal_increase"
)

// SavedScenario is the user-editable part of a scenario. It is the only
// thing the client ever pushes to the server.
type SavedScenario struct {
	Name    string         `json:"name"`
	Configs map[string]any `json:"configs"`
	Subrs   []string       `json:"subrs"`
}

func (s SavedScenario) Clone() SavedScenario {
	out := SavedScenario{Name: s.Name}
	if s.Configs != nil {
		out.Configs = make(map[string]any, len(s.Configs))
		for k, v := range s.Configs {
			out.Configs[k] = cloneValue(v)
		}
	}
	if s.Subrs != nil {
		out.Subrs = append(make([]string, 0, len(s.Subrs)), s.Subrs...)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		l := make([]any, len(t))
		for i, e := range t {
			l[i] = cloneValue(e)
		}
		return l
	}
	return v
}

// ConfigFloat reads a numeric config value. Missing or non-numeric values
// read as 0.
func (s SavedScenario) ConfigFloat(key string) float64 {
	f, _ := ToFloat(s.Configs[key])
	return f
}

// ToFloat converts a decoded JSON value to a float64. NaN and infinities are
// not numbers here.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(n, 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Scenario is a named set of pricing parameters plus the server-computed
// journal outcomes for them.
type Scenario struct {
	ID                   string        `json:"id"`
	Saved                SavedScenario `json:"saved"`
	Journals             []Journal     `json:"journals"`
	CostBigdealProjected float64       `json:"costBigdealProjected"`
	IsLoading            bool          `json:"isLoading"`
}

func (s *Scenario) Clone() *Scenario {
	if s == nil {
		return nil
	}
	out := *s
	out.Saved = s.Saved.Clone()
	if s.Journals != nil {
		out.Journals = make([]Journal, len(s.Journals))
		for i, j := range s.Journals {
			out.Journals[i] = j.Clone()
		}
	}
	return &out
}

// SubscribedCount returns the number of journals flagged as subscribed.
func (s *Scenario) SubscribedCount() int {
	n := 0
	for _, j := range s.Journals {
		if j.Subscribed {
			n++
		}
	}
	return n
}

// ScenarioMeta carries server-side identity of a scenario payload.
type ScenarioMeta struct {
	ScenarioID string `json:"scenario_id"`
}

// ScenarioResponse is the body of GET scenario/{id}/journals.
type ScenarioResponse struct {
	Journals []Journal     `json:"journals"`
	Saved    SavedScenario `json:"saved"`
	Meta     ScenarioMeta  `json:"meta"`
}
