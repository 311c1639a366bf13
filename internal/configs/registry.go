package configs

import (
	"fmt"
	"sort"

	"publisher-planner/internal/model"
)

var registry = map[string]Validator{
	model.ConfigCostBigdeal:          NonNegative(),
	model.ConfigCostBigdealIncrease:  Increase(),
	"cost_alacart_increase":          Increase(),
	"cost_content_fee_percent":       Percent(),
	"cost_ill":                       NonNegative(),
	"ill_request_percent_of_delayed": Percent(),
	"include_backfile":               Flag(),
	"include_bronze":                 Flag(),
	"include_submitted_version":      Flag(),
	"weight_authorship":              NonNegative(),
	"weight_citation":                NonNegative(),
	"weight_downloads":               NonNegative(),
}

func Get(key string) (Validator, bool) {
	v, ok := registry[key]
	return v, ok
}

// Keys lists the known config keys in order.
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate runs the validator registered for key. Unknown keys are let
// through with a warning since the server owns the config schema.
func Validate(key string, value any) []model.Message {
	if key == "" {
		return []model.Message{{
			Level:   model.LevelCritical,
			Code:    "EMPTY_CONFIG_KEY",
			Message: "Config key is empty",
		}}
	}
	v, ok := Get(key)
	if !ok {
		return []model.Message{{
			Level:   model.LevelWarning,
			Code:    "UNKNOWN_CONFIG_KEY",
			Message: fmt.Sprintf("Unknown config key: %s", key),
		}}
	}
	return v.Validate(key, value)
}
