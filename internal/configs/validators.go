package configs

import (
	"fmt"

	"publisher-planner/internal/model"
)

func notNumber(key string) []model.Message {
	return []model.Message{{
		Level:   model.LevelCritical,
		Code:    "INVALID_NUMBER",
		Message: fmt.Sprintf("%s must be a number", key),
	}}
}

// NonNegative accepts numbers >= 0.
func NonNegative() Validator {
	return ValidatorFunc(func(key string, value any) []model.Message {
		f, ok := model.ToFloat(value)
		if !ok {
			return notNumber(key)
		}
		if f < 0 {
			return []model.Message{{
				Level:   model.LevelCritical,
				Code:    "NEGATIVE_VALUE",
				Message: fmt.Sprintf("%s must be non-negative", key),
			}}
		}
		return nil
	})
}

// Percent accepts numbers between 0 and 100.
func Percent() Validator {
	return ValidatorFunc(func(key string, value any) []model.Message {
		f, ok := model.ToFloat(value)
		if !ok {
			return notNumber(key)
		}
		if f < 0 || f > 100 {
			return []model.Message{{
				Level:   model.LevelCritical,
				Code:    "INVALID_PERCENT",
				Message: fmt.Sprintf("%s must be between 0 and 100", key),
			}}
		}
		return nil
	})
}

// Increase accepts a yearly percentage change. A cut of more than 100% would
// make costs negative; more than 100% growth is allowed but flagged.
func Increase() Validator {
	return ValidatorFunc(func(key string, value any) []model.Message {
		f, ok := model.ToFloat(value)
		if !ok {
			return notNumber(key)
		}
		if f < -100 {
			return []model.Message{{
				Level:   model.LevelCritical,
				Code:    "INVALID_INCREASE",
				Message: fmt.Sprintf("%s cannot be below -100", key),
			}}
		}
		if f > 100 {
			return []model.Message{{
				Level:   model.LevelWarning,
				Code:    "LARGE_INCREASE",
				Message: fmt.Sprintf("%s of %.1f%% per year is unusually large", key, f),
			}}
		}
		return nil
	})
}

// Flag accepts booleans only.
func Flag() Validator {
	return ValidatorFunc(func(key string, value any) []model.Message {
		if _, ok := value.(bool); !ok {
			return []model.Message{{
				Level:   model.LevelCritical,
				Code:    "INVALID_FLAG",
				Message: fmt.Sprintf("%s must be true or false", key),
			}}
		}
		return nil
	})
}
