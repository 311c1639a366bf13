package configs

import "publisher-planner/internal/model"

// Validator checks one scenario config value before it is saved.
type Validator interface {
	Validate(key string, value any) []model.Message
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(key string, value any) []model.Message

func (f ValidatorFunc) Validate(key string, value any) []model.Message {
	return f(key, value)
}
