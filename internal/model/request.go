package model

// CreateScenarioRequest is posted to package/{publisherId}/scenario, for both
// new scenarios and copies.
type CreateScenarioRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RenameRequest is the body of the rename command route.
type RenameRequest struct {
	Name string `json:"name"`
}

// CopyRequest is the body of the copy command route.
type CopyRequest struct {
	Name string `json:"name"`
}

// ConfigRequest is the body of the config command route.
type ConfigRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}
