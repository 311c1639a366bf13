package model

import (
	json "github.com/goccy/go-json"
)

// Extra holds the fields of a server record that have no typed counterpart.
// They are kept so a record can be handed back to a view unchanged.
type Extra map[string]json.RawMessage

// splitExtra returns every top-level key of data that is not in known.
func splitExtra(data []byte, known ...string) (Extra, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return Extra(all), nil
}

// mergeExtra adds extra fields to an already encoded object. Typed fields win.
func mergeExtra(typed []byte, extra Extra) ([]byte, error) {
	if len(extra) == 0 {
		return typed, nil
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(typed, &all); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}
	return json.Marshal(all)
}

func (e Extra) clone() Extra {
	if e == nil {
		return nil
	}
	out := make(Extra, len(e))
	for k, v := range e {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}
