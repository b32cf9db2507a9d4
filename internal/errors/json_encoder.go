package errors

import "encoding/json"

// EncodeJSON renders a Report as stable, indented JSON for `--explain json`
// style tooling. Data keys are sorted by encoding/json's default map
// ordering, which is already lexicographic.
func EncodeJSON(r *Report) ([]byte, error) {
	if r.Schema == "" {
		r.Schema = "nifc.error/v1"
	}
	return json.MarshalIndent(r, "", "  ")
}
