package apperr

import (
	"encoding/json"
)

// CheckWhitelist enforces PATCH whitelist semantics: if any submitted field
// is outside the resource's mutable set, the whole update is rejected with
// one message per offending field and nothing gets applied.
func CheckWhitelist(patch map[string]json.RawMessage, allowed []string) error {
	fields := map[string]string{}
	for key := range patch {
		ok := false
		for _, a := range allowed {
			if key == a {
				ok = true
				break
			}
		}
		if !ok {
			fields[key] = FieldLabel(key) + " cannot be modified."
		}
	}
	if len(fields) > 0 {
		return NewValidation(fields)
	}
	return nil
}
