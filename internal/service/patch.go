package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phrazzld/task-manager-api/internal/domain"
)

// Patch is a partial update as submitted by a client, keyed by field name.
// Keeping the raw values lets the field names be checked against a whitelist
// before anything is decoded or persisted.
type Patch map[string]json.RawMessage

// Fields returns the submitted field names.
func (p Patch) Fields() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	return names
}

// decodeInto checks every field against allowed and then decodes the patch
// into dst, a pointer to a struct of optional fields.
func (p Patch) decodeInto(allowed domain.FieldSet, dst any) error {
	if unknown := allowed.Unknown(p.Fields()); len(unknown) > 0 {
		return &UnknownFieldError{Fields: unknown}
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("re-encode patch: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &domain.ValidationError{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("Invalid value for %s", typeErr.Field),
			}
		}
		return &domain.ValidationError{Field: "body", Message: "Malformed update"}
	}
	return nil
}
