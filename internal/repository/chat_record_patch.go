package repository

import (
	"fmt"
	"sort"
	"strings"
)

// RecordPatch is the set of mutations a chat record accepts after creation.
type RecordPatch struct {
	Title  *string
	Pinned *bool
}

func (p RecordPatch) IsEmpty() bool {
	return p.Title == nil && p.Pinned == nil
}

// ParsePatch converts a free-form field map (typically decoded JSON) into a
// RecordPatch, rejecting immutable and unknown fields.
func ParsePatch(fields map[string]interface{}) (RecordPatch, error) {
	var patch RecordPatch

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := fields[key]
		switch key {
		case "id", "created_at", "updated_at", "question", "answer":
			return RecordPatch{}, fmt.Errorf("%w: %s", ErrImmutableField, key)
		case "title":
			title, ok := value.(string)
			if !ok || strings.TrimSpace(title) == "" {
				return RecordPatch{}, fmt.Errorf("%w: title must be a non-empty string", ErrInvalidPatchValue)
			}
			title = strings.TrimSpace(title)
			patch.Title = &title
		case "pinned":
			pinned, ok := value.(bool)
			if !ok {
				return RecordPatch{}, fmt.Errorf("%w: pinned must be a boolean", ErrInvalidPatchValue)
			}
			patch.Pinned = &pinned
		default:
			return RecordPatch{}, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
	}

	if patch.IsEmpty() {
		return RecordPatch{}, ErrEmptyPatch
	}
	return patch, nil
}
