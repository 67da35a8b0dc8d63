package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/bindgen/internal/ir"
)

// marshalCounts converts Counts to canonical JSON TEXT for storage.
func marshalCounts(c Counts) (string, error) {
	data, err := ir.MarshalCanonical(map[string]any{
		"enums":     c.Enums,
		"records":   c.Records,
		"functions": c.Functions,
		"objects":   c.Objects,
	})
	if err != nil {
		return "", fmt.Errorf("marshal counts: %w", err)
	}
	return string(data), nil
}

// unmarshalCounts parses the counts column.
func unmarshalCounts(data string) (Counts, error) {
	var c Counts
	if data == "" || data == "{}" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return Counts{}, fmt.Errorf("unmarshal counts: %w", err)
	}
	return c, nil
}
