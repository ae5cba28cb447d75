package complaints

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/db/models"
)

const (
	historyPrefix    = "Complaint updated: "
	historyNoChanges = "Complaint updated with no field changes"
)

// Volatile and attachment fields never appear in the rendered diff.
var historyExcludedFields = map[string]struct{}{
	"updated_at": {},
	"files":      {},
}

// snapshot flattens a complaint into its column/value map using the json tags.
func snapshot(complaint *models.Complaint) (map[string]any, error) {
	raw, err := json.Marshal(complaint)
	if err != nil {
		return nil, fmt.Errorf("encoding complaint snapshot: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decoding complaint snapshot: %w", err)
	}
	return fields, nil
}

// renderChanges produces the human-readable audit description for one update.
func renderChanges(before, after map[string]any) string {
	keys := make([]string, 0, len(after))
	for key := range after {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var changes []string
	for _, key := range keys {
		if _, excluded := historyExcludedFields[key]; excluded {
			continue
		}
		oldVal := renderValue(before[key])
		newVal := renderValue(after[key])
		if oldVal == newVal {
			continue
		}
		changes = append(changes, fmt.Sprintf("%s changed from '%s' to '%s'", fieldLabel(key), oldVal, newVal))
	}

	if len(changes) == 0 {
		return historyNoChanges
	}
	return historyPrefix + strings.Join(changes, ", ")
}

func renderValue(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case float64:
		// json numbers decode as float64; render integers without a fraction
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func fieldLabel(key string) string {
	label := strings.ReplaceAll(key, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
