package reconcile

import (
	"strings"

	"jobcard-automation/internal/model"
)

// MatchTrigger returns the first field whose id or name matches the configured
// trigger field and whose value equals the yes value, ignoring case and
// surrounding space.
func MatchTrigger(fields []model.CustomField, cfg Config) (model.CustomField, bool) {
	yes := strings.TrimSpace(cfg.YesValue)
	if yes == "" {
		return model.CustomField{}, false
	}
	for _, f := range fields {
		if !isTriggerField(f, cfg) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(f.Value), yes) {
			return f, true
		}
	}
	return model.CustomField{}, false
}

func isTriggerField(f model.CustomField, cfg Config) bool {
	if id := strings.TrimSpace(cfg.TriggerFieldID); id != "" && strings.TrimSpace(f.ID) == id {
		return true
	}
	name := strings.TrimSpace(cfg.TriggerFieldName)
	return name != "" && strings.EqualFold(strings.TrimSpace(f.Name), name)
}
