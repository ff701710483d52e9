package scheduler

import "taskcadence/internal/model"

// Explode expands an enriched due task into one dispatch item per
// recipient. The expansion is a pure one-to-many mapping; delivery
// outcome is downstream's concern.
func Explode(t model.EnrichedTask) []model.DispatchItem {
	items := make([]model.DispatchItem, 0, len(t.Recipients))
	for _, r := range t.Recipients {
		items = append(items, model.DispatchItem{
			Task:           t.Task,
			ResolvedPrompt: t.ResolvedPrompt,
			HistoryCount:   t.HistoryCount,
			Recipient:      r,
		})
	}
	return items
}
