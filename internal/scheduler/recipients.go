package scheduler

import "taskcadence/internal/model"

// ResolveRecipients returns the unique addresses mapped to a task,
// preserving first-seen order. Task ID matching is case-sensitive.
func ResolveRecipients(taskID string, pairs []model.RecipientPair) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range pairs {
		if p.TaskID != taskID {
			continue
		}
		if _, dup := seen[p.Address]; dup {
			continue
		}
		seen[p.Address] = struct{}{}
		out = append(out, p.Address)
	}
	return out
}
