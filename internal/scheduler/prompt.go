package scheduler

import (
	"fmt"
	"strings"

	"taskcadence/internal/model"
)

const (
	historyHeader       = "These are the results produced by the previous runs of this task:"
	antiRepeatDirective = "Write something new: do not repeat the topics or wording of the results listed above."
)

// BuildPrompt resolves a task's outbound prompt. With no history the
// template is returned unchanged; otherwise a numbered, most-recent-first
// digest of prior outputs is appended so the downstream generator can
// avoid repeating itself.
func BuildPrompt(task model.Task, recent []model.Execution) string {
	if len(recent) == 0 {
		return task.PromptTemplate
	}

	var b strings.Builder
	b.WriteString(task.PromptTemplate)
	b.WriteString("\n\n")
	b.WriteString(historyHeader)
	b.WriteString("\n")
	for i, e := range recent {
		fmt.Fprintf(&b, "%d. %s : %s\n", i+1, FormatLogTimestamp(e.ExecutedAt), e.Output)
	}
	b.WriteString("\n")
	b.WriteString(antiRepeatDirective)
	return b.String()
}
