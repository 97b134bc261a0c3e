package session

import (
	"sort"

	"github.com/shortbar/shortbar/internal/shortcut"
)

// sortStories orders the working set for presentation: stories group into
// four buckets by workflow-state type (started, unstarted, backlog, then
// everything else), and within a bucket a higher state position sorts
// earlier. A story whose state cannot be resolved lands in the last bucket
// with position 0.
func sortStories(stories []shortcut.Story, workflows map[int]shortcut.Workflow) []shortcut.Story {
	sorted := make([]shortcut.Story, len(stories))
	copy(sorted, stories)

	sort.SliceStable(sorted, func(i, j int) bool {
		pi, posi := sortKey(sorted[i], workflows)
		pj, posj := sortKey(sorted[j], workflows)
		if pi != pj {
			return pi < pj
		}
		return posi > posj
	})
	return sorted
}

func sortKey(story shortcut.Story, workflows map[int]shortcut.Workflow) (priority, position int) {
	wf, ok := workflows[story.WorkflowID]
	if !ok {
		return 3, 0
	}
	state, ok := wf.State(story.WorkflowStateID)
	if !ok {
		return 3, 0
	}
	return statePriority(state.Type), state.Position
}

func statePriority(stateType string) int {
	switch shortcut.StateType(stateType) {
	case shortcut.StateTypeStarted:
		return 0
	case shortcut.StateTypeUnstarted:
		return 1
	case shortcut.StateTypeBacklog:
		return 2
	default:
		return 3
	}
}
