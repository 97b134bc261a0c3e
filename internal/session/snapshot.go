package session

import "github.com/shortbar/shortbar/internal/shortcut"

// Snapshot is an immutable copy of the session cache handed to the
// presentation layer. Its lookups are pure: an unknown or dangling id
// yields absent, never a panic.
type Snapshot struct {
	User          *shortcut.Member
	Stories       []shortcut.Story
	Workflows     map[int]shortcut.Workflow
	Teams         map[string]shortcut.Team
	Epics         map[int]shortcut.Epic
	Loading       bool
	Err           string
	Authenticated bool
}

// StateFor resolves a story's workflow state. Stories may reference a
// state their workflow does not contain; the server does not enforce this.
func (s Snapshot) StateFor(story shortcut.Story) (shortcut.WorkflowState, bool) {
	wf, ok := s.Workflows[story.WorkflowID]
	if !ok {
		return shortcut.WorkflowState{}, false
	}
	return wf.State(story.WorkflowStateID)
}

// WorkflowFor resolves a story's workflow.
func (s Snapshot) WorkflowFor(story shortcut.Story) (shortcut.Workflow, bool) {
	wf, ok := s.Workflows[story.WorkflowID]
	return wf, ok
}

// TeamFor resolves a story's team, absent when the story has none.
func (s Snapshot) TeamFor(story shortcut.Story) (shortcut.Team, bool) {
	if story.GroupID == nil {
		return shortcut.Team{}, false
	}
	t, ok := s.Teams[*story.GroupID]
	return t, ok
}

// EpicFor resolves a story's epic, absent when the story has none or its
// epic fetch failed.
func (s Snapshot) EpicFor(story shortcut.Story) (shortcut.Epic, bool) {
	if story.EpicID == nil {
		return shortcut.Epic{}, false
	}
	ep, ok := s.Epics[*story.EpicID]
	return ep, ok
}

// MentionName returns the user's mention handle, empty before the first
// successful refresh.
func (s Snapshot) MentionName() string {
	if s.User == nil {
		return ""
	}
	return s.User.MentionName
}
