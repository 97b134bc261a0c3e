package shortcut

// Member represents the currently authenticated Shortcut user
type Member struct {
	MentionName string `json:"mention_name"`
}

// Story represents a Shortcut story assigned to the user
type Story struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	StoryType       string  `json:"story_type"` // "feature", "bug", "chore"
	AppURL          string  `json:"app_url"`
	Blocked         bool    `json:"blocked"`
	WorkflowID      int     `json:"workflow_id"`
	WorkflowStateID int     `json:"workflow_state_id"`
	GroupID         *string `json:"group_id"`
	EpicID          *int    `json:"epic_id"`
}

// StorySearchResults wraps the story search response envelope
type StorySearchResults struct {
	Data []Story `json:"data"`
}

// Team represents a Shortcut group ("team" in the UI)
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Epic represents a Shortcut epic
type Epic struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// WorkflowState represents one stage in a workflow
type WorkflowState struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"` // "started", "unstarted", "backlog", "done"
	Position int    `json:"position"`
}

// Workflow represents a named ordered sequence of workflow states
type Workflow struct {
	ID     int             `json:"id"`
	Name   string          `json:"name"`
	States []WorkflowState `json:"states"`
}

// StateType represents the coarse workflow state types Shortcut defines
type StateType string

const (
	StateTypeBacklog   StateType = "backlog"
	StateTypeUnstarted StateType = "unstarted"
	StateTypeStarted   StateType = "started"
	StateTypeDone      StateType = "done"
)

// Type returns the story type, defaulting to "feature" when the API
// omitted it.
func (s *Story) Type() string {
	if s.StoryType == "" {
		return "feature"
	}
	return s.StoryType
}

// State returns the workflow state with the given id, or false when the
// story references a state this workflow does not contain.
func (w *Workflow) State(id int) (WorkflowState, bool) {
	for _, st := range w.States {
		if st.ID == id {
			return st, true
		}
	}
	return WorkflowState{}, false
}
