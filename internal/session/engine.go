// Package session owns the in-memory working set for one run of the app:
// the authenticated member, the workflow/team/epic reference maps, and the
// sorted list of assigned stories. The cache lives for the process lifetime
// only and is rebuilt on demand from the Shortcut API.
package session

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/shortbar/shortbar/internal/shortcut"
	"github.com/shortbar/shortbar/internal/token"
)

// API is the slice of the Shortcut client the engine consumes.
type API interface {
	CurrentMember(ctx context.Context) (shortcut.Member, error)
	Workflows(ctx context.Context) ([]shortcut.Workflow, error)
	Teams(ctx context.Context) ([]shortcut.Team, error)
	Epic(ctx context.Context, id int) (shortcut.Epic, error)
	MyStories(ctx context.Context, mentionName string) ([]shortcut.Story, error)
	ValidateToken(ctx context.Context) bool
}

// DefaultEpicFetchLimit bounds how many epic lookups run concurrently
// during a refresh.
const DefaultEpicFetchLimit = 4

// Engine orchestrates refresh cycles over the session cache. All cache
// mutations happen under one mutex; network calls run outside it and their
// results are merged back in one critical section, so no reader ever sees
// a half-updated map.
type Engine struct {
	api            API
	tokens         *token.Store
	logger         *slog.Logger
	epicFetchLimit int

	mu            sync.Mutex
	user          *shortcut.Member
	workflows     map[int]shortcut.Workflow
	teams         map[string]shortcut.Team
	epics         map[int]shortcut.Epic
	stories       []shortcut.Story
	loading       bool
	errMsg        string
	authenticated bool
	refreshing    bool
}

// NewEngine creates an engine over the given API and token store. The
// session starts authenticated when a token is already stored.
func NewEngine(api API, tokens *token.Store, epicFetchLimit int, logger *slog.Logger) *Engine {
	if epicFetchLimit <= 0 {
		epicFetchLimit = DefaultEpicFetchLimit
	}
	return &Engine{
		api:            api,
		tokens:         tokens,
		logger:         logger,
		epicFetchLimit: epicFetchLimit,
		workflows:      make(map[int]shortcut.Workflow),
		teams:          make(map[string]shortcut.Team),
		epics:          make(map[int]shortcut.Epic),
		authenticated:  tokens.HasToken(),
	}
}

// Authenticated reports whether a token is configured for this session.
func (e *Engine) Authenticated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.authenticated
}

// Refresh runs one refresh cycle: fetch-if-absent for member, workflows and
// teams, an unconditional re-fetch of the assigned story list, a bounded
// concurrent fan-out for epics the cache has not seen, and a re-sort of the
// working set. Reference data fetched by earlier calls is kept on failure.
// A Refresh arriving while one is already in flight coalesces into it and
// returns immediately.
func (e *Engine) Refresh(ctx context.Context) {
	e.mu.Lock()
	if !e.authenticated {
		e.errMsg = "Please configure your API token"
		e.mu.Unlock()
		return
	}
	if e.refreshing {
		e.mu.Unlock()
		return
	}
	e.refreshing = true
	e.loading = true
	e.errMsg = ""
	user := e.user
	needWorkflows := len(e.workflows) == 0
	needTeams := len(e.teams) == 0
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.loading = false
		e.refreshing = false
		e.mu.Unlock()
	}()

	if user == nil {
		member, err := e.api.CurrentMember(ctx)
		if err != nil {
			e.fail(err)
			return
		}
		user = &member
		e.mu.Lock()
		e.user = user
		e.mu.Unlock()
	}

	if needWorkflows {
		workflows, err := e.api.Workflows(ctx)
		if err != nil {
			e.fail(err)
			return
		}
		e.mu.Lock()
		for _, wf := range workflows {
			e.workflows[wf.ID] = wf
		}
		e.mu.Unlock()
	}

	if needTeams {
		teams, err := e.api.Teams(ctx)
		if err != nil {
			e.fail(err)
			return
		}
		e.mu.Lock()
		for _, t := range teams {
			e.teams[t.ID] = t
		}
		e.mu.Unlock()
	}

	// Stories are volatile and re-fetched on every cycle
	stories, err := e.api.MyStories(ctx, user.MentionName)
	if err != nil {
		e.fail(err)
		return
	}

	e.fetchMissingEpics(ctx, stories)

	e.mu.Lock()
	e.stories = sortStories(stories, e.workflows)
	e.mu.Unlock()
}

// fetchMissingEpics fans out one lookup per epic id the cache has not seen,
// bounded to epicFetchLimit concurrent requests. Individual failures are
// logged and swallowed: a story whose epic cannot be fetched simply renders
// without epic info. Results are merged only after all lookups finish.
func (e *Engine) fetchMissingEpics(ctx context.Context, stories []shortcut.Story) {
	e.mu.Lock()
	seen := make(map[int]bool)
	var missing []int
	for _, s := range stories {
		if s.EpicID == nil || seen[*s.EpicID] {
			continue
		}
		seen[*s.EpicID] = true
		if _, ok := e.epics[*s.EpicID]; !ok {
			missing = append(missing, *s.EpicID)
		}
	}
	e.mu.Unlock()

	if len(missing) == 0 {
		return
	}

	var (
		fetchMu sync.Mutex
		fetched = make(map[int]shortcut.Epic, len(missing))
	)
	g := new(errgroup.Group)
	g.SetLimit(e.epicFetchLimit)
	for _, id := range missing {
		g.Go(func() error {
			epic, err := e.api.Epic(ctx, id)
			if err != nil {
				e.logger.Warn("epic fetch failed", "epic", id, "err", err)
				return nil
			}
			fetchMu.Lock()
			fetched[id] = epic
			fetchMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	e.mu.Lock()
	for id, epic := range fetched {
		e.epics[id] = epic
	}
	e.mu.Unlock()
}

func (e *Engine) fail(err error) {
	e.logger.Error("refresh failed", "err", err)
	e.mu.Lock()
	e.errMsg = err.Error()
	e.mu.Unlock()
}

// SaveToken stores and validates a freshly entered token. When the remote
// rejects it the token is deleted again and the session stays
// unauthenticated, so no stale secret is left behind. On success an initial
// refresh populates the cache.
func (e *Engine) SaveToken(ctx context.Context, secret string) bool {
	if !e.tokens.Save(secret) {
		e.mu.Lock()
		e.errMsg = "Failed to save token"
		e.mu.Unlock()
		return false
	}

	e.mu.Lock()
	e.authenticated = true
	e.mu.Unlock()

	if !e.api.ValidateToken(ctx) {
		e.tokens.Delete()
		e.mu.Lock()
		e.authenticated = false
		e.errMsg = "Invalid API token"
		e.mu.Unlock()
		return false
	}

	e.Refresh(ctx)
	return true
}

// Logout deletes the token and resets the entire session cache.
func (e *Engine) Logout() {
	e.tokens.Delete()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.authenticated = false
	e.user = nil
	e.stories = nil
	e.workflows = make(map[int]shortcut.Workflow)
	e.teams = make(map[string]shortcut.Team)
	e.epics = make(map[int]shortcut.Epic)
	e.errMsg = ""
}

// Snapshot returns a copy of the current session state that is safe to
// read while a refresh runs.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		User:          e.user,
		Stories:       make([]shortcut.Story, len(e.stories)),
		Workflows:     make(map[int]shortcut.Workflow, len(e.workflows)),
		Teams:         make(map[string]shortcut.Team, len(e.teams)),
		Epics:         make(map[int]shortcut.Epic, len(e.epics)),
		Loading:       e.loading,
		Err:           e.errMsg,
		Authenticated: e.authenticated,
	}
	copy(snap.Stories, e.stories)
	for id, wf := range e.workflows {
		snap.Workflows[id] = wf
	}
	for id, t := range e.teams {
		snap.Teams[id] = t
	}
	for id, ep := range e.epics {
		snap.Epics[id] = ep
	}
	return snap
}
