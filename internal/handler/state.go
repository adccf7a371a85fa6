package handler

import "sync"

type draft struct {
	description string
	plan        string
}

// DraftState holds the volatile per-session fields: the submitted project
// description and the most recently generated plan. Entries live only in
// memory, keyed by session ID, and are dropped on logout or process exit.
type DraftState struct {
	mu     sync.Mutex
	drafts map[int64]draft
}

func NewDraftState() *DraftState {
	return &DraftState{drafts: make(map[int64]draft)}
}

// SetGenerated records the latest generation result for a session,
// replacing any previous draft.
func (s *DraftState) SetGenerated(sessionID int64, description, plan string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[sessionID] = draft{description: description, plan: plan}
}

// Plan returns the last generated plan for a session, if any.
func (s *DraftState) Plan(sessionID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[sessionID]
	if !ok || d.plan == "" {
		return "", false
	}
	return d.plan, true
}

// Clear drops the session's draft.
func (s *DraftState) Clear(sessionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
}
