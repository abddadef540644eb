package service

import (
	"github.com/zayar/cashflow-pwa-sub000/internal/draft"
)

// DraftService scopes draft stores to editing sessions. Each authenticated
// user gets at most one store; reading or dispatching before Start (or after
// Discard) surfaces draft.ErrNoSession to the handler, which maps it to a
// conflict instead of silently serving an absent draft.
type DraftService interface {
	Start(sessionID string) draft.Draft
	Get(sessionID string) (draft.Draft, error)
	Apply(sessionID string, a draft.Action) (draft.Draft, error)
	Discard(sessionID string)
}

type draftService struct {
	sessions *draft.Sessions
}

func NewDraftService(sessions *draft.Sessions) DraftService {
	return &draftService{sessions: sessions}
}

// Start provisions the session's store and resets it to a fresh draft, the
// same path the PWA takes on every "new invoice" entry point.
func (s *draftService) Start(sessionID string) draft.Draft {
	return s.sessions.Open(sessionID).Dispatch(draft.Reset{})
}

func (s *draftService) Get(sessionID string) (draft.Draft, error) {
	st, err := s.sessions.Get(sessionID)
	if err != nil {
		return draft.Draft{}, err
	}
	return st.State(), nil
}

func (s *draftService) Apply(sessionID string, a draft.Action) (draft.Draft, error) {
	st, err := s.sessions.Get(sessionID)
	if err != nil {
		return draft.Draft{}, err
	}
	return st.Dispatch(a), nil
}

func (s *draftService) Discard(sessionID string) {
	s.sessions.Close(sessionID)
}
