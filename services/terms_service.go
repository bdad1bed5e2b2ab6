package services

import (
	"context"
	"log"
	"sync"
	"time"

	"tours-server/models"
)

// CurrentTermsVersion is the terms revision users must have accepted.
// Stored versions are compared to it under plain string ordering,
// matching the backend contract ("10.0" sorts below "2.0" here).
const CurrentTermsVersion = "1.0"

// TermsState is an immutable snapshot of the acceptance store.
// Accepted is meaningful only once Checking is false for the same
// CheckedUserID.
type TermsState struct {
	Accepted      bool    `json:"accepted"`
	Checking      bool    `json:"checking"`
	CheckedUserID string  `json:"checked_user_id,omitempty"`
	TermsVersion  *string `json:"terms_version"`
}

// AcceptResult is the structured outcome of an acceptance write.
type AcceptResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ProfileStore reads and writes the per-user acceptance row.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	RecordAcceptance(ctx context.Context, userID string, acceptedAt time.Time, version string) error
}

// TermsService tracks whether a user has accepted the current terms
// version. Construct one per process and inject it into handlers;
// there are no package globals. Each operation claims a sequence token
// before touching the backend, and a completion whose token is stale
// does not write the shared snapshot, so overlapping calls cannot
// clobber a newer result with an older one.
type TermsService struct {
	profiles ProfileStore

	mu    sync.Mutex
	seq   uint64
	state TermsState
}

func NewTermsService(profiles ProfileStore) *TermsService {
	return &TermsService{
		profiles: profiles,
		state:    initialTermsState(),
	}
}

func initialTermsState() TermsState {
	return TermsState{Checking: true}
}

// CheckAcceptance reads the user's profile row and reports whether the
// current terms version is accepted. Backend failures are logged and
// answered with false; they are never surfaced as an error.
func (s *TermsService) CheckAcceptance(ctx context.Context, userID string) bool {
	token := s.beginCheck(userID)

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		log.Printf("Terms check failed for user %s: %v", userID, err)
		s.commit(token, TermsState{Checking: false, CheckedUserID: userID})
		return false
	}

	accepted := profile.TermsAcceptedAt != nil &&
		profile.TermsVersion != nil &&
		*profile.TermsVersion >= CurrentTermsVersion
	s.commit(token, TermsState{
		Accepted:      accepted,
		Checking:      false,
		CheckedUserID: userID,
		TermsVersion:  profile.TermsVersion,
	})
	return accepted
}

// AcceptTerms stamps the user's profile row with the current instant
// and terms version. A failed write leaves the snapshot untouched and
// reports the backend's message in the result.
func (s *TermsService) AcceptTerms(ctx context.Context, userID string) AcceptResult {
	token := s.nextToken()

	if err := s.profiles.RecordAcceptance(ctx, userID, time.Now().UTC(), CurrentTermsVersion); err != nil {
		log.Printf("Failed to record terms acceptance for user %s: %v", userID, err)
		return AcceptResult{Success: false, Error: err.Error()}
	}

	version := CurrentTermsVersion
	s.commit(token, TermsState{
		Accepted:      true,
		Checking:      false,
		CheckedUserID: userID,
		TermsVersion:  &version,
	})
	return AcceptResult{Success: true}
}

// Reset restores the initial state unconditionally. Used on account
// switch or sign-out; any in-flight check or accept becomes stale.
func (s *TermsService) Reset() TermsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = initialTermsState()
	return s.state
}

// State returns the current snapshot.
func (s *TermsService) State() TermsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// beginCheck claims a token and marks a check as in flight, clearing
// the prior result. CheckedUserID tracks the in-flight user.
func (s *TermsService) beginCheck(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = TermsState{Checking: true, CheckedUserID: userID}
	return s.seq
}

func (s *TermsService) nextToken() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// commit installs a result unless a newer call claimed the store since.
func (s *TermsService) commit(token uint64, next TermsState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return
	}
	s.state = next
}
