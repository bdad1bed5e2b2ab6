package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tours-server/models"
)

type fakeProfileStore struct {
	getFunc func(ctx context.Context, userID string) (models.Profile, error)

	recordErr       error
	recordedID      string
	recordedAt      time.Time
	recordedVersion string
}

func (f *fakeProfileStore) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	if f.getFunc == nil {
		return models.Profile{}, errors.New("no profile configured")
	}
	return f.getFunc(ctx, userID)
}

func (f *fakeProfileStore) RecordAcceptance(ctx context.Context, userID string, acceptedAt time.Time, version string) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recordedID = userID
	f.recordedAt = acceptedAt
	f.recordedVersion = version
	return nil
}

func strPtr(s string) *string { return &s }

func storeWithProfile(acceptedAt *time.Time, version *string) *fakeProfileStore {
	return &fakeProfileStore{
		getFunc: func(ctx context.Context, userID string) (models.Profile, error) {
			return models.Profile{UserID: userID, TermsAcceptedAt: acceptedAt, TermsVersion: version}, nil
		},
	}
}

func TestCheckAcceptanceVersionComparison(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		acceptedAt *time.Time
		version    *string
		want       bool
	}{
		{name: "current version accepted", acceptedAt: &now, version: strPtr("1.0"), want: true},
		{name: "newer version accepted", acceptedAt: &now, version: strPtr("1.1"), want: true},
		{name: "much newer version accepted", acceptedAt: &now, version: strPtr("2.0"), want: true},
		{name: "older version not accepted", acceptedAt: &now, version: strPtr("0.9"), want: false},
		{name: "null version not accepted", acceptedAt: &now, version: nil, want: false},
		{name: "null timestamp not accepted", acceptedAt: nil, version: strPtr("1.0"), want: false},
		{name: "empty row not accepted", acceptedAt: nil, version: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewTermsService(storeWithProfile(tt.acceptedAt, tt.version))

			got := service.CheckAcceptance(context.Background(), "user-1")

			if got != tt.want {
				t.Errorf("CheckAcceptance = %v, want %v", got, tt.want)
			}
			state := service.State()
			if state.Accepted != tt.want {
				t.Errorf("snapshot accepted = %v, want %v", state.Accepted, tt.want)
			}
			if state.Checking {
				t.Error("snapshot still checking after completion")
			}
			if state.CheckedUserID != "user-1" {
				t.Errorf("snapshot user = %q, want user-1", state.CheckedUserID)
			}
		})
	}
}

func TestCheckAcceptanceBackendError(t *testing.T) {
	store := &fakeProfileStore{
		getFunc: func(ctx context.Context, userID string) (models.Profile, error) {
			return models.Profile{}, errors.New("row fetch failed")
		},
	}
	service := NewTermsService(store)

	if service.CheckAcceptance(context.Background(), "user-1") {
		t.Error("CheckAcceptance = true on backend error, want false")
	}

	state := service.State()
	if state.Accepted || state.Checking {
		t.Errorf("snapshot = %+v, want not accepted and not checking", state)
	}
	if state.CheckedUserID != "user-1" {
		t.Errorf("snapshot user = %q, want the attempted id", state.CheckedUserID)
	}
	if state.TermsVersion != nil {
		t.Errorf("snapshot version = %q, want nil", *state.TermsVersion)
	}
}

func TestAcceptTermsSuccess(t *testing.T) {
	store := &fakeProfileStore{}
	service := NewTermsService(store)

	before := time.Now().UTC()
	result := service.AcceptTerms(context.Background(), "user-1")

	if !result.Success || result.Error != "" {
		t.Fatalf("AcceptTerms = %+v, want success", result)
	}
	if store.recordedID != "user-1" || store.recordedVersion != CurrentTermsVersion {
		t.Errorf("recorded (%q, %q), want (user-1, %q)", store.recordedID, store.recordedVersion, CurrentTermsVersion)
	}
	if store.recordedAt.Before(before) {
		t.Errorf("recorded timestamp %v predates the call", store.recordedAt)
	}

	state := service.State()
	if !state.Accepted || state.Checking {
		t.Errorf("snapshot = %+v, want accepted and not checking", state)
	}
	if state.TermsVersion == nil || *state.TermsVersion != CurrentTermsVersion {
		t.Errorf("snapshot version = %v, want %q", state.TermsVersion, CurrentTermsVersion)
	}
	if state.CheckedUserID != "user-1" {
		t.Errorf("snapshot user = %q, want user-1", state.CheckedUserID)
	}
}

func TestAcceptTermsFailureLeavesStateUntouched(t *testing.T) {
	now := time.Now()
	store := storeWithProfile(&now, strPtr("1.0"))
	service := NewTermsService(store)
	service.CheckAcceptance(context.Background(), "user-1")
	prior := service.State()

	store.recordErr = errors.New("row locked")
	result := service.AcceptTerms(context.Background(), "user-1")

	if result.Success {
		t.Fatal("AcceptTerms succeeded, want failure")
	}
	if result.Error != "row locked" {
		t.Errorf("result error = %q, want the backend message", result.Error)
	}
	if got := service.State(); got != prior {
		t.Errorf("snapshot changed on failed write: %+v, was %+v", got, prior)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	store := &fakeProfileStore{}
	service := NewTermsService(store)
	service.AcceptTerms(context.Background(), "user-1")

	state := service.Reset()

	if !state.Checking {
		t.Error("reset state not checking, want checking=true")
	}
	if state.Accepted || state.CheckedUserID != "" || state.TermsVersion != nil {
		t.Errorf("reset state = %+v, want cleared", state)
	}
	if got := service.State(); got != state {
		t.Errorf("State() = %+v after reset, want %+v", got, state)
	}
}

func TestStaleCheckDoesNotClobberNewerResult(t *testing.T) {
	now := time.Now()
	version := strPtr("1.0")
	started := make(chan struct{})
	release := make(chan struct{})
	store := &fakeProfileStore{
		getFunc: func(ctx context.Context, userID string) (models.Profile, error) {
			if userID == "slow" {
				close(started)
				<-release
				return models.Profile{}, errors.New("timeout")
			}
			return models.Profile{UserID: userID, TermsAcceptedAt: &now, TermsVersion: version}, nil
		},
	}
	service := NewTermsService(store)

	var wg sync.WaitGroup
	var slowResult bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowResult = service.CheckAcceptance(context.Background(), "slow")
	}()
	<-started

	if !service.CheckAcceptance(context.Background(), "fast") {
		t.Fatal("newer check not accepted, want accepted")
	}

	close(release)
	wg.Wait()

	if slowResult {
		t.Error("stale check reported accepted")
	}
	state := service.State()
	if state.CheckedUserID != "fast" || !state.Accepted {
		t.Errorf("snapshot = %+v, want the newer check's result", state)
	}
}
