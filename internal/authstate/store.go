package authstate

import (
	"context"
	"log"
	"sync"

	"socialfeed/internal/identity"
	"socialfeed/internal/model"
	"socialfeed/internal/repository"
)

// State is the process-wide authentication state. Loading is true from
// process start until the first identity notification arrives, and while an
// explicit action is in flight. Error holds the last failure message.
type State struct {
	User    *model.SessionUser `json:"user"`
	Loading bool               `json:"loading"`
	Error   string             `json:"error,omitempty"`
}

// Persister saves and restores the user field, the only part of the state
// that survives restarts.
type Persister interface {
	SaveUser(ctx context.Context, user *model.SessionUser) error
	LoadUser(ctx context.Context) (*model.SessionUser, error)
}

// Store owns the application auth state. A single actor goroutine (Run)
// applies every mutation: explicit action phases and ambient provider
// notifications flow through one mailbox and take effect in strict arrival
// order, so there is never a question of which writer wins.
type Store struct {
	provider identity.Provider
	profiles repository.ProfileRepository
	persist  Persister

	mailbox chan envelope

	mu    sync.RWMutex
	state State
}

type envelope struct {
	msg  message
	done chan struct{}
}

type message interface {
	apply(*State)
}

type actionPending struct{}

func (actionPending) apply(s *State) {
	s.Loading = true
	s.Error = ""
}

type actionFulfilled struct {
	user *model.SessionUser
}

func (m actionFulfilled) apply(s *State) {
	s.User = m.user
	s.Loading = false
	s.Error = ""
}

type actionRejected struct {
	message string
}

func (m actionRejected) apply(s *State) {
	s.Loading = false
	s.Error = m.message
}

type providerChange struct {
	user *model.SessionUser
}

func (m providerChange) apply(s *State) {
	s.User = m.user
	s.Loading = false
}

// NewStore builds the store, rehydrating the persisted user. Loading and
// error always come back as defaults so stale transient state is never
// resurrected.
func NewStore(provider identity.Provider, profiles repository.ProfileRepository, persist Persister) *Store {
	user, err := persist.LoadUser(context.Background())
	if err != nil {
		log.Printf("[AuthState] Failed to restore persisted user: %v", err)
		user = nil
	}

	return &Store{
		provider: provider,
		profiles: profiles,
		persist:  persist,
		mailbox:  make(chan envelope),
		state: State{
			User:    user,
			Loading: true,
		},
	}
}

// Run is the actor loop. It must be running for actions to make progress;
// it returns when ctx is done.
func (s *Store) Run(ctx context.Context) {
	changes := s.provider.Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-s.mailbox:
			s.applyEnvelope(env)
		case user, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			s.applyEnvelope(envelope{msg: providerChange{user: user}})
		}
	}
}

// State returns a snapshot of the current auth state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Login signs in with email and password. Pending state is visible while
// the provider call is in flight; the result settles through the mailbox.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if err := s.dispatch(ctx, actionPending{}); err != nil {
		return err
	}

	user, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		authErr := &model.AuthError{Op: "login", Err: err}
		s.dispatch(ctx, actionRejected{message: authErr.Message()})
		return authErr
	}

	return s.dispatch(ctx, actionFulfilled{user: user})
}

// Signup creates an account, sets the display name, and writes the profile
// document, in that order. The sequence is not transactional: a failure
// after account creation leaves an orphaned account, which is surfaced but
// not repaired.
func (s *Store) Signup(ctx context.Context, email, password, name string) error {
	if err := s.dispatch(ctx, actionPending{}); err != nil {
		return err
	}

	user, err := s.provider.CreateAccount(ctx, email, password)
	if err != nil {
		authErr := &model.AuthError{Op: "signup", Err: err}
		s.dispatch(ctx, actionRejected{message: authErr.Message()})
		return authErr
	}

	if err := s.provider.UpdateProfile(ctx, name); err != nil {
		authErr := &model.AuthError{Op: "signup", Err: err}
		s.dispatch(ctx, actionRejected{message: authErr.Message()})
		return authErr
	}

	profile := model.Profile{
		UID:         user.UID,
		Email:       email,
		DisplayName: name,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		authErr := &model.AuthError{Op: "signup", Err: err}
		s.dispatch(ctx, actionRejected{message: authErr.Message()})
		return authErr
	}

	fulfilled := *user
	fulfilled.DisplayName = name
	return s.dispatch(ctx, actionFulfilled{user: &fulfilled})
}

// Logout signs out. On rejection the user field is left as it was.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.dispatch(ctx, actionPending{}); err != nil {
		return err
	}

	if err := s.provider.SignOut(ctx); err != nil {
		authErr := &model.AuthError{Op: "logout", Err: err}
		s.dispatch(ctx, actionRejected{message: authErr.Message()})
		return authErr
	}

	return s.dispatch(ctx, actionFulfilled{user: nil})
}

// dispatch hands a message to the actor and waits until it has been
// applied, so callers observe their own writes. The caller's context is the
// escape hatch: if the actor is gone, the caller unblocks instead of
// stalling shutdown.
func (s *Store) dispatch(ctx context.Context, msg message) error {
	done := make(chan struct{})
	select {
	case s.mailbox <- envelope{msg: msg, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) applyEnvelope(env envelope) {
	s.mu.Lock()
	before := s.state.User
	env.msg.apply(&s.state)
	after := s.state.User
	s.mu.Unlock()

	if before != after {
		if err := s.persist.SaveUser(context.Background(), after); err != nil {
			log.Printf("[AuthState] Failed to persist user: %v", err)
		}
	}

	if env.done != nil {
		close(env.done)
	}
}
