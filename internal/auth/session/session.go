// Package session tracks the signed-in user of one client and publishes every
// change to its subscribers.
package session

import (
	"context"
	"sync"

	"github.com/cloudnative-denmark/conference-companion/internal/auth/domain"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/identity"
)

// Status is the position in the sign-in state machine.
type Status int

const (
	Unknown Status = iota
	Authenticating
	Authenticated
	Anonymous
)

func (s Status) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	}
	return "invalid"
}

// State is a snapshot of the session.
type State struct {
	Status  Status
	User    *domain.User
	Profile *domain.UserProfile
	IsAdmin bool
	// Loading is true from construction until the first resolved state and
	// while a sign-in action is in flight.
	Loading bool
	// Err is the message of the last failed action.
	Err string
}

// Authenticator performs the identity operations behind a session.
type Authenticator interface {
	SignIn(ctx context.Context, req domain.SignInRequest) (*domain.Identity, error)
	SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Identity, error)
	SignInWithProvider(ctx context.Context, provider identity.ProviderID, token string) (*domain.Identity, error)
	Authenticate(ctx context.Context, idToken string) (*domain.Identity, error)
	SignOut(ctx context.Context, uid string) error
}

type Session struct {
	auth Authenticator

	mu     sync.Mutex
	state  State
	subs   map[int]chan State
	nextID int
}

func New(auth Authenticator) *Session {
	return &Session{
		auth:  auth,
		state: State{Status: Unknown, Loading: true},
		subs:  make(map[int]chan State),
	}
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a channel that receives the current state and then every
// change. A slow subscriber only sees the latest state. Call cancel to stop
// receiving; the channel is closed.
func (s *Session) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan State, 1)
	ch <- s.state
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// update applies fn to the state and publishes the result. Callers must not hold mu.
func (s *Session) update(fn func(*State)) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.state
	}
	return s.state
}

func (s *Session) begin() {
	s.update(func(st *State) {
		st.Err = ""
		st.Loading = true
		if st.Status != Authenticated {
			st.Status = Authenticating
		}
	})
}

func (s *Session) settle(id *domain.Identity, err error, fallback string) error {
	s.update(func(st *State) {
		st.Loading = false
		if err != nil {
			st.Err = message(err, fallback)
			if st.Status == Authenticating {
				st.Status = Anonymous
			}
			return
		}
		user := id.User
		st.Status = Authenticated
		st.User = &user
		st.Profile = id.Profile
		st.IsAdmin = id.IsAdmin
	})
	return err
}

func message(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// Resume restores a session from a stored id token. An empty token resolves
// the session as anonymous.
func (s *Session) Resume(ctx context.Context, idToken string) error {
	if idToken == "" {
		s.update(func(st *State) {
			*st = State{Status: Anonymous}
		})
		return nil
	}
	s.begin()
	id, err := s.auth.Authenticate(ctx, idToken)
	if err != nil {
		s.update(func(st *State) {
			*st = State{Status: Anonymous, Err: message(err, "Session expired")}
		})
		return err
	}
	return s.settle(id, nil, "")
}

func (s *Session) SignIn(ctx context.Context, email, password string) error {
	s.begin()
	id, err := s.auth.SignIn(ctx, domain.SignInRequest{Email: email, Password: password})
	return s.settle(id, err, "Sign in failed")
}

func (s *Session) SignUp(ctx context.Context, email, password, displayName string) error {
	s.begin()
	id, err := s.auth.SignUp(ctx, domain.SignUpRequest{Email: email, Password: password, DisplayName: displayName})
	return s.settle(id, err, "Sign up failed")
}

// SignInGoogle signs in with a Google OIDC id token.
func (s *Session) SignInGoogle(ctx context.Context, idToken string) error {
	s.begin()
	id, err := s.auth.SignInWithProvider(ctx, identity.ProviderGoogle, idToken)
	return s.settle(id, err, "Google sign in failed")
}

// SignInGitHub signs in with a GitHub OAuth access token.
func (s *Session) SignInGitHub(ctx context.Context, accessToken string) error {
	s.begin()
	id, err := s.auth.SignInWithProvider(ctx, identity.ProviderGitHub, accessToken)
	return s.settle(id, err, "GitHub sign in failed")
}

// SignOut ends the session. The local state is cleared only when the
// provider accepts the sign-out.
func (s *Session) SignOut(ctx context.Context) error {
	st := s.update(func(st *State) { st.Err = "" })
	if st.User == nil {
		s.update(func(st *State) { *st = State{Status: Anonymous} })
		return nil
	}

	if err := s.auth.SignOut(ctx, st.User.UID); err != nil {
		s.update(func(st *State) { st.Err = message(err, "Sign out failed") })
		return err
	}
	s.update(func(st *State) { *st = State{Status: Anonymous} })
	return nil
}

func (s *Session) ClearError() {
	s.update(func(st *State) { st.Err = "" })
}
