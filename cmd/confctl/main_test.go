package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudnative-denmark/conference-companion/internal/auth/domain"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/identity"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/session"
)

const gridJSON = `[{
  "date": "2024-10-01T00:00:00",
  "rooms": [{"id": 1, "name": "Main"}, {"id": 2, "name": "Side"}],
  "timeSlots": [
    {"slotStart": "09:00:00", "rooms": [{"id": 1, "name": "Main", "session":
      {"id": "key", "name": "Keynote", "startsAt": "2024-10-01T09:00:00", "endsAt": "2024-10-01T09:45:00",
       "isPlenumSession": true, "speakers": [{"id": "sp1"}], "roomId": 1, "room": "Main"}}]},
    {"slotStart": "10:00:00", "rooms": [{"id": 2, "name": "Side", "session":
      {"id": "s1", "name": "Platform teams", "startsAt": "2024-10-01T10:00:00", "endsAt": "2024-10-01T10:45:00",
       "speakers": [{"id": "sp1"}], "roomId": 2, "room": "Side"}}]}
  ]
}]`

const speakersJSON = `[{"id": "sp1", "fullName": "Kelsey Hightower", "profilePicture": "https://img/sp1.jpg"}]`

const sessionsJSON = `[{"sessions": [{"id": "s1", "title": "Platform teams at scale", "slideDeck": "https://slides/s1"}]}]`

func sessionize(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/evt/view/Grid":
			w.Write([]byte(gridJSON))
		case "/evt/view/Speakers":
			w.Write([]byte(speakersJSON))
		case "/evt/view/Sessions":
			w.Write([]byte(sessionsJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--base-url", srv.URL, "--event", "evt", "--tz", "UTC"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTimetable(t *testing.T) {
	out, err := run(t, sessionize(t), "timetable")
	require.NoError(t, err)

	assert.Contains(t, out, "Tuesday, October 1")
	assert.Contains(t, out, "All rooms")
	assert.Contains(t, out, "Keynote (Kelsey Hightower)")
	assert.Contains(t, out, "Platform teams at scale")
}

func TestSessions(t *testing.T) {
	out, err := run(t, sessionize(t), "sessions")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], "key"))
	assert.True(t, strings.HasPrefix(lines[2], "s1"))
	assert.Contains(t, lines[2], "October 1, 2024, 10:00")
}

func TestSession(t *testing.T) {
	srv := sessionize(t)

	out, err := run(t, srv, "session", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "Platform teams at scale")
	assert.Contains(t, out, "45 min")
	assert.Contains(t, out, "ended")
	assert.Contains(t, out, "https://slides/s1")

	_, err = run(t, srv, "session", "nope")
	assert.Error(t, err)
}

func TestSpeakerSessions(t *testing.T) {
	out, err := run(t, sessionize(t), "speaker-sessions", "sp1", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `["key","s1"]`, out)
}

func TestFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := run(t, srv, "sessions")
	assert.Error(t, err)
}

type fakeAuth struct {
	err error
}

func (f fakeAuth) result(email string) (*domain.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Identity{
		User:    domain.User{UID: "u1", Email: email, IDToken: "tok"},
		Profile: &domain.UserProfile{UID: "u1", DisplayName: "Ada", Role: domain.RoleSpeaker},
	}, nil
}

func (f fakeAuth) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.Identity, error) {
	return f.result(req.Email)
}

func (f fakeAuth) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Identity, error) {
	return f.result(req.Email)
}

func (f fakeAuth) SignInWithProvider(ctx context.Context, p identity.ProviderID, token string) (*domain.Identity, error) {
	return f.result("oauth@example.com")
}

func (f fakeAuth) Authenticate(ctx context.Context, idToken string) (*domain.Identity, error) {
	return f.result("resumed@example.com")
}

func (f fakeAuth) SignOut(ctx context.Context, uid string) error { return nil }

func TestRunLogin(t *testing.T) {
	var progress, out bytes.Buffer
	err := runLogin(context.Background(), &progress, &out, session.New(fakeAuth{}),
		&loginOptions{email: "ada@example.com", password: "secret", showToken: true})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "status:   authenticated")
	assert.Contains(t, out.String(), "email:    ada@example.com")
	assert.Contains(t, out.String(), "role:     Speaker")
	assert.Contains(t, out.String(), "id token: tok")
	assert.Contains(t, progress.String(), "session: ")
}

func TestRunLogin_Failure(t *testing.T) {
	var progress, out bytes.Buffer
	err := runLogin(context.Background(), &progress, &out, session.New(fakeAuth{err: errors.New("INVALID_PASSWORD")}),
		&loginOptions{email: "ada@example.com", password: "bad"})
	assert.EqualError(t, err, "INVALID_PASSWORD")
	assert.Empty(t, out.String())
}

func TestRunLogin_NoMethod(t *testing.T) {
	var progress, out bytes.Buffer
	err := runLogin(context.Background(), &progress, &out, session.New(fakeAuth{}), &loginOptions{})
	assert.Error(t, err)
}
