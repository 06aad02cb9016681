// Package auth holds the session of the current user. It is a local mock:
// credentials are checked for shape only and never sent anywhere.
package auth

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"taskmate/internal/logging"
	"taskmate/internal/validate"
)

// DemoName is the display name given to sessions created by Login.
const DemoName = "Demo user"

// Session identifies the logged-in user.
type Session struct {
	Name  string
	Email string
}

// Clearer empties session-scoped state on logout.
type Clearer interface {
	Clear()
}

// RegisterInput is the sign-up form.
type RegisterInput = validate.RegisterForm

// Auth is the session state. The zero value is not usable; use New.
type Auth struct {
	log     *slog.Logger
	clearer Clearer

	mu      sync.RWMutex
	session *Session
}

// New returns an anonymous Auth. clearer may be nil.
func New(clearer Clearer, log *slog.Logger) *Auth {
	return &Auth{
		log:     logging.OrDiscard(log).With("component", "auth"),
		clearer: clearer,
	}
}

// Login validates the credentials and starts a session.
func (a *Auth) Login(email, password string) (Session, error) {
	if err := validate.Login(email, password); err != nil {
		return Session{}, err
	}
	s := Session{Name: DemoName, Email: strings.TrimSpace(email)}
	a.set(&s)
	a.log.Debug("logged in", "email", s.Email)
	return s, nil
}

// Register validates the form and starts a session for the new user.
func (a *Auth) Register(in RegisterInput) (Session, error) {
	if err := validate.Register(in); err != nil {
		return Session{}, err
	}
	s := Session{Name: strings.TrimSpace(in.Name), Email: strings.TrimSpace(in.Email)}
	a.set(&s)
	a.log.Debug("registered", "email", s.Email)
	return s, nil
}

// Logout clears task state, then drops the session. A failure while
// clearing is logged and does not stop the logout.
func (a *Auth) Logout() {
	a.clear()
	a.set(nil)
	a.log.Debug("logged out")
}

func (a *Auth) clear() {
	if a.clearer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			a.log.Warn("clear tasks on logout failed", "err", fmt.Sprint(r))
		}
	}()
	a.clearer.Clear()
}

// Current returns the active session, if any.
func (a *Auth) Current() (Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return Session{}, false
	}
	return *a.session, true
}

// Authenticated reports whether a session is active.
func (a *Auth) Authenticated() bool {
	_, ok := a.Current()
	return ok
}

func (a *Auth) set(s *Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
}
