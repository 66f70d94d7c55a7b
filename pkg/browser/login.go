package browser

import (
	"context"
	"errors"

	"github.com/pageforge/pageforge/internal/logger"
)

// AuthState tracks where a login browser sits in its authentication
// lifecycle.
type AuthState int

const (
	// StateAnonymous means no valid session exists yet.
	StateAnonymous AuthState = iota
	// StateSecondFactor means login stopped at an interactive challenge
	// and waits for the user's answer.
	StateSecondFactor
	// StateAuthenticated means the session is logged in.
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateSecondFactor:
		return "second-factor"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// LoginBrowser layers credential handling over a Browser. The adapter
// supplies DoLogin; capability methods run inside NeedLogin, which logs in
// on demand and re-logs once when the session expires mid-operation.
type LoginBrowser struct {
	*Browser

	Username string
	Password string

	// DoLogin performs the site's login sequence. It returns
	// *IncorrectPasswordError on rejected credentials and
	// *SecondFactorError when the site demands a challenge answer.
	DoLogin func(ctx context.Context) error

	state AuthState
}

// NewLogin wraps b with credentials. DoLogin is set by the adapter after
// construction, once its URL routes are bound.
func NewLogin(b *Browser, username, password string) *LoginBrowser {
	return &LoginBrowser{Browser: b, Username: username, Password: password}
}

// AuthState returns the current lifecycle state.
func (lb *LoginBrowser) AuthState() AuthState { return lb.state }

// SetAuthState forces the lifecycle state, for restoring an imported
// session that is known to be authenticated.
func (lb *LoginBrowser) SetAuthState(s AuthState) { lb.state = s }

// EnsureLogin logs in unless the session already is. A credential rejection
// or challenge surfaces unchanged, with the state updated to match.
func (lb *LoginBrowser) EnsureLogin(ctx context.Context) error {
	if lb.state == StateAuthenticated {
		return nil
	}
	if lb.DoLogin == nil {
		return errors.New("browser has no login sequence")
	}

	err := lb.DoLogin(ctx)
	switch {
	case err == nil:
		lb.state = StateAuthenticated
		logger.Debug("login succeeded", "username", lb.Username)
		return nil
	case errors.As(err, new(*SecondFactorError)):
		lb.state = StateSecondFactor
		return err
	default:
		lb.state = StateAnonymous
		return err
	}
}

// NeedLogin runs fn with a valid session. When fn fails with
// SessionExpiredError the session is re-established and fn retried exactly
// once; a second expiry surfaces.
func (lb *LoginBrowser) NeedLogin(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := lb.EnsureLogin(ctx); err != nil {
		return err
	}

	err := fn(ctx)
	if err == nil || !errors.As(err, new(*SessionExpiredError)) {
		return err
	}

	logger.Info("session expired, logging in again")
	lb.state = StateAnonymous
	if lerr := lb.EnsureLogin(ctx); lerr != nil {
		return lerr
	}
	return fn(ctx)
}

// Logout drops the authenticated state and the session cookies.
func (lb *LoginBrowser) Logout() {
	lb.state = StateAnonymous
	lb.ImportSession(&Session{})
}

// RequireLogged turns landing on an unauthenticated page into a session
// expiry, so NeedLogin can recover. Call it after navigating to a page that
// must be behind login.
func RequireLogged(p *Page) error {
	if p == nil || !p.Logged() {
		return &SessionExpiredError{}
	}
	return nil
}
