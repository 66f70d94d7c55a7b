package browser

import (
	"context"
	"errors"
	"testing"
)

func newTestLogin(t *testing.T) *LoginBrowser {
	t.Helper()
	b := newTestBrowser(t, "https://bank.example")
	return NewLogin(b, "user", "pass")
}

func TestEnsureLogin(t *testing.T) {
	t.Run("logs in once", func(t *testing.T) {
		lb := newTestLogin(t)
		logins := 0
		lb.DoLogin = func(ctx context.Context) error {
			logins++
			return nil
		}

		if err := lb.EnsureLogin(context.Background()); err != nil {
			t.Fatalf("EnsureLogin() error = %v", err)
		}
		if lb.AuthState() != StateAuthenticated {
			t.Errorf("state = %v", lb.AuthState())
		}
		if err := lb.EnsureLogin(context.Background()); err != nil {
			t.Fatalf("second EnsureLogin() error = %v", err)
		}
		if logins != 1 {
			t.Errorf("DoLogin ran %d times, want 1", logins)
		}
	})

	t.Run("rejected credentials stay anonymous", func(t *testing.T) {
		lb := newTestLogin(t)
		lb.DoLogin = func(ctx context.Context) error {
			return &IncorrectPasswordError{Message: "bad password"}
		}

		err := lb.EnsureLogin(context.Background())
		if !errors.As(err, new(*IncorrectPasswordError)) {
			t.Fatalf("EnsureLogin() error = %v", err)
		}
		if lb.AuthState() != StateAnonymous {
			t.Errorf("state = %v, want anonymous", lb.AuthState())
		}
	})

	t.Run("challenge moves to second-factor state", func(t *testing.T) {
		lb := newTestLogin(t)
		lb.DoLogin = func(ctx context.Context) error {
			return &SecondFactorError{FieldName: "otp", Medium: MediumSMS}
		}

		err := lb.EnsureLogin(context.Background())
		var sfe *SecondFactorError
		if !errors.As(err, &sfe) {
			t.Fatalf("EnsureLogin() error = %v", err)
		}
		if lb.AuthState() != StateSecondFactor {
			t.Errorf("state = %v, want second-factor", lb.AuthState())
		}
	})

	t.Run("no login sequence", func(t *testing.T) {
		lb := newTestLogin(t)
		if err := lb.EnsureLogin(context.Background()); err == nil {
			t.Fatal("EnsureLogin() succeeded without DoLogin")
		}
	})
}

func TestNeedLogin(t *testing.T) {
	t.Run("relogs once on session expiry", func(t *testing.T) {
		lb := newTestLogin(t)
		logins := 0
		lb.DoLogin = func(ctx context.Context) error {
			logins++
			return nil
		}

		calls := 0
		err := lb.NeedLogin(context.Background(), func(ctx context.Context) error {
			calls++
			if calls == 1 {
				return &SessionExpiredError{}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("NeedLogin() error = %v", err)
		}
		if calls != 2 {
			t.Errorf("fn ran %d times, want 2", calls)
		}
		if logins != 2 {
			t.Errorf("DoLogin ran %d times, want 2", logins)
		}
	})

	t.Run("second expiry surfaces", func(t *testing.T) {
		lb := newTestLogin(t)
		lb.DoLogin = func(ctx context.Context) error { return nil }

		calls := 0
		err := lb.NeedLogin(context.Background(), func(ctx context.Context) error {
			calls++
			return &SessionExpiredError{}
		})
		if !errors.As(err, new(*SessionExpiredError)) {
			t.Fatalf("NeedLogin() error = %v", err)
		}
		if calls != 2 {
			t.Errorf("fn ran %d times, want 2", calls)
		}
	})

	t.Run("other errors pass through without relogin", func(t *testing.T) {
		lb := newTestLogin(t)
		logins := 0
		lb.DoLogin = func(ctx context.Context) error {
			logins++
			return nil
		}

		boom := errors.New("boom")
		err := lb.NeedLogin(context.Background(), func(ctx context.Context) error {
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("NeedLogin() error = %v", err)
		}
		if logins != 1 {
			t.Errorf("DoLogin ran %d times, want 1", logins)
		}
	})
}

func TestLogout(t *testing.T) {
	lb := newTestLogin(t)
	lb.DoLogin = func(ctx context.Context) error { return nil }
	if err := lb.EnsureLogin(context.Background()); err != nil {
		t.Fatal(err)
	}
	lb.SetState("token", "x")

	lb.Logout()

	if lb.AuthState() != StateAnonymous {
		t.Errorf("state = %v after logout", lb.AuthState())
	}
	if _, ok := lb.State("token"); ok {
		t.Error("adapter state survived logout")
	}
}

func TestRequireLogged(t *testing.T) {
	t.Run("nil page", func(t *testing.T) {
		if err := RequireLogged(nil); !errors.As(err, new(*SessionExpiredError)) {
			t.Errorf("RequireLogged(nil) = %v", err)
		}
	})

	t.Run("anonymous page", func(t *testing.T) {
		p := &Page{route: &URL{Logged: false}}
		if err := RequireLogged(p); !errors.As(err, new(*SessionExpiredError)) {
			t.Errorf("RequireLogged() = %v", err)
		}
	})

	t.Run("logged page", func(t *testing.T) {
		p := &Page{route: &URL{Logged: true}}
		if err := RequireLogged(p); err != nil {
			t.Errorf("RequireLogged() = %v", err)
		}
	})
}
