package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Navigation and session errors. Callers distinguish "wrong password" from
// "temporarily unavailable" from "needs a second factor" by type, so every
// condition a module can hit has its own error.

// IncorrectPasswordError means the site rejected the configured credentials.
type IncorrectPasswordError struct {
	Message string
	// BadFields names the config fields known to be wrong, when the site
	// says so.
	BadFields []string
}

func (e *IncorrectPasswordError) Error() string {
	if e.Message != "" {
		return "incorrect credentials: " + e.Message
	}
	return "incorrect credentials"
}

// SecondFactorMedium says where an OTP was sent or generated.
type SecondFactorMedium string

const (
	MediumUnknown   SecondFactorMedium = "unknown"
	MediumSMS       SecondFactorMedium = "sms"
	MediumEmail     SecondFactorMedium = "email"
	MediumMobileApp SecondFactorMedium = "mobile_app"
	MediumDevice    SecondFactorMedium = "device"
)

// SecondFactorError means login cannot proceed until the user supplies a
// one-time code. The caller prompts and retries with the code in config.
type SecondFactorError struct {
	// FieldName is the config field the OTP must be supplied in.
	FieldName string
	Medium    SecondFactorMedium
	// MediumLabel is the user-recognizable target, e.g. a masked phone
	// number.
	MediumLabel string
	Message     string
}

func (e *SecondFactorError) Error() string {
	msg := "second factor required"
	if e.Medium != "" && e.Medium != MediumUnknown {
		msg += " (" + string(e.Medium)
		if e.MediumLabel != "" {
			msg += " " + e.MediumLabel
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// SessionExpiredError means the authenticated session lapsed mid-flow. The
// login browser re-authenticates transparently on this error.
type SessionExpiredError struct {
	Cause error
}

func (e *SessionExpiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session expired: %v", e.Cause)
	}
	return "session expired"
}

func (e *SessionExpiredError) Unwrap() error { return e.Cause }

// UnavailableError means the site reported maintenance or is otherwise not
// serving; trying again later is the only remedy.
type UnavailableError struct {
	Message string
}

func (e *UnavailableError) Error() string {
	if e.Message != "" {
		return "site unavailable: " + e.Message
	}
	return "site unavailable"
}

// ActionNeededError means the site demands a manual user action (accepting
// new terms, renewing a password) before scraping can continue.
type ActionNeededError struct {
	Message string
}

func (e *ActionNeededError) Error() string {
	if e.Message != "" {
		return "user action needed: " + e.Message
	}
	return "user action needed"
}

// ForbiddenError means the account lacks the right to the requested data.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	if e.Message != "" {
		return "forbidden: " + e.Message
	}
	return "forbidden"
}

// UserBannedError means the site locked the account out.
type UserBannedError struct {
	Message string
}

func (e *UserBannedError) Error() string {
	if e.Message != "" {
		return "user banned: " + e.Message
	}
	return "user banned"
}

// CaptchaError means a captcha blocks the flow and no solver is configured.
type CaptchaError struct {
	Kind string
}

func (e *CaptchaError) Error() string {
	if e.Kind != "" {
		return "captcha required: " + e.Kind
	}
	return "captcha required"
}

// HTTPError is a non-2xx response surfaced to the caller.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %s fetching %s", e.Status, e.URL)
}

// TransientError wraps a failure worth retrying: a network timeout, a
// server-side 5xx, a rate-limit response.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient: " + e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// retryableStatus lists the HTTP statuses treated as transient.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Retryable classifies an error for the central retry policy.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var transient *TransientError
	if errors.As(err, &transient) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return retryableStatus[httpErr.StatusCode]
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) {
		return timeout.Timeout()
	}
	return false
}
