package auth

import (
	"errors"
	"strings"
)

// ErrPolicyViolation indicates an identifier outside the organizational
// email domain.
var ErrPolicyViolation = errors.New("email is not in the allowed domain")

// ErrInvalidCredentials indicates a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Policy is the organizational email-domain rule: only addresses ending
// in "@" + Domain may register or log in.
type Policy struct {
	Domain string
}

func (p Policy) Check(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.HasSuffix(email, "@"+strings.ToLower(p.Domain)) {
		return ErrPolicyViolation
	}
	return nil
}
