package apperr

import (
	"errors"
	"strings"
)

// rule maps a known collaborator message fragment to a classified,
// user-facing replacement. Matching is best-effort localization only;
// anything unmatched passes through verbatim as Unknown.
type rule struct {
	fragment string
	kind     Kind
	message  string
}

var authRules = []rule{
	{"invalid login credentials", KindUnauthenticated, "email or password is incorrect"},
	{"user already registered", KindConflict, "this email is already registered, sign in instead"},
	{"email not confirmed", KindUnauthenticated, "email confirmation required, check your inbox"},
}

var storeRules = []rule{
	{"duplicate", KindConflict, "already registered"},
	{"unique", KindConflict, "already registered"},
}

// Normalize classifies an identity-service failure. Already classified
// errors are returned untouched.
func Normalize(err error) error {
	return normalize(err, authRules)
}

// NormalizeStore classifies a row-store failure.
func NormalizeStore(err error) error {
	return normalize(err, storeRules)
}

func normalize(err error, rules []rule) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	msg := strings.ToLower(err.Error())
	for _, r := range rules {
		if strings.Contains(msg, r.fragment) {
			return Wrap(r.kind, r.message, err)
		}
	}
	return Wrap(KindUnknown, err.Error(), err)
}
