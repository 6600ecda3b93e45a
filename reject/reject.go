// Package reject defines the verifier-facing rejection taxonomy of spec §7:
// a single reject carries exactly one reason tag, wrapped so a diagnostic
// chain survives for logs without leaking into the stable tag callers match
// against.
package reject

import "github.com/cockroachdb/errors"

// Kind is one of the seven verifier-facing error categories.
type Kind string

const (
	KindStructural    Kind = "structural"
	KindBinding       Kind = "binding"
	KindSizing        Kind = "sizing"
	KindProtocol      Kind = "protocol"
	KindCryptographic Kind = "cryptographic"
	KindSemantic      Kind = "semantic"
	KindInternal      Kind = "internal"
)

// rejectionError pairs a stable reason tag with a taxonomy kind.
type rejectionError struct {
	kind   Kind
	reason string
}

func (e *rejectionError) Error() string { return e.reason }

// New builds a rejection with the given kind and reason tag (e.g. "code sha
// mismatch", "sumcheck failed" — the exact strings spec §8's scenarios test
// against).
func New(kind Kind, reason string) error {
	return &rejectionError{kind: kind, reason: reason}
}

// Wrap attaches a taxonomy kind and reason to an underlying error, keeping
// the diagnostic chain via cockroachdb/errors while still exposing a stable
// reason tag through Reason.
func Wrap(kind Kind, reason string, cause error) error {
	if cause == nil {
		return New(kind, reason)
	}
	return errors.Wrapf(&rejectionError{kind: kind, reason: reason}, "%v", cause)
}

// Reason extracts the reject reason tag from err, if any.
func Reason(err error) (string, bool) {
	var re *rejectionError
	if errors.As(err, &re) {
		return re.reason, true
	}
	return "", false
}

// KindOf extracts the taxonomy kind from err, if any.
func KindOf(err error) (Kind, bool) {
	var re *rejectionError
	if errors.As(err, &re) {
		return re.kind, true
	}
	return "", false
}
