package admission

import (
	"context"
	"time"

	"github.com/spec-kit/item-service/internal/domain"
)

// DenyKind classifies why a request was refused admission.
type DenyKind string

const (
	DenyBot       DenyKind = "bot"
	DenyShield    DenyKind = "shield"
	DenyRateLimit DenyKind = "rate_limit"
)

// Policy is the quota input supplied to the decision provider: how many
// requests a caller may make within the sliding window.
type Policy struct {
	Window   time.Duration
	Capacity int
}

// Request carries the caller attributes a decision is based on.
type Request struct {
	IP          string
	UserAgent   string
	Method      string
	Path        string
	PrincipalID string
	Role        domain.Role
}

// Key identifies the caller for window accounting: principal id when
// authenticated, remote IP otherwise.
func (r Request) Key() string {
	if r.PrincipalID != "" {
		return r.PrincipalID
	}
	return r.IP
}

// Decision is the provider's verdict for one request.
type Decision struct {
	Denied bool
	Kind   DenyKind
}

// Allow is the zero decision.
var Allow = Decision{}

// Deny builds a denial of the given kind.
func Deny(kind DenyKind) Decision {
	return Decision{Denied: true, Kind: kind}
}

// DecisionProvider decides whether a request is admitted. Implementations
// must be safe for concurrent use.
type DecisionProvider interface {
	Decide(ctx context.Context, req Request, policy Policy) (Decision, error)
}
