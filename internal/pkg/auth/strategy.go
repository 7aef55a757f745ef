package auth

import (
	"time"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

// Strategy issues and verifies access tokens carrying the caller identity.
type Strategy interface {
	IssueToken(principal model.Principal) (string, error)
	ParseToken(token string) (model.Principal, error)
	Name() string
}

// Options tune token issuance.
type Options struct {
	TTL time.Duration
	Now func() time.Time
}
