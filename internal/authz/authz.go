package authz

import (
	"strings"

	"github.com/smallbiznis/skycover/internal/config"
	"go.uber.org/fx"
)

// Authorizer holds the trusted authority identity injected at construction.
// It replaces any notion of a global owner: callers pass their upstream
// authenticated identity and the service compares.
type Authorizer struct {
	authorityID string
}

func New(cfg config.Config) *Authorizer {
	return &Authorizer{authorityID: strings.TrimSpace(cfg.AuthorityID)}
}

// IsAuthority reports whether caller is the single trusted oracle/admin
// identity. An empty configured authority matches nobody.
func (a *Authorizer) IsAuthority(caller string) bool {
	caller = strings.TrimSpace(caller)
	return caller != "" && a.authorityID != "" && caller == a.authorityID
}

// CanOperate reports whether caller may claim or cancel a policy owned by
// holder: the holder themselves or the authority.
func (a *Authorizer) CanOperate(caller, holder string) bool {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return false
	}
	return caller == holder || a.IsAuthority(caller)
}

var Module = fx.Module("authz",
	fx.Provide(New),
)
