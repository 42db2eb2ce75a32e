package models

import (
	"fmt"
	"time"
)

// PrincipalRole names one of the identities allowed to call into the
// service. The token contract registers team schedules and is the sole
// caller of the locked-balance query; each presale contract registers
// schedules for its own pool; the owner administers the registry.
type PrincipalRole string

const (
	RoleOwner    PrincipalRole = "owner"
	RoleToken    PrincipalRole = "token"
	RolePresale1 PrincipalRole = "presale1"
	RolePresale2 PrincipalRole = "presale2"
	RolePresale3 PrincipalRole = "presale3"
)

// ParsePrincipalRole converts a string into a PrincipalRole.
func ParsePrincipalRole(s string) (PrincipalRole, error) {
	switch PrincipalRole(s) {
	case RoleOwner, RoleToken, RolePresale1, RolePresale2, RolePresale3:
		return PrincipalRole(s), nil
	}
	return "", fmt.Errorf("unknown principal role %q", s)
}

// Principal binds a role to the platform identity currently holding it.
type Principal struct {
	Role      PrincipalRole `db:"role" json:"role"`
	Address   string        `db:"address" json:"address"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}
