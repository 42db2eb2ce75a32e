package models

import "fmt"

// Pool identifies one of the four independent allocation pools.
type Pool string

const (
	PoolTeam     Pool = "team"
	PoolPresale1 Pool = "presale1"
	PoolPresale2 Pool = "presale2"
	PoolPresale3 Pool = "presale3"
)

// AllPools returns the pools in aggregation order. CheckLocked walks
// pools in exactly this order.
func AllPools() []Pool {
	return []Pool{PoolTeam, PoolPresale1, PoolPresale2, PoolPresale3}
}

// ParsePool converts a string into a Pool, rejecting unknown names.
func ParsePool(s string) (Pool, error) {
	switch Pool(s) {
	case PoolTeam, PoolPresale1, PoolPresale2, PoolPresale3:
		return Pool(s), nil
	}
	return "", fmt.Errorf("unknown pool %q", s)
}

// SetupRole returns the principal role authorized to register schedules
// in this pool. The team pool is funded by the token contract; each
// presale pool by its own presale contract.
func (p Pool) SetupRole() PrincipalRole {
	switch p {
	case PoolTeam:
		return RoleToken
	case PoolPresale1:
		return RolePresale1
	case PoolPresale2:
		return RolePresale2
	case PoolPresale3:
		return RolePresale3
	}
	return ""
}
