// Package authz holds the access-control policy for every mutating
// operation: a single table mapping operation to the token role allowed
// to perform it, instead of ad hoc key comparisons in the engines.
package authz

import "pump-token-core/internal/domain"

// Role names a key field on the token record.
type Role string

const (
	// RoleAuthority is the issuer key; it gates pause/unpause and direct
	// supply changes.
	RoleAuthority Role = "authority"
	// RoleAdmin gates configuration: metadata, role rotation, sale,
	// staking and liquidity management.
	RoleAdmin Role = "admin"
)

// Operation identifies a mutating request.
type Operation string

const (
	OpUpdateMetadata      Operation = "update_metadata"
	OpUpdateAdmin         Operation = "update_admin"
	OpUpdateTreasury      Operation = "update_treasury"
	OpPause               Operation = "pause"
	OpUnpause             Operation = "unpause"
	OpMint                Operation = "mint"
	OpBurn                Operation = "burn"
	OpInitializeSale      Operation = "initialize_sale"
	OpCreateStakingPool   Operation = "create_staking_pool"
	OpInitializeLiquidity Operation = "initialize_liquidity"
	OpCreateLiquidity     Operation = "create_liquidity"
	OpDestroyLiquidity    Operation = "destroy_liquidity"
)

// policy maps each gated operation to the role that may perform it.
// Pause/unpause and mint/burn follow the authority key; everything else
// follows the admin key.
var policy = map[Operation]Role{
	OpUpdateMetadata:      RoleAdmin,
	OpUpdateAdmin:         RoleAdmin,
	OpUpdateTreasury:      RoleAdmin,
	OpPause:               RoleAuthority,
	OpUnpause:             RoleAuthority,
	OpMint:                RoleAuthority,
	OpBurn:                RoleAuthority,
	OpInitializeSale:      RoleAdmin,
	OpCreateStakingPool:   RoleAdmin,
	OpInitializeLiquidity: RoleAdmin,
	OpCreateLiquidity:     RoleAdmin,
	OpDestroyLiquidity:    RoleAdmin,
}

// Allowed reports whether caller holds the role required for op on token.
// Unknown operations are denied.
func Allowed(op Operation, token *domain.Token, caller string) bool {
	role, ok := policy[op]
	if !ok {
		return false
	}

	switch role {
	case RoleAuthority:
		return caller == token.Authority
	case RoleAdmin:
		return caller == token.Admin
	default:
		return false
	}
}

// Require returns ErrUnauthorized unless caller may perform op on token.
func Require(op Operation, token *domain.Token, caller string) error {
	if !Allowed(op, token, caller) {
		return domain.ErrUnauthorized
	}
	return nil
}
