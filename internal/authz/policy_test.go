package authz

import (
	"errors"
	"testing"

	"pump-token-core/internal/domain"
)

func testToken() *domain.Token {
	return &domain.Token{
		Authority: "authority-key",
		Admin:     "admin-key",
		Treasury:  "treasury-key",
	}
}

func TestRequire_AdminOperations(t *testing.T) {
	token := testToken()

	adminOps := []Operation{
		OpUpdateMetadata, OpUpdateAdmin, OpUpdateTreasury,
		OpInitializeSale, OpCreateStakingPool,
		OpInitializeLiquidity, OpCreateLiquidity, OpDestroyLiquidity,
	}

	for _, op := range adminOps {
		if err := Require(op, token, "admin-key"); err != nil {
			t.Errorf("%s: admin rejected: %v", op, err)
		}
		if err := Require(op, token, "authority-key"); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("%s: authority accepted, want ErrUnauthorized", op)
		}
		if err := Require(op, token, "stranger"); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("%s: stranger accepted, want ErrUnauthorized", op)
		}
	}
}

func TestRequire_AuthorityOperations(t *testing.T) {
	token := testToken()

	authorityOps := []Operation{OpPause, OpUnpause, OpMint, OpBurn}

	for _, op := range authorityOps {
		if err := Require(op, token, "authority-key"); err != nil {
			t.Errorf("%s: authority rejected: %v", op, err)
		}
		if err := Require(op, token, "admin-key"); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("%s: admin accepted, want ErrUnauthorized", op)
		}
	}
}

func TestRequire_UnknownOperationDenied(t *testing.T) {
	token := testToken()

	if Allowed(Operation("drop_tables"), token, "admin-key") {
		t.Error("Unknown operation allowed")
	}
}

func TestRequire_SameKeyBothRoles(t *testing.T) {
	// Initialization sets authority == admin; both tables apply.
	token := &domain.Token{Authority: "k", Admin: "k"}

	if err := Require(OpPause, token, "k"); err != nil {
		t.Errorf("Pause rejected: %v", err)
	}
	if err := Require(OpInitializeSale, token, "k"); err != nil {
		t.Errorf("InitializeSale rejected: %v", err)
	}
}
