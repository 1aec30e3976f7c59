package checked

import (
	"errors"
	"math"
	"testing"

	"pump-token-core/internal/domain"
)

func TestAdd(t *testing.T) {
	sum, err := Add(1, 2)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if sum != 3 {
		t.Errorf("Expected 3, got %d", sum)
	}

	_, err = Add(math.MaxUint64, 1)
	if !errors.Is(err, domain.ErrArithmeticOverflow) {
		t.Errorf("Expected ErrArithmeticOverflow, got %v", err)
	}
}

func TestSub(t *testing.T) {
	diff, err := Sub(10, 4)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if diff != 6 {
		t.Errorf("Expected 6, got %d", diff)
	}

	_, err = Sub(4, 10)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}
}

func TestMul(t *testing.T) {
	product, err := Mul(500, 100)
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	if product != 50000 {
		t.Errorf("Expected 50000, got %d", product)
	}

	_, err = Mul(math.MaxUint64, 2)
	if !errors.Is(err, domain.ErrArithmeticOverflow) {
		t.Errorf("Expected ErrArithmeticOverflow, got %v", err)
	}
}

func TestDiv(t *testing.T) {
	q, err := Div(50000, 10000)
	if err != nil {
		t.Fatalf("Div failed: %v", err)
	}
	if q != 5 {
		t.Errorf("Expected 5, got %d", q)
	}

	// Floor semantics
	q, err = Div(9999, 10000)
	if err != nil {
		t.Fatalf("Div failed: %v", err)
	}
	if q != 0 {
		t.Errorf("Expected 0, got %d", q)
	}

	_, err = Div(1, 0)
	if !errors.Is(err, domain.ErrArithmeticOverflow) {
		t.Errorf("Expected ErrArithmeticOverflow, got %v", err)
	}
}

func TestAddInt64(t *testing.T) {
	sum, err := AddInt64(1_700_000_000, 86400)
	if err != nil {
		t.Fatalf("AddInt64 failed: %v", err)
	}
	if sum != 1_700_086_400 {
		t.Errorf("Expected 1700086400, got %d", sum)
	}

	_, err = AddInt64(math.MaxInt64, 1)
	if !errors.Is(err, domain.ErrArithmeticOverflow) {
		t.Errorf("Expected ErrArithmeticOverflow, got %v", err)
	}
	_, err = AddInt64(math.MinInt64, -1)
	if !errors.Is(err, domain.ErrArithmeticOverflow) {
		t.Errorf("Expected ErrArithmeticOverflow, got %v", err)
	}
}

func TestPow10(t *testing.T) {
	cases := []struct {
		exp  uint8
		want uint64
	}{
		{0, 1},
		{1, 10},
		{9, 1_000_000_000},
		{19, 10_000_000_000_000_000_000},
	}

	for _, c := range cases {
		got, err := Pow10(c.exp)
		if err != nil {
			t.Fatalf("Pow10(%d) failed: %v", c.exp, err)
		}
		if got != c.want {
			t.Errorf("Pow10(%d): got %d, want %d", c.exp, got, c.want)
		}
	}

	_, err := Pow10(20)
	if !errors.Is(err, domain.ErrArithmeticOverflow) {
		t.Errorf("Expected ErrArithmeticOverflow, got %v", err)
	}
}
