package crypto

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("1234")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hash == "1234" {
		t.Fatal("expected digest, got plaintext")
	}

	if err := hasher.Compare(hash, "1234"); err != nil {
		t.Errorf("expected matching password to verify, got %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); err == nil {
		t.Error("expected mismatch for wrong password")
	}
}

func TestBcryptHasher_SaltedDigests(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("1234")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := hasher.Hash("1234")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first == second {
		t.Error("expected distinct digests for the same password")
	}
}

func TestNewBcryptHasher_CostClamp(t *testing.T) {
	testCases := []struct {
		name string
		cost int
		want int
	}{
		{"zero", 0, bcrypt.DefaultCost},
		{"negative", -1, bcrypt.DefaultCost},
		{"above max", bcrypt.MaxCost + 1, bcrypt.DefaultCost},
		{"min", bcrypt.MinCost, bcrypt.MinCost},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hasher := NewBcryptHasher(tc.cost)

			hash, err := hasher.Hash("1234")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			cost, err := bcrypt.Cost([]byte(hash))
			if err != nil {
				t.Fatalf("expected parseable digest, got %v", err)
			}
			if cost != tc.want {
				t.Errorf("expected cost %d, got %d", tc.want, cost)
			}
		})
	}
}
