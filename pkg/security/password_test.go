package security

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("Hash() returned the plain password")
	}

	ok, err := h.Compare(hash, "s3cret")
	if err != nil || !ok {
		t.Errorf("Compare(correct) = %v, %v", ok, err)
	}

	ok, err = h.Compare(hash, "wrong")
	if err != nil || ok {
		t.Errorf("Compare(wrong) = %v, %v", ok, err)
	}

	if _, err := h.Compare("not-a-hash", "s3cret"); err == nil {
		t.Error("Compare(broken hash) returned nil error")
	}
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
	if got := NewPasswordHasher(1).cost; got != bcrypt.MinCost {
		t.Errorf("cost = %d, want %d", got, bcrypt.MinCost)
	}
	if got := NewPasswordHasher(99).cost; got != bcrypt.MaxCost {
		t.Errorf("cost = %d, want %d", got, bcrypt.MaxCost)
	}
}

func TestHashRejectsLongPassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	if _, err := h.Hash(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Fatalf("Hash(72 bytes) error = %v", err)
	}
	_, err := h.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("Hash(73 bytes) error = %v, want ErrPasswordTooLong", err)
	}
}
