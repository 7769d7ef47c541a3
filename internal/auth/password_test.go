package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := ComparePassword(hash, "secret123"); err != nil {
		t.Fatalf("ComparePassword with correct password: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("ComparePassword with wrong password should fail")
	}
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	second, err := HashPassword("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if first == second {
		t.Fatal("two hashes of the same plaintext should differ")
	}
	if err := ComparePassword(first, "secret123"); err != nil {
		t.Fatalf("first digest should verify: %v", err)
	}
	if err := ComparePassword(second, "secret123"); err != nil {
		t.Fatalf("second digest should verify: %v", err)
	}
}
