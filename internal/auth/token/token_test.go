package token

import "testing"

func TestGenerateRandomProducesDistinctTokens(t *testing.T) {
	a, err := GenerateRandom(48)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := GenerateRandom(48)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct tokens")
	}
	if len(a) < 48 {
		t.Fatalf("token unexpectedly short: %d chars", len(a))
	}
}

func TestHashSHA256IsStableAndOpaque(t *testing.T) {
	raw := "some-refresh-token"
	first := HashSHA256(raw)
	second := HashSHA256(raw)
	if first != second {
		t.Fatal("digest must be deterministic")
	}
	if first == raw {
		t.Fatal("digest must not equal the raw token")
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}
}
