package payment

import (
	"strings"
	"testing"
)

func TestSignHex_Deterministic(t *testing.T) {
	msg := OrderMessage("order_abc", "pay_xyz")

	first := SignHex(msg, "secret-1")
	second := SignHex(msg, "secret-1")
	if first != second {
		t.Fatalf("same input produced different digests: %s vs %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}
	if first != strings.ToLower(first) {
		t.Fatalf("digest is not lowercase hex: %s", first)
	}
}

func TestSignHex_SecretChangesDigest(t *testing.T) {
	msg := OrderMessage("order_abc", "pay_xyz")

	if SignHex(msg, "secret-1") == SignHex(msg, "secret-2") {
		t.Fatal("different secrets produced identical digests")
	}
}

func TestSignHex_MessageChangesDigest(t *testing.T) {
	a := SignHex(OrderMessage("order_abc", "pay_xyz"), "secret-1")
	b := SignHex(OrderMessage("order_abd", "pay_xyz"), "secret-1")
	c := SignHex(OrderMessage("order_abc", "pay_xyy"), "secret-1")

	if a == b || a == c {
		t.Fatal("single character change did not change the digest")
	}
}

func TestVerifySignature(t *testing.T) {
	msg := OrderMessage("order_abc", "pay_xyz")
	sig := SignHex(msg, "secret-1")

	if !VerifySignature(msg, "secret-1", sig) {
		t.Fatal("valid signature rejected")
	}
	if VerifySignature(msg, "wrong-secret", sig) {
		t.Fatal("signature accepted under wrong secret")
	}

	// flip one hex character
	mutated := []byte(sig)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	if VerifySignature(msg, "secret-1", string(mutated)) {
		t.Fatal("mutated signature accepted")
	}

	if VerifySignature(msg, "secret-1", "") {
		t.Fatal("empty signature accepted")
	}
}

func TestOrderMessage_Format(t *testing.T) {
	got := string(OrderMessage("order_1", "pay_2"))
	if got != "order_1|pay_2" {
		t.Fatalf("unexpected message: %s", got)
	}
}
