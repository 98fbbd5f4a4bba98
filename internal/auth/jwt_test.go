package auth

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	t.Run("valid token resolves to the same user", func(t *testing.T) {
		token, err := GenerateToken(42)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}

		userID, err := ValidateToken(token)
		if err != nil {
			t.Fatalf("ValidateToken: %v", err)
		}
		if userID != 42 {
			t.Errorf("expected userID 42, got %d", userID)
		}
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		if _, err := ValidateToken("not.a.token"); err == nil {
			t.Error("expected an error for a malformed token")
		}
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		token, err := GenerateToken(7)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		tampered := token + "xx"
		if _, err := ValidateToken(tampered); err == nil {
			t.Error("expected an error for a tampered signature")
		}
	})
}
