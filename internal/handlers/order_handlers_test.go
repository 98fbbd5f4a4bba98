package handlers

import (
	"strings"
	"testing"
)

func TestNewOrderNumber(t *testing.T) {
	t.Run("has the expected shape", func(t *testing.T) {
		n := newOrderNumber()
		if !strings.HasPrefix(n, "HB-") {
			t.Errorf("expected HB- prefix, got %q", n)
		}
		if len(n) != len("HB-")+8 {
			t.Errorf("expected 8 character fragment, got %q", n)
		}
		for _, r := range n[3:] {
			if !strings.ContainsRune("0123456789ABCDEF", r) {
				t.Errorf("unexpected character %q in %q", r, n)
			}
		}
	})

	t.Run("successive numbers differ", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < 100; i++ {
			n := newOrderNumber()
			if seen[n] {
				t.Fatalf("duplicate order number %q", n)
			}
			seen[n] = true
		}
	})
}
