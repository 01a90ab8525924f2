package slug

import (
	"errors"
	"testing"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Arsenal Home Kit 24/25", "arsenal-home-kit-24-25"},
		{"  Trailing -- Spaces  ", "trailing-spaces"},
		{"ÜMLAUT", "mlaut"},
		{"!!!", "untitled"},
	}
	for _, tc := range cases {
		if got := Make(tc.in); got != tc.want {
			t.Fatalf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMakeUniqueRetries(t *testing.T) {
	taken := map[string]bool{"arsenal-kit": true, "arsenal-kit-1": true}
	got, err := MakeUnique("Arsenal Kit", func(c string) (bool, error) {
		return taken[c], nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "arsenal-kit-2" {
		t.Fatalf("expected arsenal-kit-2, got %q", got)
	}
}

func TestMakeUniquePropagatesError(t *testing.T) {
	boom := errors.New("db down")
	if _, err := MakeUnique("x", func(string) (bool, error) { return false, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}
