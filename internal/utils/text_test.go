package utils

import "testing"

func TestIsSeparator(t *testing.T) {
	for _, r := range " _-./" {
		if !IsSeparator(r) {
			t.Errorf("expected %q to be a separator", r)
		}
	}
	for _, r := range "aZ09$\\" {
		if IsSeparator(r) {
			t.Errorf("expected %q to not be a separator", r)
		}
	}
}

func TestEqualFold(t *testing.T) {
	testCases := []struct {
		a, b        rune
		want        bool
		description string
	}{
		{'a', 'a', true, "Identical lowercase"},
		{'a', 'A', true, "ASCII case fold"},
		{'Z', 'z', true, "ASCII case fold reversed"},
		{'a', 'b', false, "Different letters"},
		{'é', 'É', true, "Unicode case fold"},
		{'3', '3', true, "Digits equal"},
		{'3', '4', false, "Digits differ"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := EqualFold(tc.a, tc.b); got != tc.want {
				t.Errorf("EqualFold(%q, %q): expected %v, got %v", tc.a, tc.b, tc.want, got)
			}
		})
	}
}

func TestNormalizeSeparators(t *testing.T) {
	if got := NormalizeSeparators(`src\util\a.go`); got != "src/util/a.go" {
		t.Errorf("expected forward slashes, got %q", got)
	}
}
