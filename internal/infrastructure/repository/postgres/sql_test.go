package postgres

import "testing"

func TestEscapeLikePattern(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"annie", "annie"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{"%_", `\%\_`},
	}
	for _, tc := range cases {
		if got := escapeLikePattern(tc.in); got != tc.want {
			t.Fatalf("escapeLikePattern(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
