package roles

import "testing"

func TestIsCoach(t *testing.T) {
	r := NewResolver([]string{" Coach@MindPath.io ", "", "second@mindpath.io"})

	cases := []struct {
		email string
		want  bool
	}{
		{"coach@mindpath.io", true},
		{"COACH@MINDPATH.IO", true},
		{"  coach@mindpath.io  ", true},
		{"second@mindpath.io", true},
		{"user@mindpath.io", false},
		{"", false},
		{"   ", false},
	}
	for _, tc := range cases {
		if got := r.IsCoach(tc.email); got != tc.want {
			t.Errorf("IsCoach(%q) = %v; want %v", tc.email, got, tc.want)
		}
	}
}

func TestNewResolver_EmptyList(t *testing.T) {
	r := NewResolver(nil)
	if r.IsCoach("anyone@x.io") {
		t.Fatalf("empty allow-list granted coach role")
	}
}
