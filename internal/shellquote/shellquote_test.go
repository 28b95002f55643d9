package shellquote

import "testing"

func TestQuoteIfNeeded(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"topic", "topic"},
		{"", "''"},
		{"Go Modules", "'Go Modules'"},
		{"Don't panic", `'Don'\''t panic'`},
		{"$HOME", "'$HOME'"},
	}
	for _, tt := range tests {
		if got := QuoteIfNeeded(tt.in); got != tt.want {
			t.Errorf("QuoteIfNeeded(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestJoin(t *testing.T) {
	got := Join("kba", "new", "decision", "Use SQLite", "--force")
	want := "kba new decision 'Use SQLite' --force"
	if got != want {
		t.Errorf("Join = %s, want %s", got, want)
	}
}
