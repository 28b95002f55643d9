package document

import "testing"

func TestParseSource(t *testing.T) {
	tests := []struct {
		raw        string
		wantURL    string
		wantTitle  string
		wantLegacy bool
	}{
		{"https://go.dev/ref/mod", "https://go.dev/ref/mod", "", false},
		{"[Go Modules Reference](https://go.dev/ref/mod)", "https://go.dev/ref/mod", "Go Modules Reference", false},
		{"Go Modules Reference - https://go.dev/ref/mod", "https://go.dev/ref/mod", "Go Modules Reference", false},
		{"Interview with the platform team", "", "Interview with the platform team", false},
		{"{url: https://go.dev/ref/mod, title: Go Modules}", "https://go.dev/ref/mod", "Go Modules", true},
		{"url: https://go.dev/ref/mod", "https://go.dev/ref/mod", "", true},
		{"See https://x.dev/notes.", "https://x.dev/notes", "See", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseSource(tt.raw)
			if got.URL != tt.wantURL || got.Title != tt.wantTitle || got.Legacy != tt.wantLegacy {
				t.Errorf("ParseSource(%q) = %+v", tt.raw, got)
			}
		})
	}
}
