package sqlutil

import "testing"

func TestInClauseArgs(t *testing.T) {
	tests := []struct {
		items []string
		want  string
		args  int
	}{
		{nil, "NULL", 0},
		{[]string{"a"}, "?", 1},
		{[]string{"a", "b", "c"}, "?, ?, ?", 3},
	}
	for _, tt := range tests {
		got, args := InClauseArgs(tt.items)
		if got != tt.want || len(args) != tt.args {
			t.Errorf("InClauseArgs(%v) = %q, %d args; want %q, %d", tt.items, got, len(args), tt.want, tt.args)
		}
	}
}
