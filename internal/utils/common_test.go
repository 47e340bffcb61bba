package utils

import "testing"

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		ptr  string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"#/", ""},
		{"/saved", "saved"},
		{"#/saved/0/title", "saved[0].title"},
		{"/drafts/12/created_at", "drafts[12].created_at"},
		{"/a~1b/c~0d", "a/b.c~d"},
		{"/saved//0", "saved[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.ptr, func(t *testing.T) {
			if got := JSONPointerToPath(tt.ptr); got != tt.want {
				t.Errorf("JSONPointerToPath(%q) = %q, want %q", tt.ptr, got, tt.want)
			}
		})
	}
}
