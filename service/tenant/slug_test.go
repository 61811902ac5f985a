package tenant

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Bella Hair Studio", "bella-hair-studio"},
		{"Chez Marie & Co.", "chez-marie-co"},
		{"  Salon   2000  ", "salon-2000"},
		{"UPPER CASE", "upper-case"},
		{"already-slugged", "already-slugged"},
		{"___", ""},
		{"Ünïcode Salon", "n-code-salon"},
		{"a", "a"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.name); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
