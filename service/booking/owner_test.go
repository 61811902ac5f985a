package booking

import "testing"

func TestParseOwnerStylistID(t *testing.T) {
	tests := []struct {
		raw       string
		wantID    uint
		wantOwner bool
		wantErr   bool
	}{
		{"owner-7", 7, true, false},
		{"owner-123", 123, true, false},
		{"42", 42, false, false},
		{"owner-", 0, false, true},
		{"owner-abc", 0, false, true},
		{"abc", 0, false, true},
		{"", 0, false, true},
	}

	for _, tt := range tests {
		id, isOwner, err := ParseOwnerStylistID(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseOwnerStylistID(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOwnerStylistID(%q): unexpected error %v", tt.raw, err)
			continue
		}
		if id != tt.wantID || isOwner != tt.wantOwner {
			t.Errorf("ParseOwnerStylistID(%q) = (%d, %v), want (%d, %v)",
				tt.raw, id, isOwner, tt.wantID, tt.wantOwner)
		}
	}
}
