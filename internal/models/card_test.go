package models

import "testing"

func TestMaskCardNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"4111111111111111", "4111********1111"},
		{"4111 1111 1111 1111", "4111********1111"},
		{"4111-1111-1111-1111", "4111********1111"},
		{"12345678", "1234********5678"},
		{"1234567", "1234567"},
		{"", ""},
	}
	for _, tt := range tests {
		got := MaskCardNumber(tt.input)
		if got != tt.want {
			t.Errorf("MaskCardNumber(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCardValidateExpiration(t *testing.T) {
	card := Card{UserID: "usr_1", CardName: "Everyday"}

	card.ExpirationDate = "12/27"
	if err := card.Validate(); err != nil {
		t.Errorf("valid expiration rejected: %v", err)
	}

	for _, bad := range []string{"13/27", "00/27", "1/27", "12/2027", "1227"} {
		card.ExpirationDate = bad
		if err := card.Validate(); err == nil {
			t.Errorf("expiration %q accepted, want error", bad)
		}
	}
}
