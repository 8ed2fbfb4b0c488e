package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Card represents a credit card owned by a user. Only a masked form of
// the card number is ever stored.
type Card struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Brand          string          `json:"brand"`
	CardName       string          `json:"card_name"`
	NameOnCard     string          `json:"name_on_card"`
	NumberMasked   string          `json:"number_masked"`
	ExpirationDate string          `json:"expiration_date"` // MM/YY
	Limit          decimal.Decimal `json:"limit"`
	CreatedAt      time.Time       `json:"created_at"`
	ModifiedAt     time.Time       `json:"modified_at"`
}

var expirationPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

// MaskCardNumber reduces a raw card number to its first and last four
// digits with a fixed-width mask between. Numbers shorter than eight
// digits are returned unchanged.
func MaskCardNumber(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	if len(digits) < 8 {
		return digits
	}
	return digits[:4] + "********" + digits[len(digits)-4:]
}

// Validate checks that a card has valid field values.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.CardName) == "" {
		return fmt.Errorf("card name is required")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("card user_id is required")
	}
	if c.ExpirationDate != "" && !expirationPattern.MatchString(c.ExpirationDate) {
		return fmt.Errorf("expiration date must be MM/YY")
	}
	if c.Limit.IsNegative() {
		return fmt.Errorf("card limit cannot be negative")
	}
	return nil
}
