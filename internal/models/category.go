package models

import (
	"fmt"
	"strings"
	"time"
)

// Default styling applied to categories created without explicit
// presentation fields.
const (
	DefaultCategoryIcon  = "fi fi-rr-tags"
	DefaultCategoryColor = "bg-blue-500"
)

// Category labels transactions for reporting and budgets. A category
// with an empty UserID is global and visible to every user.
type Category struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	Name       string    `json:"name"`
	IconClass  string    `json:"icon_class"`
	ColorClass string    `json:"color_class"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// IsGlobal reports whether the category is shared across all users.
func (c *Category) IsGlobal() bool {
	return c.UserID == ""
}

// Validate checks that a category has valid field values.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name is required")
	}
	if len(c.Name) > 100 {
		return fmt.Errorf("category name exceeds 100 characters")
	}
	return nil
}

// ApplyDefaults fills presentation fields left empty on create.
func (c *Category) ApplyDefaults() {
	if c.IconClass == "" {
		c.IconClass = DefaultCategoryIcon
	}
	if c.ColorClass == "" {
		c.ColorClass = DefaultCategoryColor
	}
}
