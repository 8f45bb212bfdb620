package model

import "stays/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID               = "id"
	FieldEmail            = "email"
	FieldPassword         = "password"
	FieldLevel            = "level"
	FieldFullName         = "full_name"
	FieldPhone            = "phone"
	FieldDiscountEligible = "discount_eligible"
	FieldLastLogin        = "last_login"
	FieldActive           = "active"
)

// User is an account holder. DiscountEligible flips to true once the user books without
// referring to a prior guest and never flips back.
type User struct {
	ID               string  `db:"id"`
	Email            string  `db:"email"`
	Password         string  `db:"password"`
	Level            string  `db:"level"`
	FullName         *string `db:"full_name"`
	Phone            *string `db:"phone"`
	DiscountEligible bool    `db:"discount_eligible"`
	LastLogin        *string `db:"last_login"`
	Active           bool    `db:"active"`
	model.Metadata
}

// DisplayName is the full name when set, the email otherwise.
func (u User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}

	return u.Email
}
