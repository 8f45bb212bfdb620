package dto

import (
	"stays/infras/jwt"
	userModel "stays/internal/domains/user/model"
	"stays/shared/constant"
	gModel "stays/shared/model"
	"stays/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string  `json:"email"               validate:"required,email,max=100"`
	Password string  `json:"password"            validate:"required,min=8"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone,omitempty"     validate:"omitempty,max=20"`
}

// ToUserModel always registers a guest account; admins are created through the user endpoints.
func (r *RegisterRequest) ToUserModel(username string, hashedPassword string) userModel.User {
	return userModel.User{
		ID:       uuid.NewString(),
		Email:    r.Email,
		Password: hashedPassword,
		Level:    constant.RoleUser,
		FullName: r.FullName,
		Phone:    r.Phone,
		Active:   true,
		Metadata: gModel.NewMetadata(username, timezone.Now()),
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

const tokenTypeBearer = "Bearer"

// TokenResponse carries a fresh token pair. ExpiresIn is the access token lifetime in seconds.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (t *TokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	t.AccessToken = tokenPair.AccessToken
	t.RefreshToken = tokenPair.RefreshToken
	t.TokenType = tokenTypeBearer
	t.ExpiresIn = tokenPair.ExpiresIn
}

// LoginResponse adds what the client needs to price bookings up front.
type LoginResponse struct {
	TokenResponse
	Role             string `json:"role"`
	DiscountEligible bool   `json:"discount_eligible"`
}

func (l *LoginResponse) FromLogin(tokenPair *jwt.TokenPair, user userModel.User) {
	l.FromTokenPair(tokenPair)
	l.Role = user.Level
	l.DiscountEligible = user.DiscountEligible
}

type lastLoginUpdate struct {
	LastLogin time.Time `db:"last_login"`
}

// LastLogin is the partial update recorded on every successful login.
func LastLogin(at time.Time) any {
	return lastLoginUpdate{LastLogin: at}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

type passwordUpdate struct {
	Password string `db:"password"`
}

// PasswordChange is the partial update storing a new password hash.
func PasswordChange(hashed string) any {
	return passwordUpdate{Password: hashed}
}
