package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stays/infras/jwt"
	"stays/internal/domains/auth/model/dto"
	userModel "stays/internal/domains/user/model"
	"stays/shared"
	"stays/shared/constant"
)

func TestLoginResponse_FromLogin(t *testing.T) {
	tokens := &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}
	user := userModel.User{ID: "u-1", Level: constant.RoleUser, DiscountEligible: true}

	var res dto.LoginResponse
	res.FromLogin(tokens, user)

	assert.Equal(t, dto.LoginResponse{
		TokenResponse: dto.TokenResponse{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
			ExpiresIn:    900,
		},
		Role:             constant.RoleUser,
		DiscountEligible: true,
	}, res)
}

func TestPartialUpdates(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	lastLogin := shared.TransformFields(dto.LastLogin(at), "u-1")
	assert.Equal(t, at, lastLogin["last_login"])
	assert.Equal(t, "u-1", lastLogin[constant.FieldModifiedBy])

	passwordChange := shared.TransformFields(dto.PasswordChange("$2a$hash"), "u-1")
	assert.Equal(t, "$2a$hash", passwordChange["password"])
	assert.Len(t, passwordChange, 3)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	name := "Ana Guest"
	req := dto.RegisterRequest{Email: "ana@example.com", Password: "secret123", FullName: &name}

	user := req.ToUserModel(constant.ContextGuest, "hashed")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, constant.RoleUser, user.Level)
	assert.Equal(t, &name, user.FullName)
	assert.True(t, user.Active)
	assert.False(t, user.DiscountEligible)
	assert.Equal(t, constant.ContextGuest, user.CreatedBy)
}
