// Package usecases is the validation layer: each use case wraps one session
// manager or task service operation with business preconditions and fails
// fast before any I/O happens.
package usecases

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
	"github.com/dmitrijs2005/todokeeper/internal/common"
)

// SessionOps is the slice of the session manager the auth use cases need.
type SessionOps interface {
	Register(ctx context.Context, email, password, displayName string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, userID, displayName string) (*models.User, error)
	SendPasswordReset(ctx context.Context, email string) error
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterUser validates registration input before delegating to the
// session manager.
type RegisterUser struct {
	sessions SessionOps
}

func NewRegisterUser(sessions SessionOps) *RegisterUser {
	return &RegisterUser{sessions: sessions}
}

func (uc *RegisterUser) Execute(ctx context.Context, email, password, displayName string) (*models.User, error) {
	if email == "" || password == "" || displayName == "" {
		return nil, fmt.Errorf("%w: email, password and display name are required", common.ErrorValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", common.ErrorValidation)
	}
	if utf8.RuneCountInString(strings.TrimSpace(displayName)) < 2 {
		return nil, fmt.Errorf("%w: display name must be at least 2 characters", common.ErrorValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", common.ErrorValidation)
	}

	user, err := uc.sessions.Register(ctx, email, password, displayName)
	if err != nil {
		// Normalize the duplicate-email case to one canonical message,
		// whatever the provider's wording was.
		if errors.Is(err, common.ErrorAlreadyRegistered) {
			return nil, common.ErrorAlreadyRegistered
		}
		return nil, err
	}
	return user, nil
}

// LoginUser validates credentials presence before delegating.
type LoginUser struct {
	sessions SessionOps
}

func NewLoginUser(sessions SessionOps) *LoginUser {
	return &LoginUser{sessions: sessions}
}

func (uc *LoginUser) Execute(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}
	return uc.sessions.Login(ctx, email, password)
}

// LogoutUser ends the current session.
type LogoutUser struct {
	sessions SessionOps
}

func NewLogoutUser(sessions SessionOps) *LogoutUser {
	return &LogoutUser{sessions: sessions}
}

func (uc *LogoutUser) Execute(ctx context.Context) error {
	return uc.sessions.Logout(ctx)
}

// UpdateProfile changes the current user's display name.
type UpdateProfile struct {
	sessions SessionOps
}

func NewUpdateProfile(sessions SessionOps) *UpdateProfile {
	return &UpdateProfile{sessions: sessions}
}

func (uc *UpdateProfile) Execute(ctx context.Context, userID, displayName string) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrorValidation)
	}
	if utf8.RuneCountInString(strings.TrimSpace(displayName)) < 2 {
		return nil, fmt.Errorf("%w: display name must be at least 2 characters", common.ErrorValidation)
	}
	return uc.sessions.UpdateProfile(ctx, userID, displayName)
}

// SendPasswordReset asks the provider to mail a reset link.
type SendPasswordReset struct {
	sessions SessionOps
}

func NewSendPasswordReset(sessions SessionOps) *SendPasswordReset {
	return &SendPasswordReset{sessions: sessions}
}

func (uc *SendPasswordReset) Execute(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", common.ErrorValidation)
	}
	return uc.sessions.SendPasswordReset(ctx, email)
}
