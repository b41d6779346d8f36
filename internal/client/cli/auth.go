package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/todokeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, password, and display name and creates a new
// account. On success the session manager adopts the new user, so no extra
// login step is needed.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	displayName, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.registerUser.Execute(ctx, email, string(password), displayName)
	if err != nil {
		return err
	}

	fmt.Printf("Welcome, %s!\n", user.DisplayName)
	return nil
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.loginUser.Execute(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Printf("Welcome back, %s!\n", user.DisplayName)
	return nil
}

// Logout ends the current session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.logoutUser.Execute(ctx); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

// Profile prompts for a new display name and updates the current user.
func (a *App) Profile(ctx context.Context) error {
	user := a.currentUser()
	if user == nil {
		fmt.Println("Not signed in")
		return nil
	}

	displayName, err := getSimpleText(a.reader, "Enter new display name", os.Stdout)
	if err != nil {
		return err
	}

	updated, err := a.updateProfile.Execute(ctx, user.ID, displayName)
	if err != nil {
		return err
	}

	fmt.Printf("Display name updated to %s\n", updated.DisplayName)
	return nil
}

// PasswordReset asks the provider to mail a reset link.
func (a *App) PasswordReset(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.sendPasswordReset.Execute(ctx, email); err != nil {
		return err
	}

	fmt.Println("Password reset email sent")
	return nil
}

// WhoAmI prints the current session.
func (a *App) WhoAmI() {
	user := a.currentUser()
	if user == nil {
		fmt.Println("Not signed in")
		return
	}
	fmt.Printf("%s <%s>\n", user.DisplayName, user.Email)
}
