package auth

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/tastectl/cli/internal/app"
	"github.com/tastectl/cli/internal/format"
	"github.com/tastectl/cli/internal/gateway"
	"github.com/tastectl/cli/internal/models"
	"github.com/tastectl/cli/internal/session"
	"github.com/tastectl/cli/internal/utils"
)

// AuthCmd represents the auth command
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long: `Authentication commands for the tastectl CLI.

This command group includes login, logout, session status, and
profile updates.`,
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the sampling platform",
	Long:  "Authenticate with an account (email or phone) and password",
	RunE:  runLogin,
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of the current session",
	Long:  "Invalidate the server session and clear local credentials",
	RunE:  runLogout,
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long:  "Display the current session and user information",
	RunE:  runStatus,
}

// profileCmd updates the signed-in user's profile
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update the signed-in user's profile",
	Long:  "Change the display name or avatar of the current user",
	RunE:  runProfile,
}

func runLogin(cmd *cobra.Command, args []string) error {
	account, _ := cmd.Flags().GetString("account")
	password, _ := cmd.Flags().GetString("password")

	if err := utils.ValidateAccount(account); err != nil {
		return err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return err
	}

	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	var result models.LoginResult
	err = a.Gateway.DoJSON(gateway.Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Body: models.LoginRequest{
			Account:  account,
			Password: password,
		},
		ShowLoading:    true,
		LoadingText:    "Signing in...",
		NoAutoRedirect: true,
	}, &result)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	profile := &session.Profile{
		ID:          result.User.ID,
		DisplayName: result.User.DisplayName,
		AvatarURL:   result.User.AvatarURL,
	}
	if err := a.Session.Login(result.Token, profile); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	format.PrintSuccess("✓ Logged in as %s", profile.DisplayName)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Session.Snapshot().IsLoggedIn() {
		return fmt.Errorf("not logged in")
	}

	// Best effort; the local session is cleared even when the server
	// call fails.
	if err := a.Gateway.DoJSON(gateway.Request{
		Method:              http.MethodPost,
		Path:                "/api/auth/logout",
		NoAutoRedirect:      true,
		SuppressErrorNotice: true,
	}, nil); err != nil {
		a.Logger.Debug().Err(err).Msg("server logout failed")
	}

	if err := a.Session.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	format.PrintSuccess("✓ Logged out")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	snap := a.Session.Snapshot()
	if !snap.IsLoggedIn() {
		fmt.Fprintln(format.Out, "Status: Not logged in")
		return nil
	}

	return format.Print(map[string]interface{}{
		"status":       "Logged in",
		"user_id":      snap.Profile.ID,
		"display_name": snap.Profile.DisplayName,
		"server":       a.Config.Server.URL,
		"theme":        string(a.Theme.Current()),
	})
}

func runProfile(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	avatar, _ := cmd.Flags().GetString("avatar")

	if name == "" && avatar == "" {
		return fmt.Errorf("nothing to update; pass --name or --avatar")
	}

	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.RequireLogin(); err != nil {
		return err
	}

	snap := a.Session.Snapshot()
	updated := *snap.Profile
	if name != "" {
		updated.DisplayName = name
	}
	if avatar != "" {
		updated.AvatarURL = avatar
	}

	var result models.UserInfo
	err = a.Gateway.DoJSON(gateway.Request{
		Method: http.MethodPut,
		Path:   "/api/users/me",
		Body: models.UserInfo{
			ID:          updated.ID,
			DisplayName: updated.DisplayName,
			AvatarURL:   updated.AvatarURL,
		},
	}, &result)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if err := a.Session.SetProfile(&session.Profile{
		ID:          result.ID,
		DisplayName: result.DisplayName,
		AvatarURL:   result.AvatarURL,
	}); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	format.PrintSuccess("✓ Profile updated")
	return nil
}

func init() {
	loginCmd.Flags().StringP("account", "a", "", "Email address or phone number")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	loginCmd.MarkFlagRequired("account")
	loginCmd.MarkFlagRequired("password")

	profileCmd.Flags().String("name", "", "New display name")
	profileCmd.Flags().String("avatar", "", "New avatar URL")

	AuthCmd.AddCommand(loginCmd)
	AuthCmd.AddCommand(logoutCmd)
	AuthCmd.AddCommand(statusCmd)
	AuthCmd.AddCommand(profileCmd)
}
