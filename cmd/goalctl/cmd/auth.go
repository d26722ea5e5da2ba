package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func RegisterCmd(app *App) *cobra.Command {
	var name, email, password string

	c := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if name, err = app.valueOrPrompt(name, "Name"); err != nil {
				return err
			}
			if email, err = app.valueOrPrompt(email, "Email"); err != nil {
				return err
			}
			if password, err = app.valueOrPrompt(password, "Password"); err != nil {
				return err
			}

			identity, err := app.Client().Register(cmd.Context(), name, email, password)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			app.Printf("Welcome, %s. You are logged in as %s.\n", identity.Name, identity.Email)
			return nil
		},
	}
	c.Flags().StringVar(&name, "name", "", "display name")
	c.Flags().StringVar(&email, "email", "", "email address")
	c.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return c
}

func LoginCmd(app *App) *cobra.Command {
	var email, password string

	c := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = app.valueOrPrompt(email, "Email"); err != nil {
				return err
			}
			if password, err = app.valueOrPrompt(password, "Password"); err != nil {
				return err
			}

			identity, err := app.Client().Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			app.Printf("Logged in as %s <%s>.\n", identity.Name, identity.Email)
			return nil
		},
	}
	c.Flags().StringVar(&email, "email", "", "email address")
	c.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return c
}

func LogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session token and forget it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.Client().Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}
			app.Printf("Logged out.\n")
			return nil
		},
	}
}

func WhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := app.RequireSession(cmd.Context())
			if err != nil {
				return err
			}
			app.Printf("%s <%s>\n%s\n", identity.Name, identity.Email, identity.ID)
			return nil
		},
	}
}
