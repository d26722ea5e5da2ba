package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goal-tracker/backend/internal/client"
)

func AccountCmd(app *App) *cobra.Command {
	c := &cobra.Command{
		Use:   "account",
		Short: "Manage your account",
	}
	c.AddCommand(accountUpdateCmd(app))
	c.AddCommand(accountDeleteCmd(app))
	return c
}

func accountUpdateCmd(app *App) *cobra.Command {
	var name, email, password string

	c := &cobra.Command{
		Use:   "update",
		Short: "Change your name, email or password",
		RunE: func(cmd *cobra.Command, args []string) error {
			var update client.ProfileUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("email") {
				update.Email = &email
			}
			if cmd.Flags().Changed("password") {
				update.Password = &password
			}
			if update == (client.ProfileUpdate{}) {
				return errors.New("nothing to update, pass --name, --email or --password")
			}

			if _, err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			identity, err := app.Client().UpdateProfile(cmd.Context(), update)
			if err != nil {
				return fmt.Errorf("update failed: %w", err)
			}
			app.Printf("Updated. You are %s <%s>.\n", identity.Name, identity.Email)
			return nil
		},
	}
	c.Flags().StringVar(&name, "name", "", "new display name")
	c.Flags().StringVar(&email, "email", "", "new email address")
	c.Flags().StringVar(&password, "password", "", "new password")
	return c
}

func accountDeleteCmd(app *App) *cobra.Command {
	var password string

	c := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account and all your goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := app.RequireSession(cmd.Context())
			if err != nil {
				return err
			}
			if !app.Confirm(fmt.Sprintf("Delete the account %s and every goal in it?", identity.Email)) {
				app.Printf("Kept.\n")
				return nil
			}
			if password, err = app.valueOrPrompt(password, "Password"); err != nil {
				return err
			}
			if err := app.Client().DeleteAccount(cmd.Context(), password); err != nil {
				return fmt.Errorf("account deletion failed: %w", err)
			}
			app.Printf("Account deleted.\n")
			return nil
		},
	}
	c.Flags().StringVar(&password, "password", "", "current password (prompted when omitted)")
	return c
}
