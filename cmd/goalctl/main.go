// Package main is the entry point for goalctl, the Goal Tracker command line client.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/goal-tracker/backend/cmd/goalctl/cmd"
	"github.com/goal-tracker/backend/config"
)

func main() {
	_ = godotenv.Load()

	app := cmd.NewApp(config.Load(), os.Stdin, os.Stdout)

	rootCmd := &cobra.Command{
		Use:           "goalctl",
		Short:         "Track savings goals from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			app.InitLogger()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "log requests and autosave activity to stderr")

	rootCmd.AddCommand(cmd.RegisterCmd(app))
	rootCmd.AddCommand(cmd.LoginCmd(app))
	rootCmd.AddCommand(cmd.LogoutCmd(app))
	rootCmd.AddCommand(cmd.WhoamiCmd(app))
	rootCmd.AddCommand(cmd.GoalsCmd(app))
	rootCmd.AddCommand(cmd.NewCmd(app))
	rootCmd.AddCommand(cmd.EditCmd(app))
	rootCmd.AddCommand(cmd.DeleteCmd(app))
	rootCmd.AddCommand(cmd.AccountCmd(app))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		app.PrintError(err)
		os.Exit(1)
	}
}
