// Package cmd holds the goalctl subcommands.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/goal-tracker/backend/config"
	"github.com/goal-tracker/backend/internal/client"
	"github.com/goal-tracker/backend/internal/infra/logger"
)

// ErrLoginRequired is returned by commands that need a session when none is stored.
var ErrLoginRequired = errors.New("not logged in, run goalctl login first")

// App carries what every subcommand shares.
type App struct {
	Verbose bool

	cfg    *config.Config
	in     *bufio.Reader
	out    io.Writer
	outMu  sync.Mutex
	client *client.Client
}

// NewApp creates an App reading answers from in and printing to out.
func NewApp(cfg *config.Config, in io.Reader, out io.Writer) *App {
	return &App{
		cfg: cfg,
		in:  bufio.NewReader(in),
		out: out,
	}
}

// InitLogger sends logs to stderr. Only warnings show unless Verbose is set.
func (a *App) InitLogger() {
	level := "warn"
	if a.Verbose {
		level = "debug"
	}
	logger.InitWriter(os.Stderr, true, level, a.cfg.Log.SentryDSN)
}

// Client returns the API client, building it on first use with the token file
// from the configuration.
func (a *App) Client() *client.Client {
	if a.client == nil {
		session := client.NewSession(client.NewFileTokenStore(a.cfg.Client.TokenFile))
		a.client = client.New(client.Config{
			BaseURL: a.cfg.Client.APIURL,
			Timeout: a.cfg.Client.Timeout,
		}, session)
	}
	return a.client
}

// WithClient replaces the API client.
func (a *App) WithClient(c *client.Client) *App {
	a.client = c
	return a
}

// RequireSession restores the stored session or fails with ErrLoginRequired.
func (a *App) RequireSession(ctx context.Context) (client.Identity, error) {
	identity, ok, err := a.Client().Restore(ctx)
	if err != nil {
		return client.Identity{}, fmt.Errorf("failed to restore session: %w", err)
	}
	if !ok {
		return client.Identity{}, ErrLoginRequired
	}
	return identity, nil
}

// Printf writes to the command output. It is safe to call from autosave callbacks.
func (a *App) Printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

// PrintError reports err on stderr, using the API message when there is one.
func (a *App) PrintError(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", apiErr.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// Prompt asks for a value on the command output and reads one line of input.
func (a *App) Prompt(label string) (string, error) {
	a.Printf("%s: ", label)
	line, err := a.readLine()
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (a *App) Confirm(question string) bool {
	a.Printf("%s [y/N]: ", question)
	line, _ := a.readLine()
	return isYes(line)
}

func (a *App) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	return strings.TrimSpace(line), err
}

// valueOrPrompt returns value, prompting for it when empty.
func (a *App) valueOrPrompt(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	return a.Prompt(label)
}
