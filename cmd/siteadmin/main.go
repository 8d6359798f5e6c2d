package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/tutoring-site/internal/repository"
	"github.com/noah-isme/tutoring-site/internal/service"
	"github.com/noah-isme/tutoring-site/pkg/config"
	"github.com/noah-isme/tutoring-site/pkg/database"
	"github.com/noah-isme/tutoring-site/pkg/logger"
)

const usage = `usage: siteadmin <command> [flags]

commands:
  migrate up|down|status|reset   apply or inspect database migrations
  make-admin -username NAME      promote an existing account to admin
  reset-password -username NAME  set a new password, read from the terminal
`

type admin struct {
	cfg          *config.Config
	logger       *zap.Logger
	out          io.Writer
	openDB       func(ctx context.Context) (*sqlx.DB, error)
	readPassword func(prompt string) (string, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	a := &admin{
		cfg:    cfg,
		logger: logr,
		out:    os.Stdout,
		openDB: func(ctx context.Context) (*sqlx.DB, error) {
			return database.NewPostgres(ctx, cfg.Database)
		},
		readPassword: terminalPassword,
	}
	if err := a.run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *admin) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	switch args[0] {
	case "migrate":
		return a.migrate(ctx, args[1:])
	case "make-admin":
		return a.makeAdmin(ctx, args[1:])
	case "reset-password":
		return a.resetPassword(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

func (a *admin) migrate(ctx context.Context, args []string) error {
	command := database.MigrateUp
	if len(args) > 0 {
		command = args[0]
	}
	switch command {
	case database.MigrateUp, database.MigrateDown, database.MigrateStatus, database.MigrateReset:
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}

	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return database.Migrate(db.DB, command, a.logger)
}

func (a *admin) makeAdmin(ctx context.Context, args []string) error {
	username, err := parseUsername("make-admin", args)
	if err != nil {
		return err
	}
	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	users := service.NewUserService(repository.NewUserRepository(db), validator.New(), a.logger)
	user, err := users.MakeAdmin(ctx, username)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is now an admin\n", user.Username)
	return nil
}

func (a *admin) resetPassword(ctx context.Context, args []string) error {
	username, err := parseUsername("reset-password", args)
	if err != nil {
		return err
	}
	password, err := a.readPassword("New password: ")
	if err != nil {
		return err
	}
	confirm, err := a.readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	auth := service.NewAuthService(repository.NewUserRepository(db), validator.New(), a.logger, nil,
		service.AuthConfig{MinPasswordLength: a.cfg.Auth.MinPasswordLength})
	if err := auth.SetPassword(ctx, username, password); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "password updated for %s\n", username)
	return nil
}

func parseUsername(command string, args []string) (string, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("username", "", "account username")
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("%s: %w", command, err)
	}
	name := strings.TrimSpace(*username)
	if name == "" {
		return "", fmt.Errorf("%s: -username is required", command)
	}
	return name, nil
}

func terminalPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
