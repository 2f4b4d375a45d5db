// galleryctl manages the gallery's admin credential and database
// schema from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leca/fw-gallery/internal/config"
	"github.com/leca/fw-gallery/internal/database"
	"github.com/leca/fw-gallery/internal/model"
	"github.com/leca/fw-gallery/internal/password"
)

func main() {
	root := &cobra.Command{
		Use:           "galleryctl",
		Short:         "Administer the fw-gallery database and admin account",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage the admin credential",
	}

	var username string
	set := &cobra.Command{
		Use:   "set",
		Short: "Set the admin username and password (replaces any existing credential)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminSet(cmd.Context(), username)
		},
	}
	set.Flags().StringVarP(&username, "username", "u", "", "username used to log in")
	_ = set.MarkFlagRequired("username")

	status := &cobra.Command{
		Use:   "status",
		Short: "Report whether an admin credential is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminStatus(cmd.Context())
		},
	}

	admin.AddCommand(set, status)
	root.AddCommand(admin)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openDB opens the configured database, creating the schema and the
// parent directory when missing.
func openDB() (*database.SQLiteDB, error) {
	cfg := config.Load()
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	return database.NewSQLiteDB(cfg.DBPath)
}

func runAdminSet(ctx context.Context, username string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	pass, err := promptPassword()
	if err != nil {
		return err
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	acc := &model.Account{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.SetAccount(ctx, acc); err != nil {
		return err
	}
	fmt.Println("Admin credential updated.")
	return nil
}

func runAdminStatus(ctx context.Context) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ok, err := db.HasAccount(ctx)
	if err != nil {
		return err
	}
	if ok {
		fmt.Println("Admin credential is configured.")
	} else {
		fmt.Println("No admin credential configured. Run 'galleryctl admin set'.")
	}
	return nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	fmt.Print("Repeat for confirmation: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if len(first) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(first), nil
}
