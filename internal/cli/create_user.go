package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/avoronov/bookstore/internal/config"
	"github.com/avoronov/bookstore/internal/database"
	"github.com/avoronov/bookstore/internal/database/users"
)

// CreateUserCommand bootstraps a user account and prints its API token.
// The identity subsystem has no self-registration endpoint; accounts are
// provisioned from the command line.
type CreateUserCommand struct {
	Username     string
	Email        string
	Password     string
	Staff        bool
	DatabasePath string
	BcryptCost   int
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username for the new account (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email address for the new account")
	fs.StringVar(&cmd.Password, "password", "", "Password for the new account (optional, 12 characters minimum)")
	fs.BoolVar(&cmd.Staff, "staff", false, "Grant staff privileges (bypasses ownership checks, unlocks user administration)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the application database file")
	fs.IntVar(&cmd.BcryptCost, "bcrypt-cost", 12, "bcrypt cost factor for the password hash")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user account and print its API token.\n\n")
		fmt.Fprintf(os.Stderr, "The token is printed exactly once and cannot be recovered later;\n")
		fmt.Fprintf(os.Stderr, "pass it as 'Authorization: Bearer <token>' on API requests.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Create a regular user:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -username alice -email alice@example.com\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Create a staff user:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -username admin -staff\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		return fmt.Errorf("required flag -username not provided")
	}

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := users.NewRepository(db.DB, cmd.BcryptCost)
	user, token, err := repo.Create(cmd.Username, cmd.Email, cmd.Password, cmd.Staff)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	role := "user"
	if user.IsStaff {
		role = "staff user"
	}
	fmt.Printf("Created %s %q (id=%d)\n", role, user.Username, user.ID)
	fmt.Printf("API token (shown once): %s\n", token)
	return nil
}
