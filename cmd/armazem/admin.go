package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/armazem/internal/auth"
	"github.com/erazemk/armazem/internal/config"
	"github.com/erazemk/armazem/internal/db"
	"github.com/erazemk/armazem/internal/model"
	"github.com/erazemk/armazem/internal/store"
)

// openStore loads the configuration and opens the database with the schema
// in place.
func openStore(common *commonFlags, fs *flag.FlagSet) (*sqlx.DB, error) {
	cfg, err := config.Load(common.config, common.overrides(fs))
	if err != nil {
		return nil, err
	}
	database, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("ensuring database schema: %w", err)
	}
	return database, nil
}

func cmdUserAdd(args []string) error {
	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)

	var common commonFlags
	common.register(fs)

	var username, role, password string
	fs.StringVar(&username, "username", "", "")
	fs.StringVar(&username, "u", "", "")
	fs.StringVar(&role, "role", model.RoleUser, "")
	fs.StringVar(&role, "r", model.RoleUser, "")
	fs.StringVar(&password, "password", "", "")
	fs.StringVar(&password, "p", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: armazem useradd -username <name> [flags]

Flags:
  -u, -username <name>    username (required)
  -r, -role <role>        boss or user (default: user)
  -p, -password <pw>      password (default: generated and printed)
`+commonUsage)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		fs.Usage()
		return fmt.Errorf("username required")
	}
	if !model.ValidRole(role) {
		return fmt.Errorf("invalid role %q (must be boss or user)", role)
	}

	generated := password == ""
	if generated {
		var err error
		if password, err = generatePassword(16); err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
	}
	if err := model.ValidatePassword(password); err != nil {
		return err
	}

	database, err := openStore(&common, fs)
	if err != nil {
		return err
	}
	defer database.Close()

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user, err := store.CreateUser(context.Background(), database, username, hash, role)
	if err != nil {
		return err
	}

	fmt.Printf("User created: %s (%s)\n", user.Username, user.Role)
	if generated {
		fmt.Printf("  Password: %s\n", password)
		fmt.Println()
		fmt.Println("Save this password — it cannot be recovered.")
	}
	return nil
}

func cmdLookup(args []string) error {
	if len(args) == 0 || args[0] != "add" {
		fmt.Fprint(os.Stdout, "Usage: armazem lookup add -kind type|location -name <name> [flags]\n")
		return fmt.Errorf("expected 'lookup add'")
	}

	fs := flag.NewFlagSet("lookup add", flag.ContinueOnError)

	var common commonFlags
	common.register(fs)

	var kind, name string
	fs.StringVar(&kind, "kind", "", "")
	fs.StringVar(&kind, "k", "", "")
	fs.StringVar(&name, "name", "", "")
	fs.StringVar(&name, "n", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: armazem lookup add -kind <kind> -name <name> [flags]

Flags:
  -k, -kind <kind>        type (product type) or location (storage location)
  -n, -name <name>        value to add
`+commonUsage)
	}

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	var table string
	switch kind {
	case "type":
		table = store.LookupProductTypes
	case "location":
		table = store.LookupStorageLocations
	default:
		fs.Usage()
		return fmt.Errorf("kind must be 'type' or 'location'")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name required")
	}

	database, err := openStore(&common, fs)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := store.AddLookup(context.Background(), database, table, name); err != nil {
		return err
	}
	fmt.Printf("Added %q to %s\n", name, table)
	return nil
}

// createFirstBoss creates the initial boss account when no user exists yet
// and returns its generated password. It returns an empty password when the
// database already has users.
func createFirstBoss(ctx context.Context, database *sqlx.DB, username string) (string, error) {
	n, err := store.CountUsers(ctx, database)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return "", nil
	}

	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	if _, err := store.CreateUser(ctx, database, username, hash, model.RoleBoss); err != nil {
		return "", fmt.Errorf("creating boss user: %w", err)
	}
	return password, nil
}

// printInitResult prints the first-run account to stdout.
func printInitResult(driver, username, password string) {
	fmt.Printf("Database initialized (%s).\n", driver)
	fmt.Println()
	fmt.Println("Boss account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password — it cannot be recovered.")
	fmt.Println("More accounts can be added with 'armazem useradd'.")
	fmt.Println()
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
