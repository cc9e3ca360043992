// authctl is an operator tool for bootstrap tasks that bypass the HTTP
// surface, currently creating the first admin account directly in the
// database.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/karlov/authgate/internal/auth"
	"github.com/karlov/authgate/internal/common"
	"github.com/karlov/authgate/internal/config"
	"github.com/karlov/authgate/internal/models"
	"github.com/karlov/authgate/internal/repositories/repomanager"
)

// readPassword is a seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if flag.NArg() != 1 || flag.Arg(0) != "create-admin" {
		fmt.Fprintln(os.Stderr, "usage: authctl [-config path] create-admin")
		os.Exit(2)
	}

	cfg := config.MustLoad(*configPath)
	if err := createAdmin(context.Background(), cfg, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func createAdmin(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	email, err := promptLine(reader, "Admin email", out)
	if err != nil {
		return err
	}
	password, err := promptPassword(out)
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	hash, err := auth.NewBcryptHasher().Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := rm.Users(db).Create(ctx, &models.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return fmt.Errorf("an account with email %q already exists", email)
		}
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(out, "created admin %s (id=%s)\n", user.Email, user.ID)
	return nil
}

// promptLine prints a prompt to w and reads a single trimmed line.
func promptLine(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads the password from the terminal without echo.
func promptPassword(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	if len(pw) == 0 {
		return "", errors.New("empty password")
	}
	return string(pw), nil
}
