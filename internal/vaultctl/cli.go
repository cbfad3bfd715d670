// Package vaultctl implements the operator CLI for the credential vault:
// sealing secrets into envelopes, opening envelopes back, and re-encrypting
// them under a new master secret. Secrets are read from the terminal without
// echo; envelopes travel as plain command arguments or lines.
package vaultctl

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/creatorpulse/channelvault/internal/credentials"
	"github.com/creatorpulse/channelvault/internal/dbx"
	credstore "github.com/creatorpulse/channelvault/internal/store/credentials"
	"github.com/creatorpulse/channelvault/internal/vault"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// CLI runs vaultctl subcommands against the given streams. dsn points at the
// credential store and is only needed for rotate-db.
type CLI struct {
	in  *bufio.Reader
	out io.Writer
	dsn string
}

func New(in io.Reader, out io.Writer, dsn string) *CLI {
	return &CLI{in: bufio.NewReader(in), out: out, dsn: dsn}
}

// Run dispatches one subcommand: encrypt, decrypt, rotate or rotate-db.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.usage()
	}

	switch args[0] {
	case "encrypt":
		return c.encrypt()
	case "decrypt":
		return c.decrypt(args[1:])
	case "rotate":
		return c.rotate(args[1:])
	case "rotate-db":
		return c.rotateDB(ctx)
	default:
		return c.usage()
	}
}

func (c *CLI) usage() error {
	fmt.Fprintln(c.out, "usage: vaultctl <encrypt|decrypt|rotate|rotate-db> [envelope]")
	return errors.New("unknown command")
}

func (c *CLI) encrypt() error {
	v, err := c.openVault("Master secret: ")
	if err != nil {
		return err
	}

	plain, err := c.promptSecret("Secret value: ")
	if err != nil {
		return err
	}

	envelope, err := v.EncryptString(plain)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, envelope)
	return nil
}

func (c *CLI) decrypt(args []string) error {
	v, err := c.openVault("Master secret: ")
	if err != nil {
		return err
	}

	envelope, err := c.envelopeArg(args)
	if err != nil {
		return err
	}

	plain, err := v.DecryptString(envelope)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, plain)
	return nil
}

// rotate re-encrypts one envelope under a new master secret. The plaintext
// only ever lives in process memory.
func (c *CLI) rotate(args []string) error {
	oldVault, err := c.openVault("Current master secret: ")
	if err != nil {
		return err
	}
	newVault, err := c.openVault("New master secret: ")
	if err != nil {
		return err
	}

	envelope, err := c.envelopeArg(args)
	if err != nil {
		return err
	}

	plain, err := oldVault.DecryptString(envelope)
	if err != nil {
		return err
	}

	rotated, err := newVault.EncryptString(plain)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, rotated)
	return nil
}

// rotateDB re-encrypts every stored credential under a new master secret,
// all rows in one transaction.
func (c *CLI) rotateDB(ctx context.Context) error {
	oldVault, err := c.openVault("Current master secret: ")
	if err != nil {
		return err
	}
	newVault, err := c.openVault("New master secret: ")
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", c.dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := credentials.RotateMaster(ctx, db, func(tx dbx.DBTX) credentials.RotateStore {
		return credstore.NewPostgresRepository(tx)
	}, oldVault, newVault)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "rotated %d credentials\n", n)
	return nil
}

func (c *CLI) openVault(prompt string) (*vault.Vault, error) {
	secret, err := c.promptSecret(prompt)
	if err != nil {
		return nil, err
	}
	return vault.New(secret)
}

// promptSecret reads a value from the terminal without echo.
func (c *CLI) promptSecret(prompt string) (string, error) {
	if _, err := fmt.Fprint(c.out, prompt); err != nil {
		return "", err
	}
	raw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// envelopeArg takes the envelope from the first argument, falling back to a
// prompted line.
func (c *CLI) envelopeArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	if _, err := fmt.Fprint(c.out, "Envelope:\n> "); err != nil {
		return "", err
	}
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || len(line) == 0) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
