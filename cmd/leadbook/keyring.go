package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/leadbook"
	"github.com/zalando/go-keyring"
)

// maxDSNSize bounds how much of stdin is read as a DSN.
const maxDSNSize = 64 << 10

// Run executes the keyring set command.
func (c *KeyringSetCmd) Run(deps *Dependencies) error {
	dsn := strings.TrimSpace(c.DSN)
	if dsn == "" && deps.Stdin != nil {
		b, err := io.ReadAll(io.LimitReader(deps.Stdin, maxDSNSize))
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: failed to read DSN: %v\n", err)
			return err
		}
		dsn = strings.TrimSpace(string(b))
	}
	if dsn == "" {
		err := leadbook.Errorf(leadbook.EINVALID, "DSN is empty")
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
		return err
	}

	if err := keyring.Set(KeyringService, c.Account, dsn); err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to store DSN: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Stored Postgres DSN in keychain account %q\n", c.Account)
	fmt.Fprintf(deps.Stdout, "Set postgres_keyring: %s in the config file to use it\n", c.Account)
	return nil
}

// Run executes the keyring delete command.
func (c *KeyringDeleteCmd) Run(deps *Dependencies) error {
	if err := keyring.Delete(KeyringService, c.Account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			err = leadbook.Errorf(leadbook.ENOTFOUND, "no DSN stored for keychain account %q", c.Account)
			fmt.Fprintf(deps.Stderr, "error: %s\n", leadbook.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: failed to delete DSN: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted Postgres DSN for keychain account %q\n", c.Account)
	return nil
}
