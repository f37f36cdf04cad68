package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/services"
	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp              = errors.New("help provided")
	errPasswordsMismatch = errors.New("passwords do not match")
)

type commandLine struct {
	db    *sql.DB
	users services.AuthService
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -username USERNAME          - create a user, the password is prompted")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME    - reset a user's password")
	fmt.Fprintln(cli.out, "  migrate [status|up]                 - show or apply schema migrations")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserName := addUserCmd.String("username", "", "The new user's name. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordCmd.SetOutput(cli.out)
	resetPasswordName := resetPasswordCmd.String("username", "", "The user's name. The password will be prompted next.")

	ctx := context.Background()

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptNewPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		u, err := cli.users.CreateUser(ctx, *addUserName, pwd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "created user %q (id %d)\n", u.Username, u.ID)
		return nil

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordName == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptNewPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		if err := cli.users.ResetPassword(ctx, *resetPasswordName, pwd); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "password updated for %q\n", *resetPasswordName)
		return nil

	case "migrate":
		sub := "status"
		if len(args) > 2 {
			sub = args[2]
		}
		return cli.migrate(ctx, sub)

	default:
		cli.printUsage()
		return errHelp
	}
}

// promptNewPassword reads the password twice without echo.
func (cli *commandLine) promptNewPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", nil
	}

	fmt.Fprint(cli.out, "Confirm password:")
	confirm, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if !bytes.Equal(pwd, confirm) {
		return "", errPasswordsMismatch
	}
	return string(pwd), nil
}

func (cli *commandLine) migrate(ctx context.Context, sub string) error {
	switch sub {
	case "up":
		if err := db.Migrate(ctx, cli.db); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "database is up to date")
		return nil
	case "status":
		versions, err := db.Versions()
		if err != nil {
			return err
		}
		applied, err := db.Applied(ctx, cli.db)
		if err != nil {
			return err
		}
		for _, v := range versions {
			if at, ok := applied[v]; ok {
				fmt.Fprintf(cli.out, "%-32s applied %s\n", v, at)
			} else {
				fmt.Fprintf(cli.out, "%-32s pending\n", v)
			}
		}
		return nil
	default:
		return fmt.Errorf("%q: no such command", sub)
	}
}
