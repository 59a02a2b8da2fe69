package main

import (
	"errors"
	"fmt"

	"github.com/sufield/libadmin/internal/session"
)

func (c *cli) loginCommand(cmd *Command, args []string) error {
	fs := cmd.NewFlagSet(c.stderr)
	var common commonFlags
	common.register(fs)

	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) < 1 || len(pos) > 2 {
		fs.Usage()
		return errors.New("username required")
	}

	username := pos[0]
	password := ""
	if len(pos) == 2 {
		password = pos[1]
	} else if password, err = c.readLine("Password: "); err != nil {
		return err
	}

	cfg, err := common.loadConfig()
	if err != nil {
		return err
	}
	gate, err := session.NewGate(cfg.Auth.Username, cfg.Auth.Password)
	if err != nil {
		return err
	}
	store, err := common.store()
	if err != nil {
		return err
	}

	st, err := gate.SignIn(store, username, password)
	if errors.Is(err, session.ErrInvalidCredentials) {
		fmt.Fprintln(c.stderr, session.FailedLoginMessage)
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Signed in as %s\n", st.Username())
	return nil
}

func (c *cli) logoutCommand(cmd *Command, args []string) error {
	fs := cmd.NewFlagSet(c.stderr)
	var common commonFlags
	common.register(fs)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	store, err := common.store()
	if err != nil {
		return err
	}
	if err := session.SignOut(store); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "Signed out")
	return nil
}

func (c *cli) whoamiCommand(cmd *Command, args []string) error {
	fs := cmd.NewFlagSet(c.stderr)
	var common commonFlags
	common.register(fs)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	st, err := common.signedIn()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, st.Username())
	return nil
}
