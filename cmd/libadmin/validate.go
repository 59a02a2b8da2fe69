package main

import (
	"errors"
	"fmt"

	"github.com/sufield/libadmin/internal/config"
)

func (c *cli) validateCommand(cmd *Command, args []string) error {
	fs := cmd.NewFlagSet(c.stderr)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		fs.Usage()
		return errors.New("config file path required")
	}

	configPath := pos[0]
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(c.stdout, "✗ %s is invalid\n", configPath)
		return err
	}

	fmt.Fprintf(c.stdout, "✓ %s is valid\n\n", configPath)

	table := NewTableWriter([]string{"Setting", "Value"})
	table.AddRow([]string{"Listen Address", cfg.Console.ListenAddr})
	table.AddRow([]string{"Backend", cfg.Backend.BaseURL})
	table.AddRow([]string{"Backend Timeout", timeoutLabel(cfg)})
	table.AddRow([]string{"Backend mTLS", mtlsLabel(cfg.SPIRE)})
	table.AddRow([]string{"Console User", cfg.Auth.Username})
	audit := "disabled"
	if cfg.Audit.Enabled() {
		audit = "exchange " + cfg.Audit.Exchange
	}
	table.AddRow([]string{"Audit Events", audit})
	table.Print(c.stdout)

	if cfg.Auth.Password == config.DefaultPassword {
		fmt.Fprintln(c.stdout, "\nWarning: the console still uses the default password")
	}
	return nil
}

func timeoutLabel(cfg *config.Config) string {
	if cfg.Backend.Timeout == 0 {
		return "none"
	}
	return cfg.Backend.Timeout.String()
}

func mtlsLabel(s config.SPIRESection) string {
	switch {
	case !s.Enabled():
		return "disabled"
	case s.ExpectedServerSPIFFEID != "":
		return "server " + s.ExpectedServerSPIFFEID
	default:
		return "trust domain " + s.ExpectedServerTrustDomain
	}
}
