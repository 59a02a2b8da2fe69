package main

import (
	"crypto/tls"
	"fmt"
	"runtime"

	"github.com/sufield/libadmin/internal/config"
	"github.com/sufield/libadmin/internal/domain"
)

func (c *cli) versionCommand(cmd *Command, v VersionInfo, args []string) error {
	fs := cmd.NewFlagSet(c.stderr)
	verbose := fs.Bool("verbose", false, "Show runtime and default settings")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "libadmin %s (commit: %s, built: %s)\n", v.Version, v.Commit, v.Date)
	if !*verbose {
		return nil
	}

	fmt.Fprintln(c.stdout)
	table := NewTableWriter([]string{"Setting", "Value"})
	table.AddRow([]string{"Go", runtime.Version()})
	table.AddRow([]string{"Platform", runtime.GOOS + "/" + runtime.GOARCH})
	table.AddRow([]string{"Default Listen Address", config.DefaultListenAddr})
	table.AddRow([]string{"Default Backend", config.DefaultBackendURL})
	table.AddRow([]string{"Loan Period", fmt.Sprintf("%d days", domain.LoanPeriodDays)})
	table.AddRow([]string{"Backend mTLS Version", tlsVersionName(tls.VersionTLS13)})
	table.Print(c.stdout)
	return nil
}

func tlsVersionName(version uint16) string {
	switch version {
	case tls.VersionTLS12:
		return "TLS 1.2"
	case tls.VersionTLS13:
		return "TLS 1.3"
	default:
		return fmt.Sprintf("Unknown (0x%04x)", version)
	}
}
