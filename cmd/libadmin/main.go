// Command libadmin runs the Digital Library admin console and offers the same
// catalog operations from the terminal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// A .env file is optional; the environment wins over it.
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	return runContext(context.Background(), args, stdin, stdout, stderr)
}

// runContext is run with a parent context; serve stops when it is done.
func runContext(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	c := &cli{
		ctx:    ctx,
		stdin:  bufio.NewReader(stdin),
		stdout: stdout,
		stderr: stderr,
	}
	registry := NewCommandRegistry(VersionInfo{Version: version, Commit: commit, Date: date}, stdout, stderr)
	registerCommands(registry, c)
	return registry.Execute(args)
}

func registerCommands(r *CommandRegistry, c *cli) {
	add := func(cmd *Command, run func(cmd *Command, args []string) error) {
		cmd.Run = func(args []string) error { return run(cmd, args) }
		r.Register(cmd)
	}

	add(&Command{
		Name:        "serve",
		Description: "Run the web console",
		Usage:       "libadmin serve [--config file] [--listen addr] [--debug]",
		Examples: []string{
			"libadmin serve",
			"libadmin serve --config libadmin.yaml --listen :3000",
		},
	}, c.serveCommand)

	add(&Command{
		Name:        "login",
		Description: "Sign in to the terminal session",
		Usage:       "libadmin login <username> [password] [--state file]",
		Examples: []string{
			"libadmin login admin password",
			"libadmin login admin   # prompts for the password",
		},
	}, c.loginCommand)

	add(&Command{
		Name:        "logout",
		Description: "Sign out of the terminal session",
		Usage:       "libadmin logout [--state file]",
	}, c.logoutCommand)

	add(&Command{
		Name:        "whoami",
		Description: "Show the signed-in user",
		Usage:       "libadmin whoami [--state file]",
	}, c.whoamiCommand)

	add(&Command{
		Name:        "dashboard",
		Description: "Show catalog counters and recent activity",
		Usage:       "libadmin dashboard [--config file]",
	}, c.dashboardCommand)

	for _, e := range entities {
		usage := "libadmin " + e.name + " <list|delete <id>> [--yes]"
		examples := []string{"libadmin " + e.name + " list", "libadmin " + e.name + " delete 3 --yes"}
		if e.returnable {
			usage = "libadmin " + e.name + " <list|return <id>|delete <id>> [--yes]"
			examples = append(examples, "libadmin "+e.name+" return 7")
		}
		add(&Command{
			Name:        e.name,
			Description: "List or remove " + e.name,
			Usage:       usage,
			Examples:    examples,
		}, c.entityCommand(e))
	}

	add(&Command{
		Name:        "validate",
		Description: "Validate a libadmin configuration file",
		Usage:       "libadmin validate <config-file>",
		Examples: []string{
			"libadmin validate libadmin.yaml",
			"LIBADMIN_BACKEND_URL=https://catalog:8443/api libadmin validate libadmin.yaml",
		},
	}, c.validateCommand)

	add(&Command{
		Name:        "version",
		Description: "Show version information",
		Usage:       "libadmin version [--verbose]",
	}, func(cmd *Command, args []string) error {
		return c.versionCommand(cmd, r.version, args)
	})

	add(&Command{
		Name:        "help",
		Description: "Show help information",
		Usage:       "libadmin help [command]",
		Examples: []string{
			"libadmin help",
			"libadmin help loans",
		},
	}, func(_ *Command, args []string) error {
		if len(args) > 0 {
			cmd, ok := r.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown command: %s", args[0])
			}
			cmd.PrintUsage(c.stdout)
			return nil
		}
		r.PrintHelp(c.stdout)
		return nil
	})
}
