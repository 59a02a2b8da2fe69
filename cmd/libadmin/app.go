package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sufield/libadmin/internal/audit"
	"github.com/sufield/libadmin/internal/bg"
	"github.com/sufield/libadmin/internal/catalog"
	"github.com/sufield/libadmin/internal/config"
	"github.com/sufield/libadmin/internal/debug"
	"github.com/sufield/libadmin/internal/domain"
	"github.com/sufield/libadmin/internal/session"
	"github.com/sufield/libadmin/internal/transport"
)

// cli carries the streams every command reads and writes.
type cli struct {
	ctx    context.Context // parent of every command's context
	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer
}

// commonFlags are shared by every command that talks to the backend or the
// terminal session.
type commonFlags struct {
	config string
	state  string
	debug  bool // forces debug on; set by commands that offer --debug
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.config, "config", os.Getenv("LIBADMIN_CONFIG"), "Path to the YAML config file (environment only when empty)")
	fs.StringVar(&f.state, "state", os.Getenv("LIBADMIN_STATE"), "Session state file (default: user config dir)")
}

func (f commonFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if f.debug {
		cfg.Debug = true
	}
	debug.Init(cfg.Debug)
	debug.InitLogger()
	return cfg, nil
}

func (f commonFlags) store() (*session.FileStore, error) {
	if f.state != "" {
		return session.NewFileStore(f.state), nil
	}
	path, err := session.DefaultStatePath()
	if err != nil {
		return nil, err
	}
	return session.NewFileStore(path), nil
}

// signedIn returns the terminal session, or ErrUnauthenticated when there is none.
func (f commonFlags) signedIn() (session.State, error) {
	store, err := f.store()
	if err != nil {
		return session.State{}, err
	}
	st, err := store.Load()
	if err != nil {
		return session.State{}, err
	}
	if !st.Authenticated {
		return session.State{}, fmt.Errorf("%w: run 'libadmin login' first", domain.ErrUnauthenticated)
	}
	return st, nil
}

// connect builds the catalog client for cfg. The release function closes the
// identity source when mTLS is in use and is never nil on success.
func connect(ctx context.Context, cfg *config.Config) (*catalog.Client, func() error, error) {
	hc, release, err := transport.NewHTTPClient(ctx, transport.Options{
		Timeout:        cfg.Backend.Timeout,
		WorkloadSocket: cfg.SPIRE.WorkloadSocket,
		Policy: transport.ServerPolicy{
			ServerID:    cfg.SPIRE.ExpectedServerSPIFFEID,
			TrustDomain: cfg.SPIRE.ExpectedServerTrustDomain,
		},
	})
	if err != nil {
		return nil, nil, err
	}
	cat := catalog.New(cfg.Backend.BaseURL, catalog.WithHTTPClient(hc), catalog.WithLogger(debug.GetLogger()))
	return cat, release, nil
}

// openAudit dials the broker when one is configured. Without one, events are dropped.
func openAudit(cfg *config.Config, runner bg.Runner) (audit.Publisher, error) {
	if !cfg.Audit.Enabled() {
		return audit.Nop{}, nil
	}
	return audit.DialAMQP(cfg.Audit.AMQPURL, cfg.Audit.Exchange, runner)
}

// confirm asks question on stdout and reports whether the answer was yes.
// End of input counts as no.
func (c *cli) confirm(question string) bool {
	fmt.Fprintf(c.stdout, "%s [y/N]: ", question)
	line, err := c.stdin.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(c.stdout)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (c *cli) readLine(prompt string) (string, error) {
	fmt.Fprint(c.stdout, prompt)
	line, err := c.stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// parseArgs parses fs and returns the positional arguments, accepting flags
// before or after them.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}
