package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sufield/libadmin/internal/bg"
	"github.com/sufield/libadmin/internal/console"
	"github.com/sufield/libadmin/internal/debug"
	"github.com/sufield/libadmin/internal/session"
)

func (c *cli) serveCommand(cmd *Command, args []string) error {
	fs := cmd.NewFlagSet(c.stderr)
	var common commonFlags
	common.register(fs)
	listen := fs.String("listen", "", "Override console.listen_addr")
	fs.BoolVar(&common.debug, "debug", false, "Enable [DEBUG] logging and synchronous audit publishing")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	cfg, err := common.loadConfig()
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.Console.ListenAddr = *listen
	}
	debug.GetLogger().Debugf("serve: listen %s, backend timeout %s", cfg.Console.ListenAddr, cfg.Backend.Timeout)

	ctx, stop := signal.NotifyContext(c.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, release, err := connect(ctx, cfg)
	if err != nil {
		return err
	}

	gate, err := session.NewGate(cfg.Auth.Username, cfg.Auth.Password)
	if err != nil {
		_ = release()
		return err
	}

	pub, err := openAudit(cfg, bg.For(cfg.Debug))
	if err != nil {
		_ = release()
		return fmt.Errorf("failed to open audit publisher: %w", err)
	}

	srv, err := console.New(console.Options{
		Catalog:       cat,
		Gate:          gate,
		Audit:         pub,
		SecureCookies: cfg.Console.SecureCookies,
		Logger:        debug.GetLogger(),
	})
	if err != nil {
		_ = pub.Close()
		_ = release()
		return err
	}

	log.Printf("Backend: %s", cat.BaseURL())
	if cfg.SPIRE.Enabled() {
		log.Printf("Backend mTLS via %s", cfg.SPIRE.WorkloadSocket)
	}
	if cfg.Audit.Enabled() {
		log.Printf("Publishing audit events to exchange %q", cfg.Audit.Exchange)
	}

	return console.Run(ctx, cfg.Console, srv, pub.Close, release)
}
