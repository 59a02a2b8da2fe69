package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sufield/libadmin/internal/audit"
	"github.com/sufield/libadmin/internal/bg"
	"github.com/sufield/libadmin/internal/catalog"
	"github.com/sufield/libadmin/internal/dashboard"
	"github.com/sufield/libadmin/internal/domain"
)

// entity describes one catalog collection for the list/delete commands.
type entity struct {
	name       string // collection and command name
	noun       string // used in prompts
	returnable bool
	table      func(ctx context.Context, cat *catalog.Client) (*TableWriter, error)
	remove     func(ctx context.Context, cat *catalog.Client, id string) error
}

var entities = []entity{
	{
		name: "users",
		noun: "user",
		table: func(ctx context.Context, cat *catalog.Client) (*TableWriter, error) {
			users, err := cat.Users.List(ctx)
			if err != nil {
				return nil, err
			}
			t := NewTableWriter([]string{"ID", "Name", "Email", "Member Since"})
			for _, u := range users {
				t.AddRow([]string{u.ID, u.Name, u.Email, domain.DisplayDate(u.MembershipDate)})
			}
			return t, nil
		},
		remove: func(ctx context.Context, cat *catalog.Client, id string) error { return cat.Users.Delete(ctx, id) },
	},
	{
		name: "authors",
		noun: "author",
		table: func(ctx context.Context, cat *catalog.Client) (*TableWriter, error) {
			authors, err := cat.Authors.List(ctx)
			if err != nil {
				return nil, err
			}
			t := NewTableWriter([]string{"ID", "Name", "Nationality", "Birthdate"})
			for _, a := range authors {
				t.AddRow([]string{a.ID, a.Name, a.Nationality, domain.DisplayDate(a.Birthdate)})
			}
			return t, nil
		},
		remove: func(ctx context.Context, cat *catalog.Client, id string) error { return cat.Authors.Delete(ctx, id) },
	},
	{
		name: "books",
		noun: "book",
		table: func(ctx context.Context, cat *catalog.Client) (*TableWriter, error) {
			books, err := cat.Books.List(ctx)
			if err != nil {
				return nil, err
			}
			t := NewTableWriter([]string{"ID", "Title", "ISBN", "Publisher", "Year", "Stock", "Authors"})
			for _, b := range books {
				t.AddRow([]string{b.ID, b.Title, b.ISBN, b.Publisher, b.YearPublished, strconv.Itoa(b.Stock), strings.Join(b.AuthorNames(), ", ")})
			}
			return t, nil
		},
		remove: func(ctx context.Context, cat *catalog.Client, id string) error { return cat.Books.Delete(ctx, id) },
	},
	{
		name:       "loans",
		noun:       "loan record",
		returnable: true,
		table: func(ctx context.Context, cat *catalog.Client) (*TableWriter, error) {
			loans, err := cat.Loans.List(ctx)
			if err != nil {
				return nil, err
			}
			t := NewTableWriter([]string{"ID", "Book", "User", "Loan Date", "Return Date", "Status"})
			for _, l := range loans {
				returned := "-"
				if l.ReturnDate != nil && *l.ReturnDate != "" {
					returned = domain.DisplayDate(*l.ReturnDate)
				}
				t.AddRow([]string{l.ID, l.BookTitle(), l.UserName(), domain.DisplayDate(l.LoanDate), returned, l.Status.Label()})
			}
			return t, nil
		},
		remove: func(ctx context.Context, cat *catalog.Client, id string) error { return cat.Loans.Delete(ctx, id) },
	},
}

func (c *cli) entityCommand(e entity) func(cmd *Command, args []string) error {
	return func(cmd *Command, args []string) error {
		fs := cmd.NewFlagSet(c.stderr)
		var common commonFlags
		common.register(fs)
		yes := fs.Bool("yes", false, "Skip the confirmation prompt")

		pos, err := parseArgs(fs, args)
		if err != nil {
			return err
		}
		if len(pos) == 0 {
			fs.Usage()
			return errors.New("subcommand required")
		}

		action := pos[0]
		switch {
		case action == "list" && len(pos) == 1:
		case action == "delete" && len(pos) == 2:
		case action == "return" && e.returnable && len(pos) == 2:
		default:
			fs.Usage()
			return fmt.Errorf("unknown %s subcommand: %s", e.name, strings.Join(pos, " "))
		}

		st, err := common.signedIn()
		if err != nil {
			return err
		}
		cfg, err := common.loadConfig()
		if err != nil {
			return err
		}
		ctx := c.ctx
		cat, release, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = release() }()

		if action == "list" {
			t, err := e.table(ctx, cat)
			if err != nil {
				return fmt.Errorf("failed to fetch %s: %s", e.name, catalog.Message(err))
			}
			if t.Len() == 0 {
				fmt.Fprintf(c.stdout, "No %s found\n", e.name)
				return nil
			}
			t.Print(c.stdout)
			return nil
		}

		id := pos[1]
		question := fmt.Sprintf("Are you sure you want to delete this %s?", e.noun)
		auditAction := audit.ActionDelete
		run := func() error { return e.remove(ctx, cat, id) }
		if action == "return" {
			question = "Are you sure you want to return this book?"
			auditAction = audit.ActionReturn
			run = func() error {
				_, err := cat.Loans.Return(ctx, id)
				return err
			}
		}

		if !*yes && !c.confirm(question) {
			fmt.Fprintln(c.stdout, "Cancelled")
			return nil
		}
		if err := run(); err != nil {
			return fmt.Errorf("failed to %s %s %s: %s", action, e.noun, id, catalog.Message(err))
		}

		// The process exits right after, so publish synchronously.
		pub, err := openAudit(cfg, bg.Sync{})
		if err != nil {
			fmt.Fprintf(c.stderr, "Warning: audit disabled: %v\n", err)
		} else {
			pub.Publish(ctx, audit.NewEvent(auditAction, e.name, id, st.Username()))
			_ = pub.Close()
		}

		verb := "Deleted"
		if action == "return" {
			verb = "Returned"
		}
		fmt.Fprintf(c.stdout, "%s %s %s\n", verb, e.noun, id)
		return nil
	}
}

func (c *cli) dashboardCommand(cmd *Command, args []string) error {
	fs := cmd.NewFlagSet(c.stderr)
	var common commonFlags
	common.register(fs)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	if _, err := common.signedIn(); err != nil {
		return err
	}
	cfg, err := common.loadConfig()
	if err != nil {
		return err
	}
	ctx := c.ctx
	cat, release, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = release() }()

	ov, err := dashboard.Load(ctx, cat)
	if err != nil {
		return err
	}
	printOverview(c.stdout, ov)
	return nil
}

func printOverview(w io.Writer, ov dashboard.Overview) {
	stats := NewTableWriter([]string{"Total Users", "Total Books", "Active Loans", "Overdue Loans"})
	stats.AddRow([]string{
		strconv.Itoa(ov.Stats.TotalUsers),
		strconv.Itoa(ov.Stats.TotalBooks),
		strconv.Itoa(ov.Stats.ActiveLoans),
		strconv.Itoa(ov.Stats.OverdueLoans),
	})
	stats.Print(w)

	fmt.Fprintln(w, "\nRecent Loans:")
	if len(ov.RecentLoans) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, l := range ov.RecentLoans {
		fmt.Fprintf(w, "  Loan by User #%s - Book ID: %s\n", l.UserID, l.BookID)
	}

	fmt.Fprintln(w, "\nRecently Added Books:")
	if len(ov.RecentBooks) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, b := range ov.RecentBooks {
		fmt.Fprintf(w, "  %s - Publisher: %s\n", b.Title, b.Publisher)
	}
}
