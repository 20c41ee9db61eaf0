package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/platform/config"
	"github.com/SscSPs/household_ledger/internal/utils"
	"github.com/SscSPs/household_ledger/pkg/database"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type migrateCmd struct {
	down bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply (or roll back) the database schema" }
func (*migrateCmd) Usage() string {
	return `ledgerctl migrate [-down]

  Applies every pending migration from MIGRATIONS_PATH to PGSQL_URL.
`
}

func (m *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&m.down, "down", false, "Roll back every migration instead of applying them.")
}

func (m *migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "PGSQL_URL is required")
		return subcommands.ExitUsageError
	}
	direction := database.MigrateUp
	if m.down {
		direction = database.MigrateDown
	}
	if _, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type balanceCmd struct {
	account string
	date    string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "print the checkpoint-aware balance of an account" }
func (*balanceCmd) Usage() string {
	return `ledgerctl balance -a <account_id> [-d <YYYY-MM-DD>]
`
}

func (b *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&b.account, "a", "", "Account ID.")
	f.StringVar(&b.date, "d", "", "Balance date (defaults to today).")
}

func (b *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if b.account == "" {
		fmt.Fprintln(os.Stderr, "-a is required")
		return subcommands.ExitUsageError
	}
	date := domain.DateOf(time.Now())
	if b.date != "" {
		d, err := domain.ParseDate(b.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		date = d
	}

	ctx = withLogger(ctx)
	_, svc, closeFn, err := openServices(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	account, err := svc.Account.GetAccountByID(ctx, b.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	balance, err := svc.Balance.GetBalanceAtDate(ctx, b.account, date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s\t%s\t%s\n", account.Name, date, utils.FormatAmount(balance, account.CurrencyCode))
	return subcommands.ExitSuccess
}

type reconcileCmd struct {
	account string
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "recompute the checkpoints of an account" }
func (*reconcileCmd) Usage() string {
	return `ledgerctl reconcile -a <account_id>

  Replays each checkpoint so its correcting entry matches the current history.
`
}

func (r *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.account, "a", "", "Account ID.")
}

func (r *reconcileCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if r.account == "" {
		fmt.Fprintln(os.Stderr, "-a is required")
		return subcommands.ExitUsageError
	}

	ctx = withLogger(ctx)
	_, svc, closeFn, err := openServices(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	account, err := svc.Account.GetAccountByID(ctx, r.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	cps, err := svc.Checkpoint.ReconcileAccountCheckpoints(ctx, r.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, cp := range cps {
		fmt.Printf("%s\t%s\t%s\n", cp.CheckpointID, cp.CheckpointDate, utils.FormatAmount(cp.Balance, account.CurrencyCode))
	}
	return subcommands.ExitSuccess
}

type costBasisCmd struct {
	account  string
	quantity string
}

func (*costBasisCmd) Name() string     { return "cost-basis" }
func (*costBasisCmd) Synopsis() string { return "print the cost basis of a quantity sold today" }
func (*costBasisCmd) Usage() string {
	return `ledgerctl cost-basis -a <account_id> -q <quantity>
`
}

func (c *costBasisCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Security account ID.")
	f.StringVar(&c.quantity, "q", "", "Number of shares.")
}

func (c *costBasisCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	quantity, err := decimal.NewFromString(c.quantity)
	if c.account == "" || err != nil {
		fmt.Fprintln(os.Stderr, "-a and a numeric -q are required")
		return subcommands.ExitUsageError
	}

	ctx = withLogger(ctx)
	_, svc, closeFn, err := openServices(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	account, err := svc.Account.GetAccountByID(ctx, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	props, err := svc.Investment.GetInvestmentProperties(ctx, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	cost, err := svc.Investment.CalculateCostBasis(ctx, c.account, quantity)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s\t%s shares (%s)\t%s\n", props.TickerSymbol, quantity, props.CostBasisMethod, utils.FormatAmount(cost, account.CurrencyCode))
	return subcommands.ExitSuccess
}
