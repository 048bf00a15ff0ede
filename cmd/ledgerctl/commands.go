package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/mhyu96-glitch/finance-app/internal/domain"
	"github.com/mhyu96-glitch/finance-app/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type processCmd struct{}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "materialize recurring commitments that have fallen due" }
func (*processCmd) Usage() string {
	return `ledgerctl process

  Advances every due recurring commitment by at most one period per
  run: records its transaction, applies it to the account balance and
  moves the commitment forward. Finished installment plans are removed.
  Run it again to catch up further missed periods.
`
}
func (*processCmd) SetFlags(*flag.FlagSet) {}

func (*processCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, closeFn, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	recurring := service.NewRecurringService(store)
	added, err := recurring.ProcessDueNow()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error processing commitments: %v\n", err)
		return subcommands.ExitFailure
	}
	if !added {
		fmt.Println("nothing due")
		return subcommands.ExitSuccess
	}
	fmt.Printf("processed, %d commitments remain\n", len(recurring.GetRecurring()))
	return subcommands.ExitSuccess
}

type totalsCmd struct {
	json bool
}

func (*totalsCmd) Name() string     { return "totals" }
func (*totalsCmd) Synopsis() string { return "print income, expense, balance and net worth" }
func (*totalsCmd) Usage() string {
	return `ledgerctl totals [-json]

  Prints the aggregates over the whole transaction history in the display
  currency.
`
}

func (p *totalsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.json, "json", false, "Print the raw totals as JSON.")
}

func (p *totalsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, closeFn, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	totals := service.NewCalculationService(store).GetTotals()
	if p.json {
		if err := writeJSON(os.Stdout, totals); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	printTotals(os.Stdout, totals, service.NewCurrencyService(store).Format)
	return subcommands.ExitSuccess
}

func printTotals(w io.Writer, t domain.Totals, format func(decimal.Decimal) string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Income", t.Income},
		{"Expense", t.Expense},
		{"Debt taken", t.TotalDebtTaken},
		{"Receivable given", t.TotalReceivableGiven},
		{"Active debt", t.ActiveDebt},
		{"Active receivable", t.ActiveReceivable},
		{"Real balance", t.RealBalance},
		{"Investments", t.TotalInvestments},
		{"Net worth", t.NetWorth},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t\n", r.label, format(r.value))
	}
	tw.Flush()
}

type healthCmd struct{}

func (*healthCmd) Name() string     { return "health" }
func (*healthCmd) Synopsis() string { return "print the financial health score" }
func (*healthCmd) Usage() string {
	return `ledgerctl health

  Prints the 0-100 health score and the savings, budget compliance and
  commitment sub-scores it is blended from.
`
}
func (*healthCmd) SetFlags(*flag.FlagSet) {}

func (*healthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, closeFn, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	hb := service.NewCalculationService(store).GetHealthBreakdown()
	fmt.Printf("Score: %d\n", hb.Score)
	fmt.Printf("  savings rate     %s%%\n", hb.SavingsRate.Mul(decimal.NewFromInt(100)).StringFixed(1))
	fmt.Printf("  savings          %s\n", hb.SavingsScore.StringFixed(0))
	fmt.Printf("  compliance       %s\n", hb.ComplianceScore.StringFixed(0))
	fmt.Printf("  commitments      %s\n", hb.CommitmentScore.StringFixed(0))
	return subcommands.ExitSuccess
}

type budgetsCmd struct {
	notify bool
}

func (*budgetsCmd) Name() string     { return "budgets" }
func (*budgetsCmd) Synopsis() string { return "print this month's spending against each budget" }
func (*budgetsCmd) Usage() string {
	return `ledgerctl budgets [-notify]

  Lists every budget with the current month's expense total, remaining
  amount and utilization.
`
}

func (p *budgetsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.notify, "notify", false, "Also print the warnings and alerts a budget check raises.")
}

func (p *budgetsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, closeFn, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	budgets := service.NewBudgetService(store)
	format := service.NewCurrencyService(store).Format

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tSPENT\tLIMIT\tUSED\t")
	for _, s := range budgets.GetBudgetStatuses() {
		marker := ""
		if s.Exceeded {
			marker = " !"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%%s\t\n", s.Budget.Category, format(s.Spent), format(s.Budget.Limit), s.Utilization.StringFixed(0), marker)
	}
	tw.Flush()

	if p.notify {
		unsubscribe := store.Subscribe(func(n domain.Notification) {
			fmt.Printf("[%s] %s: %s\n", n.Severity, n.Title, n.Message)
		})
		budgets.CheckBudgets()
		unsubscribe()
	}
	return subcommands.ExitSuccess
}

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the ledger as a backup document" }
func (*exportCmd) Usage() string {
	return `ledgerctl export [-o <file>]

  Writes the full ledger in the backup format, to stdout by default.
`
}

func (p *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.output, "o", "", "Write to this file instead of stdout.")
}

func (p *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, closeFn, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	data, err := service.NewBackupService(store, nil, log.Logger).Export()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}

	if p.output == "" {
		os.Stdout.Write(data)
		fmt.Println()
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(p.output, data, 0o600); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the ledger with a backup document" }
func (*importCmd) Usage() string {
	return `ledgerctl import <file>

  Replaces every collection with the contents of the backup. Settings
  other than the savings goal are kept.
`
}
func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	store, closeFn, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	if err := service.NewBackupService(store, nil, log.Logger).Import(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	fmt.Printf("imported %s\n", f.Arg(0))
	return subcommands.ExitSuccess
}
