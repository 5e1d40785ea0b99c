package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"bilans/internal/amqp"
	"bilans/internal/api"
	"bilans/internal/config"
	"bilans/internal/core"
	"bilans/internal/log"
	"bilans/internal/session"
	"bilans/internal/snapshot"
	"bilans/internal/stats"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: slog.LevelWarn, Component: log.ComponentApp})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	store := api.New(cfg.StoreURL, cfg.HTTPTimeout)

	var publisher session.ChangePublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, running without change publishing", log.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
		}
	}

	var snapshots session.SnapshotStore
	if cfg.SnapshotDBPath != "" {
		local, err := snapshot.New(cfg.SnapshotDBPath, logger)
		if err != nil {
			logger.Warn("Snapshot store unavailable", log.FieldError, err)
		} else {
			defer local.Close()
			snapshots = local
		}
	}

	dash := session.NewDashboardWithCache(store, publisher, snapshots, logger, cfg.StatsCacheSize, cfg.StatsCacheTTL)
	expenses := session.NewExpenseEditList(dash, logger)
	incomes := session.NewIncomeList(dash)

	ctx := context.Background()
	if err := dash.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "store unreachable: %v\n", err)
		if restoreErr := dash.RestoreSnapshot(ctx); restoreErr != nil {
			fmt.Fprintf(os.Stderr, "no local snapshot either: %v\n", restoreErr)
			os.Exit(1)
		}
		fmt.Println("showing last-known figures from the local snapshot")
	}

	app := &app{dash: dash, expenses: expenses, incomes: incomes}
	app.printSummary()
	app.run(ctx)
}

type app struct {
	dash     *session.Dashboard
	expenses *session.ExpenseEditList
	incomes  *session.IncomeList
}

func (a *app) run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println(`type "help" for commands`)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		var err error
		switch cmd {
		case "quit", "exit":
			return
		case "help":
			a.printHelp()
		case "summary":
			a.printSummary()
		case "years":
			fmt.Println(strings.Join(a.dash.Years(), " "))
		case "filter":
			err = a.setFilter(ctx, args)
		case "all":
			err = a.dash.SetFilter(ctx, stats.Everything())
		case "refresh":
			err = a.dash.Refresh(ctx)
		case "list":
			a.printExpenses()
		case "search":
			a.expenses.SetSearchQuery(strings.Join(args, " "))
			a.printExpenses()
		case "cat":
			err = a.setCategoryScope(args)
		case "next":
			all, _ := a.expenses.Rows()
			a.expenses.Pager().Next(len(all))
			a.printExpenses()
		case "prev":
			a.expenses.Pager().Prev()
			a.printExpenses()
		case "add":
			err = a.addExpense(ctx, args)
		case "edit":
			err = a.startEdit(args)
		case "set":
			err = a.setField(args)
		case "save":
			err = a.expenses.Save(ctx)
		case "cancel":
			a.expenses.Cancel()
		case "del":
			err = a.deleteExpense(ctx, args)
		case "incomes":
			a.printIncomes()
		case "addinc":
			err = a.addIncome(ctx, args)
		case "delinc":
			err = a.deleteIncome(ctx, args)
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

func (a *app) printHelp() {
	fmt.Println(`summary                          totals for the active filter
years                            selectable years
filter <year> [month]            scope to a year or a month
all                              clear the filter
refresh                          refetch from the store
list | next | prev               page through expenses
search [text]                    narrow expenses by title (no text clears)
cat [category]                   narrow expenses by category (none clears)
add <title> <amount> <date> <category>
edit <id>                        start editing a row
set <field> <value...>           change a draft field (title, amount, date, category)
save | cancel                    finish or abandon the edit
del <id>                         delete an expense
incomes                          list incomes
addinc <source> <amount> <date>  add an income
delinc <id>                      delete an income
quit`)
}

func (a *app) printSummary() {
	s := a.dash.Summary()
	filter := a.dash.Filter()
	fmt.Printf("filter:   %s\n", filter.String())
	fmt.Printf("expenses: %s\n", s.TotalExpenses)
	fmt.Printf("income:   %s (salary %s)\n", s.TotalIncome, s.TotalSalaryIncome)
	fmt.Printf("net:      %s\n", s.NetBalance)
	for _, share := range s.Breakdown {
		fmt.Printf("  %-14s %10s  %5.1f%%\n", share.Category, share.Value, share.Percentage)
	}
}

func (a *app) printExpenses() {
	all, page := a.expenses.Rows()
	for _, e := range page {
		marker := " "
		if a.expenses.Editing() == e.ID {
			marker = "*"
		}
		fmt.Printf("%s %4d  %s  %-24s %10s  %s\n", marker, e.ID, core.TruncateDate(e.Date), e.Title, e.Amount, e.Category)
	}
	fmt.Printf("page %d/%d (%d rows)\n", a.expenses.Pager().Page(), a.expenses.Pager().TotalPages(len(all)), len(all))
}

func (a *app) printIncomes() {
	all, page := a.incomes.Rows()
	for _, in := range page {
		fmt.Printf("  %4d  %s  %-24s %10s\n", in.ID, core.TruncateDate(in.Date), in.Source, in.Amount)
	}
	fmt.Printf("page %d/%d (%d rows)\n", a.incomes.Pager().Page(), a.incomes.Pager().TotalPages(len(all)), len(all))
}

func (a *app) setCategoryScope(args []string) error {
	if len(args) == 0 {
		a.expenses.SetCategoryScope("")
		a.printExpenses()
		return nil
	}
	category, err := core.ParseCategory(args[0])
	if err != nil {
		return err
	}
	a.expenses.SetCategoryScope(category)
	a.printExpenses()
	return nil
}

func (a *app) setFilter(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: filter <year> [month]")
	}
	filter := stats.Filter{Year: args[0], Month: stats.All}
	if len(args) > 1 {
		filter.Month = args[1]
	}
	return a.dash.SetFilter(ctx, filter)
}

func (a *app) addExpense(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: add <title> <amount> <date> <category>")
	}
	// Title may span several words; amount, date and category are the
	// trailing three arguments.
	n := len(args)
	draft := core.ExpenseDraft{
		Title:    strings.Join(args[:n-3], " "),
		Amount:   args[n-3],
		Date:     args[n-2],
		Category: args[n-1],
	}
	return a.dash.CreateExpense(ctx, draft)
}

func (a *app) addIncome(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: addinc <source> <amount> <date>")
	}
	n := len(args)
	draft := core.IncomeDraft{
		Source: strings.Join(args[:n-2], " "),
		Amount: args[n-2],
		Date:   args[n-1],
	}
	return a.dash.CreateIncome(ctx, draft)
}

func (a *app) startEdit(args []string) error {
	id, err := parseID(args, "edit <id>")
	if err != nil {
		return err
	}
	return a.expenses.Edit(id)
}

func (a *app) setField(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set <field> <value...>")
	}
	draft := a.expenses.Draft()
	value := strings.Join(args[1:], " ")
	switch args[0] {
	case "title":
		draft.Title = value
	case "amount":
		draft.Amount = value
	case "date":
		draft.Date = value
	case "category":
		draft.Category = value
	default:
		return fmt.Errorf("unknown field %q", args[0])
	}
	return a.expenses.SetDraft(draft)
}

func (a *app) deleteExpense(ctx context.Context, args []string) error {
	id, err := parseID(args, "del <id>")
	if err != nil {
		return err
	}
	return a.expenses.Delete(ctx, id)
}

func (a *app) deleteIncome(ctx context.Context, args []string) error {
	id, err := parseID(args, "delinc <id>")
	if err != nil {
		return err
	}
	return a.incomes.Delete(ctx, id)
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}
