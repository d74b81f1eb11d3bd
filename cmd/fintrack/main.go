package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"fintrack/internal/analytics"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/currency"
	"fintrack/internal/gateway"
	applog "fintrack/internal/log"
	"fintrack/internal/session"
	"fintrack/internal/store"
)

const usage = `Usage: fintrack <command> [flags]

Commands:
  register      create an account
  login         authenticate and persist the session
  logout        forget the persisted session
  whoami        show the current user
  list          list transactions
  summary       show income, expenses and balance
  breakdown     show per-category totals
  add           add a transaction
  delete        delete a transaction by id
  import        upload a bank statement for extraction
  set-currency  change the preferred display currency
`

type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	sessions *session.SQLiteStore
	auth     *store.AuthStore
	txs      *store.TransactionStore
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()

	logger := applog.New(applog.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sessions, err := session.OpenSQLite(cfg.SessionDBPath)
	if err != nil {
		logger.Error("Failed to open session store", "error", err, "path", cfg.SessionDBPath)
		os.Exit(1)
	}
	defer sessions.Close()

	client := gateway.NewClient(cfg.APIBaseURL, gateway.Options{
		Tokens: sessions,
		OnUnauthorized: func() {
			// The token was rejected; drop the stale session so the next
			// command prompts for a fresh login.
			if err := sessions.Clear(context.Background()); err != nil {
				logger.Warn("Failed to clear session", "error", err)
			}
		},
		Logger:   logger,
		CacheTTL: cfg.CacheTTL,
	})

	a := &app{
		cfg:      cfg,
		logger:   logger,
		sessions: sessions,
		auth:     store.NewAuthStore(client, sessions, logger),
		txs:      store.NewTransactionStore(client, logger),
	}

	if err := a.auth.InitializeSession(ctx); err != nil {
		logger.Warn("Failed to restore session", "error", err)
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if msg := a.txs.Err(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		} else if msg := a.auth.Err(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.auth.Logout(ctx)
	case "whoami":
		return a.whoami()
	case "list":
		return a.list(ctx, args)
	case "summary":
		return a.summary(ctx)
	case "breakdown":
		return a.breakdown(ctx)
	case "add":
		return a.add(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "import":
		return a.importStatement(ctx, args)
	case "set-currency":
		return a.setCurrency(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "account username")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	code := fs.String("currency", "", "preferred display currency (default "+currency.DefaultCode+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	err := a.auth.Register(ctx, gateway.RegisterRequest{
		Username:          *username,
		Email:             *email,
		Password:          *password,
		PreferredCurrency: *code,
	})
	if err != nil {
		return err
	}
	fmt.Println("Account created. Run `fintrack login` to sign in.")
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.auth.Login(ctx, gateway.LoginRequest{Email: *email, Password: *password}); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", a.auth.User().Username)
	return nil
}

func (a *app) whoami() error {
	user := a.auth.User()
	if user == nil {
		return gateway.ErrNotAuthenticated
	}
	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	fmt.Printf("Preferred currency: %s\n", a.auth.PreferredCurrency())
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", a.cfg.PageLimit, "transactions per page")
	txType := fs.String("type", "", "filter by type (Income or Expense)")
	category := fs.String("category", "", "filter by category")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID := a.auth.UserID()
	if userID == "" {
		return gateway.ErrNotAuthenticated
	}
	if *page < 1 {
		*page = 1
	}

	filters := core.Filters{
		UserID: userID,
		Limit:  *limit,
		Skip:   (*page - 1) * *limit,
		Type:   core.TransactionType(*txType),
	}
	if err := a.txs.FetchTransactions(ctx, filters); err != nil {
		return err
	}
	shown := a.txs.Transactions()
	if *category != "" {
		shown = analytics.FilterByCategories(shown, []string{*category})
	}

	code := a.auth.PreferredCurrency()
	for _, tx := range shown {
		amount := currency.FormatSimple(tx.Amount, code)
		if tx.Type == core.Expense {
			amount = "-" + amount
		}
		fmt.Printf("%-26s %-12s %-20s %12s  %s\n", tx.ID, tx.Date, tx.Category, amount, tx.Description)
	}
	p := a.txs.Pagination()
	fmt.Printf("Page %d of %d (%d transactions)\n", p.Page, p.Pages, p.Total)
	return nil
}

func (a *app) summary(ctx context.Context) error {
	userID := a.auth.UserID()
	if userID == "" {
		return gateway.ErrNotAuthenticated
	}
	if err := a.txs.FetchSummary(ctx, userID); err != nil {
		return err
	}

	s := a.txs.Summary()
	code := a.auth.PreferredCurrency()
	fmt.Printf("Income:   %s\n", currency.Format(s.TotalIncome, code))
	fmt.Printf("Expenses: %s\n", currency.Format(s.TotalExpense, code))
	fmt.Printf("Balance:  %s\n", currency.Format(s.Balance, code))
	fmt.Printf("Count:    %d\n", s.TransactionCount)
	return nil
}

func (a *app) breakdown(ctx context.Context) error {
	userID := a.auth.UserID()
	if userID == "" {
		return gateway.ErrNotAuthenticated
	}
	if err := a.txs.FetchByCategory(ctx, userID); err != nil {
		return err
	}

	byCategory := a.txs.ByCategory()
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	code := a.auth.PreferredCurrency()
	for _, name := range names {
		totals := byCategory[name]
		fmt.Printf("%-20s income %12s  expense %12s  (%d)\n",
			name,
			currency.FormatSimple(totals.Income, code),
			currency.FormatSimple(totals.Expense, code),
			totals.Count)
	}
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	txType := fs.String("type", string(core.Expense), "Income or Expense")
	amount := fs.String("amount", "", "amount, e.g. 42.50")
	category := fs.String("category", "", "one of: "+fmt.Sprint(core.Categories()))
	date := fs.String("date", "", "calendar date (YYYY-MM-DD), defaults to today")
	description := fs.String("description", "", "optional description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID := a.auth.UserID()
	if userID == "" {
		return gateway.ErrNotAuthenticated
	}

	draft := core.TransactionDraft{
		UserID:      userID,
		Type:        core.TransactionType(*txType),
		Amount:      currency.Parse(*amount),
		Category:    *category,
		Date:        *date,
		Description: *description,
	}
	if err := a.txs.CreateTransaction(ctx, draft); err != nil {
		return err
	}
	fmt.Println("Transaction recorded.")
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: fintrack delete <transaction-id>")
	}
	if a.auth.UserID() == "" {
		return gateway.ErrNotAuthenticated
	}
	if err := a.txs.DeleteTransaction(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("Transaction deleted.")
	return nil
}

func (a *app) importStatement(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: fintrack import <statement.pdf>")
	}
	if a.auth.UserID() == "" {
		return gateway.ErrNotAuthenticated
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	if err := a.txs.ImportStatement(ctx, filepath.Base(args[0]), f); err != nil {
		return err
	}
	fmt.Println("Statement uploaded; extracted transactions will appear shortly.")
	return nil
}

func (a *app) setCurrency(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Available currencies:")
		for _, opt := range currency.Options() {
			fmt.Printf("  %s  %s\n", opt.Code, opt.Label)
		}
		return fmt.Errorf("usage: fintrack set-currency <code>")
	}
	if err := a.auth.UpdatePreferredCurrency(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Preferred currency set to %s\n", a.auth.PreferredCurrency())
	return nil
}
