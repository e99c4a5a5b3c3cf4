package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	ledgerAdapter "github.com/iho/walletflow/internal/adapter/ledger"
	"github.com/iho/walletflow/internal/adapter/stripe"
	"github.com/iho/walletflow/internal/domain"
	"github.com/iho/walletflow/internal/infrastructure/config"
	"github.com/iho/walletflow/internal/infrastructure/idgen"
	"github.com/iho/walletflow/internal/infrastructure/logger"
	"github.com/iho/walletflow/internal/infrastructure/metrics"
	"github.com/iho/walletflow/internal/usecase"
)

// app wires the orchestrators for one CLI invocation. Each invocation is
// one wallet session: one gate, one view, fresh keys per action.
type app struct {
	cfg      *config.Config
	ledger   *ledgerAdapter.Client
	deposits *usecase.DepositUseCase
	transfer *usecase.TransferUseCase
	view     *usecase.AccountView
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "wallet",
	})

	client := ledgerAdapter.NewClient(cfg.LedgerBaseURL, cfg.Currency, cfg.LedgerTimeout, log)

	var confirmer usecase.CardConfirmer
	if cfg.StripePublishableKey != "" {
		c, err := stripe.NewConfirmer(cfg.StripePublishableKey, cfg.StripeAPIBaseURL, cfg.LedgerTimeout, log)
		if err != nil {
			return nil, err
		}
		confirmer = c
	}

	m := metrics.New()
	keys := idgen.NewULIDFactory()
	gate := usecase.NewActionGate()
	view := usecase.NewAccountView(client, m, cfg.ListLimit)

	return &app{
		cfg:      cfg,
		ledger:   client,
		deposits: usecase.NewDepositUseCase(client, confirmer, keys, view, gate, m, log),
		transfer: usecase.NewTransferUseCase(client, keys, view, gate, m, log),
		view:     view,
	}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "wallet",
		Short:         "Wallet client for the ledger service",
		Long:          `A command line wallet talking to the ledger service: accounts, deposits (simulated or card-confirmed) and peer transfers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(accountCmd(), depositCmd(), transferCmd(), transactionsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var email, name string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account, or fetch the existing one for the email",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			account, err := a.ledger.CreateOrFetchAccount(cmd.Context(), email, name)
			if err != nil {
				return err
			}
			fmt.Printf("Account %d (%s): %s\n", account.AccountID, account.Currency, domain.FormatCents(account.BalanceCents))
			return nil
		},
	}
	createCmd.Flags().StringVar(&email, "email", "", "account email (required)")
	createCmd.Flags().StringVar(&name, "name", "", "display name")
	createCmd.MarkFlagRequired("email")

	getCmd := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := parseAccountID(args[0])
			if err != nil {
				return err
			}
			account, err := a.ledger.GetAccount(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Account %d (%s): %s\n", account.AccountID, account.Currency, domain.FormatCents(account.BalanceCents))
			return nil
		},
	}

	cmd.AddCommand(createCmd, getCmd)
	return cmd
}

func depositCmd() *cobra.Command {
	var card bool
	cmd := &cobra.Command{
		Use:   "deposit <account-id> <amount>",
		Short: "Deposit funds, e.g. wallet deposit 1 25.00",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := parseAccountID(args[0])
			if err != nil {
				return err
			}
			cents, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			if card {
				return cardDeposit(cmd.Context(), a, id, cents)
			}

			receipt, err := a.deposits.Simulate(cmd.Context(), id, cents)
			if err != nil {
				return err
			}
			fmt.Printf("Deposited %s, transaction %d, new balance %s\n",
				domain.FormatCents(cents), receipt.TransactionID, domain.FormatCents(receipt.NewBalanceCents))
			return nil
		},
	}
	cmd.Flags().BoolVar(&card, "card", false, "confirm through the card network instead of simulating")
	return cmd
}

// cardDeposit drives the full handshake: intent, confirmation, credit.
// A failed credit after confirmation is reported as pending rather than
// failed; resubmitting the command is the recovery path.
func cardDeposit(ctx context.Context, a *app, accountID, cents int64) error {
	card, err := a.deposits.BeginCard(ctx, accountID, cents)
	if err != nil {
		return err
	}

	if err := card.Confirm(ctx); err != nil {
		abandonQuietly(card)
		return err
	}

	receipt, err := card.CreditWithRetry(ctx, 30*time.Second)
	if err != nil {
		var gap *domain.ReconciliationGapError
		if errors.As(err, &gap) {
			return fmt.Errorf("card payment confirmed but not yet credited (intent %s, %s); run the deposit again to resubmit: %w",
				gap.IntentID, domain.FormatCents(gap.AmountCents), err)
		}
		return err
	}

	fmt.Printf("Card deposit credited, transaction %d, new balance %s\n",
		receipt.TransactionID, domain.FormatCents(receipt.NewBalanceCents))
	return nil
}

func abandonQuietly(card *usecase.CardDeposit) {
	// Best effort; Abandon refuses only when a credit is pending, and
	// that path never reaches here.
	_ = card.Abandon()
}

func transferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <from-account-id> <recipient-email> <amount>",
		Short: "Send funds to another user by email",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			from, err := parseAccountID(args[0])
			if err != nil {
				return err
			}
			cents, err := parseAmount(args[2])
			if err != nil {
				return err
			}

			receipt, err := a.transfer.SendByEmail(cmd.Context(), from, args[1], cents)
			if err != nil {
				return err
			}
			fmt.Printf("Sent %s to account %d (group %s), your balance %s\n",
				domain.FormatCents(cents), receipt.RecipientAccountID,
				receipt.TransferGroupID, domain.FormatCents(receipt.FromBalanceCents))
			return nil
		},
	}
}

func transactionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transactions <account-id>",
		Short: "List recent transactions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := parseAccountID(args[0])
			if err != nil {
				return err
			}
			if err := a.view.Refresh(cmd.Context(), id); err != nil {
				return err
			}

			items := a.view.Transactions()
			if len(items) == 0 {
				fmt.Println("No transactions.")
				return nil
			}
			for _, item := range items {
				group := ""
				if item.TransferGroupID != "" {
					group = " group=" + item.TransferGroupID
				}
				fmt.Printf("%-6d %-13s %-8s %10s%s\n",
					item.ID, item.Type, item.Status, domain.FormatCents(item.AmountCents), group)
			}
			return nil
		},
	}
}

func parseAccountID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: account id %q", domain.ErrValidation, s)
	}
	return id, nil
}

// parseAmount converts a decimal dollar amount ("25.00") to cents.
func parseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q", domain.ErrValidation, s)
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: amount %q has sub-cent precision", domain.ErrValidation, s)
	}
	return cents.IntPart(), nil
}
