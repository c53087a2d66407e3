package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/warp/paycheck/budget"
	"github.com/warp/paycheck/config"
	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/identity"
	"github.com/warp/paycheck/store"
)

// app is the state shared by all commands of one invocation.
type app struct {
	out io.Writer

	flagConfig  string
	flagToken   string
	flagStore   string
	flagVerbose bool

	cfg   config.Config
	log   *logrus.Logger
	store store.Store
	svc   *budget.Service
	user  generic.UserID
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "paycheck",
		Short:         "Budget until the next payday",
		Long:          "Track recurring expenses against projected net pay and see what is left until payday.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	root.PersistentFlags().StringVar(&a.flagConfig, "config", "", "Config file (default ~/.config/paycheck/config.toml)")
	root.PersistentFlags().StringVar(&a.flagToken, "token", os.Getenv("PAYCHECK_TOKEN"), "Bearer token to act as a signed-in user")
	root.PersistentFlags().StringVar(&a.flagStore, "store", "", "Store driver override: sqlite, jsonfile or memory")
	root.PersistentFlags().BoolVarP(&a.flagVerbose, "verbose", "v", false, "Log at the configured level instead of warnings only")

	root.AddCommand(
		newNetPayCmd(a),
		newPaydaysCmd(a),
		newTimelineCmd(a),
		newExpenseCmd(a),
		newIncomeCmd(a),
		newTokenCmd(a),
	)
	return root
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.flagConfig)
	if err != nil {
		return err
	}
	if a.flagStore != "" {
		cfg.Store.Driver = a.flagStore
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	cfg.Log.Format = "text"
	log, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return err
	}
	if !a.flagVerbose && log.GetLevel() > logrus.WarnLevel {
		log.SetLevel(logrus.WarnLevel)
	}

	a.cfg = cfg
	a.log = log
	return nil
}

// open connects to the store and resolves the acting user. Callers defer
// close.
func (a *app) open() error {
	st, err := store.Open(a.cfg.Store)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	a.store = st
	a.svc = budget.NewService(st, a.cfg.Projector(), a.log)

	user, err := a.signIn()
	if err != nil {
		a.close()
		return err
	}
	a.user = user
	a.log.WithField("user", user).Debug("Acting user resolved")
	return nil
}

// signIn resolves --token through the identity provider. No token means
// the anonymous budget.
func (a *app) signIn() (generic.UserID, error) {
	if a.flagToken == "" {
		return generic.AnonymousUser, nil
	}

	var verifier *identity.Verifier
	if a.cfg.Auth.JWTSecret != "" {
		v, err := identity.NewVerifier(a.cfg.Auth.JWTSecret)
		if err != nil {
			return "", err
		}
		verifier = v
	}

	provider := identity.NewProvider(verifier, a.log)
	provider.SignIn(a.flagToken)
	provider.Wait()

	state := provider.State()
	if !state.SignedIn {
		return "", fmt.Errorf("sign-in failed: %w", state.Err)
	}
	return state.Identity.ID, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func (a *app) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
