package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/nurpe/market-leases/internal/auth"
	"github.com/nurpe/market-leases/internal/cache"
	"github.com/nurpe/market-leases/internal/config"
	"github.com/nurpe/market-leases/internal/db"
	"github.com/nurpe/market-leases/internal/excel"
	httphandler "github.com/nurpe/market-leases/internal/http"
	"github.com/nurpe/market-leases/internal/http/middleware"
	"github.com/nurpe/market-leases/internal/logger"
	"github.com/nurpe/market-leases/internal/money"
	"github.com/nurpe/market-leases/internal/pdf"
	"github.com/nurpe/market-leases/internal/repository"
	"github.com/nurpe/market-leases/internal/service"
)

const shutdownTimeout = 10 * time.Second

// app holds what every subcommand needs; it is filled by the root PersistentPreRunE.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	database *gorm.DB
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "market-leases",
		Short:         "Market stall lease administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cfg = cfg
			a.log = logger.New(cfg.Environment)

			database, err := db.New(cfg, a.log)
			if err != nil {
				return fmt.Errorf("failed to connect database: %w", err)
			}
			a.database = database
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run migrations and start the web server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				return db.Migrate(a.database, a.log)
			},
		},
		a.createUserCmd(),
	)
	return root
}

func (a *app) createUserCmd() *cobra.Command {
	var input service.NewUserInput
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.Migrate(a.database, a.log); err != nil {
				return err
			}
			users := service.NewAuthService(repository.NewUserRepository(a.database), auth.NewBcryptHasher(), nil)
			user, err := users.CreateUser(cmd.Context(), input)
			if err != nil {
				if ve, ok := service.AsValidation(err); ok {
					return fmt.Errorf("invalid user: %v", ve.Messages())
				}
				return err
			}
			a.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Str("role", string(user.Role)).Msg("user created")
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Username, "username", "", "login name")
	cmd.Flags().StringVar(&input.Password, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&input.FullName, "full-name", "", "name shown in the navigation bar")
	cmd.Flags().StringVar(&input.Role, "role", "operator", "admin or operator")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg, log := a.cfg, a.log
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(a.database, log); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	principalCache := cache.Connect(ctx, cfg.Redis, log)
	defer principalCache.Close()

	awardeeRepo := repository.NewAwardeeRepository(a.database)
	fiscalYearRepo := repository.NewFiscalYearRepository(a.database)
	categoryRepo := repository.NewCategoryRepository(a.database)
	locationRepo := repository.NewLocationRepository(a.database)
	userRepo := repository.NewUserRepository(a.database)
	excelGenerator := excel.NewGenerator()

	services := httphandler.Services{
		Auth:          service.NewAuthService(userRepo, auth.NewBcryptHasher(), principalCache),
		Awardees:      service.NewAwardeeService(awardeeRepo),
		FiscalYears:   service.NewFiscalYearService(fiscalYearRepo),
		CashRegisters: service.NewCashRegisterService(repository.NewCashRegisterRepository(a.database), userRepo),
		Categories:    service.NewCategoryService(categoryRepo),
		Zones:         service.NewZoneService(locationRepo),
		Contracts: service.NewContractService(
			repository.NewContractRepository(a.database),
			repository.NewPaymentRepository(a.database),
			awardeeRepo,
			fiscalYearRepo,
			categoryRepo,
			locationRepo,
		),
		ExchangeRates: service.NewExchangeRateService(repository.NewExchangeRateRepository(a.database)),
		Reports:       service.NewReportService(repository.NewReportRepository(a.database), excelGenerator),
	}

	formatter := money.NewFormatter(cfg.UI.CurrencyLocale)
	tokens := auth.NewTokenManager(cfg.Session.Secret, cfg.Session.TTL)
	handler := httphandler.NewHandler(services, httphandler.Options{
		Tokens:   tokens,
		Session:  cfg.Session,
		Money:    formatter,
		Excel:    excelGenerator,
		PDF:      pdf.NewGenerator(formatter),
		PageSize: cfg.UI.PageSize,
	}, log)

	authMiddleware := middleware.Auth(tokens, services.Auth, log)
	router, err := httphandler.NewRouter(handler, authMiddleware, cfg.HTTP, cfg.Environment, log)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Environment).Msg("starting market leases service")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
