package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/hr-employee-service/internal/adapters/eligibility"
	"github.com/ogurasousui/hr-employee-service/internal/adapters/grpc/handler"
	"github.com/ogurasousui/hr-employee-service/internal/adapters/repository/postgres"
	"github.com/ogurasousui/hr-employee-service/internal/core/employee"
	"github.com/ogurasousui/hr-employee-service/internal/core/promotion"
	"github.com/ogurasousui/hr-employee-service/internal/platform/config"
	pg "github.com/ogurasousui/hr-employee-service/internal/platform/db/postgres"
	"github.com/ogurasousui/hr-employee-service/internal/platform/logger"
	"github.com/ogurasousui/hr-employee-service/internal/platform/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, configPath string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load(config.EffectivePath(configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	appLogger, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog()
	ctx = appLogger.WithContext(ctx)

	dbPool, err := pg.NewPool(ctx, cfg.Database, appLogger)
	if err != nil {
		return fmt.Errorf("init database pool: %w", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)
	courseRepo := postgres.NewCourseRepository(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)

	factory, err := employee.NewFactory(employee.FactoryOptions{
		StartingSalary:    cfg.HR.StartingSalary,
		RequireAgencyName: cfg.HR.RequireAgencyName,
	})
	if err != nil {
		return fmt.Errorf("init employee factory: %w", err)
	}

	employeeSvc := employee.NewService(employeeRepo, courseRepo, factory, employee.Policy{MinimumRaise: cfg.HR.MinimumRaise}, nil, txManager)
	unsubscribe := employeeSvc.SubscribeAbsence(logAbsence(appLogger))
	defer unsubscribe()

	eligibilityClient, err := eligibility.NewClient(cfg.Eligibility.BaseURL, &http.Client{Timeout: cfg.Eligibility.Timeout})
	if err != nil {
		return fmt.Errorf("init eligibility client: %w", err)
	}
	promotionSvc := promotion.NewService(eligibilityClient, employeeRepo, txManager)

	grpcServer := server.New(cfg.Server.ListenAddr, appLogger, handler.NewEmployeeGrpcHandler(employeeSvc, promotionSvc, courseRepo))

	appLogger.Info().
		Str("listen_addr", cfg.Server.ListenAddr).
		Str("eligibility_base_url", cfg.Eligibility.BaseURL).
		Msg("gRPC server listening")

	return grpcServer.Run(ctx)
}

func logAbsence(l zerolog.Logger) employee.AbsenceListener {
	return func(evt employee.AbsenceEvent) error {
		kind := "internal"
		if _, ok := evt.Employee.(*employee.ExternalEmployee); ok {
			kind = "external"
		}
		l.Info().
			Str("employee_id", evt.Employee.EmployeeID().String()).
			Str("employee", evt.Employee.FullName()).
			Str("kind", kind).
			Time("occurred_at", evt.OccurredAt).
			Msg("employee absence notified")
		return nil
	}
}
