//go:build integration

package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/poofware/liquidation-service/internal/app"
	"github.com/poofware/liquidation-service/internal/config"
	"github.com/poofware/liquidation-service/internal/repositories"
	"github.com/poofware/liquidation-service/internal/services"
	"github.com/poofware/liquidation-service/internal/utils"
)

// Shared across all integration tests in this package. Requires a
// reachable Postgres at DB_URL; run with:
//
//	go test -tags integration ./internal/integration/...
var (
	pool *pgxpool.Pool

	ownerRepo   repositories.OwnerRepository
	unitRepo    repositories.UnitRepository
	leaseRepo   repositories.LeaseRepository
	mandateRepo repositories.MandateRepository
	chargeRepo  repositories.ChargeRepository
	liqRepo     repositories.LiquidationRepository

	ledgerSvc *services.LedgerService
	liqSvc    *services.LiquidationService
)

func TestMain(m *testing.M) {
	utils.InitLogger(config.AppName + "-integration")

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL env var is required for integration tests")
	}

	ctx := context.Background()
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatalf("invalid DB_URL: %v", err)
	}
	pool, err = pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	if err := app.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	ownerRepo = repositories.NewOwnerRepository(pool)
	unitRepo = repositories.NewUnitRepository(pool)
	leaseRepo = repositories.NewLeaseRepository(pool)
	mandateRepo = repositories.NewMandateRepository(pool)
	chargeRepo = repositories.NewChargeRepository(pool)
	liqRepo = repositories.NewLiquidationRepository(pool)

	calc := services.NewCalculatorService(ownerRepo, unitRepo, leaseRepo, mandateRepo, chargeRepo)
	ledgerSvc = services.NewLedgerService(ownerRepo, unitRepo, leaseRepo, mandateRepo, chargeRepo)
	liqSvc = services.NewLiquidationService(calc, ownerRepo, liqRepo)

	code := m.Run()
	pool.Close()
	os.Exit(code)
}
