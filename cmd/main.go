package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/poofware/liquidation-service/internal/app"
	"github.com/poofware/liquidation-service/internal/config"
	"github.com/poofware/liquidation-service/internal/controllers"
	"github.com/poofware/liquidation-service/internal/repositories"
	"github.com/poofware/liquidation-service/internal/routes"
	"github.com/poofware/liquidation-service/internal/services"
	"github.com/poofware/liquidation-service/internal/utils"
	"github.com/rs/cors"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize liquidation-service:", err)
	}
	defer application.Close()

	// Repositories
	ownerRepo := repositories.NewOwnerRepository(application.DB)
	unitRepo := repositories.NewUnitRepository(application.DB)
	leaseRepo := repositories.NewLeaseRepository(application.DB)
	mandateRepo := repositories.NewMandateRepository(application.DB)
	chargeRepo := repositories.NewChargeRepository(application.DB)
	liqRepo := repositories.NewLiquidationRepository(application.DB)

	if cfg.SeedDB {
		if err := app.SeedTestData(context.Background(), ownerRepo, unitRepo, leaseRepo, mandateRepo, chargeRepo); err != nil {
			utils.Logger.Fatal("Failed to seed test data:", err)
		}
	}

	// Services
	calculator := services.NewCalculatorService(ownerRepo, unitRepo, leaseRepo, mandateRepo, chargeRepo)
	liquidationService := services.NewLiquidationService(calculator, ownerRepo, liqRepo)
	ledgerService := services.NewLedgerService(ownerRepo, unitRepo, leaseRepo, mandateRepo, chargeRepo)

	// Controllers
	healthController := controllers.NewHealthController(application)
	liquidationController := controllers.NewLiquidationController(liquidationService, liqRepo)
	ledgerController := controllers.NewLedgerController(ledgerService, ownerRepo, unitRepo, leaseRepo, mandateRepo, chargeRepo)

	// Router setup
	router := mux.NewRouter()

	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	// Liquidation engine. Pending is registered before {id} so the
	// literal path wins.
	router.HandleFunc(routes.LiquidationPreview, liquidationController.PreviewHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.LiquidationPending, liquidationController.ListPendingHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Liquidations, liquidationController.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Liquidations, liquidationController.HistoryHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.LiquidationByID, liquidationController.GetByIDHandler).Methods(http.MethodGet)

	// Ledgers the engine computes from.
	router.HandleFunc(routes.Owners, ledgerController.CreateOwnerHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Owners, ledgerController.ListOwnersHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.OwnerByID, ledgerController.GetOwnerHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.OwnerByID, ledgerController.DeleteOwnerHandler).Methods(http.MethodDelete)
	router.HandleFunc(routes.OwnerMandates, ledgerController.ListOwnerMandatesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Units, ledgerController.CreateUnitHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Units, ledgerController.ListUnitsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.UnitOwners, ledgerController.AssignOwnerHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.UnitOwners, ledgerController.ListUnitOwnersHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.UnitLeases, ledgerController.ListUnitLeasesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Leases, ledgerController.CreateLeaseHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.RentEntries, ledgerController.RecordRentEntryHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Mandates, ledgerController.CreateMandateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Charges, ledgerController.CreateChargeHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Charges, ledgerController.ListChargesHandler).Methods(http.MethodGet)

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("liquidation-service failed to start:", err)
	}
}
