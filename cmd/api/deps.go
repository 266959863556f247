package main

import (
	"log"

	"cashup/internal/domain/reconciliation"
	"cashup/internal/domain/title"
	"cashup/internal/infrastructure/postgres"
	httphandlers "cashup/internal/interfaces/http"
	"cashup/internal/shared/auth"
	"cashup/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler           *httphandlers.AuthHandler
	TransactionHandler    *httphandlers.TransactionHandler
	TitleHandler          *httphandlers.TitleHandler
	ReconciliationHandler *httphandlers.ReconciliationHandler

	// Auth
	JWT *auth.JWT

	// For the scheduler
	IngestionService *reconciliation.IngestionService
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	titleRepo := postgres.NewTitleRepository(db)
	reconciliationRepo := postgres.NewReconciliationRepository(db)
	actionLogRepo := postgres.NewActionLogRepository(db)

	// Initialize domain services
	ingestionService := reconciliation.NewIngestionServiceWithDateLayout(
		reconciliationRepo,
		transactionRepo,
		cfg.Statement.CSVDateLayout,
	)
	settlementService := title.NewSettlementService(titleRepo, transactionRepo)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userRepo, jwt, actionLogRepo)
	transactionHandler := httphandlers.NewTransactionHandler(transactionRepo, actionLogRepo)
	titleHandler := httphandlers.NewTitleHandler(titleRepo, settlementService, actionLogRepo)
	reconciliationHandler := httphandlers.NewReconciliationHandler(ingestionService, reconciliationRepo, actionLogRepo)

	return &Dependencies{
		DB:                    db,
		AuthHandler:           authHandler,
		TransactionHandler:    transactionHandler,
		TitleHandler:          titleHandler,
		ReconciliationHandler: reconciliationHandler,
		JWT:                   jwt,
		IngestionService:      ingestionService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
