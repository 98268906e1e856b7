package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/askai-go/internal/application/doctor"
	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/infrastructure/ai"
	"github.com/doeshing/askai-go/internal/infrastructure/cache"
	"github.com/doeshing/askai-go/internal/infrastructure/config"
	"github.com/doeshing/askai-go/internal/infrastructure/ledger"
	"github.com/doeshing/askai-go/internal/pkg/logger"
	"github.com/doeshing/askai-go/internal/ports"
	"github.com/doeshing/askai-go/internal/pricing"
	"github.com/doeshing/askai-go/internal/services"
)

// Container wires up application services with infrastructure adapters.
// The client and stores are constructed once per process and passed down
// explicitly; nothing holds module-level state.
type Container struct {
	AskService    *services.AskService
	ConfigLoader  *config.FileLoader
	DoctorService *doctor.Service
	Ledger        ports.LedgerRepository
	Cache         ports.CacheRepository
	Pricing       pricing.Table
	SessionID     string
	AutoExport    string
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := buildLogger(verbose)

	table, err := pricing.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("load price table: %w", err)
	}

	cacheStore, err := buildCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("build cache: %w", err)
	}
	ledgerStore := buildLedger(cfg.Ledger)

	sessionID := uuid.NewString()

	askService := &services.AskService{
		ConfigProvider:  cfgLoader,
		ProviderFactory: ai.NewFactory(),
		Cache:           cacheStore,
		Ledger:          ledgerStore,
		Cost:            pricing.NewCalculator(table),
		Logger:          log,
		SessionID:       sessionID,
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Cache:          cacheStore,
		Ledger:         ledgerStore,
		PriceTable:     table,
	}

	return &Container{
		AskService:    askService,
		ConfigLoader:  cfgLoader,
		DoctorService: doctorService,
		Ledger:        ledgerStore,
		Cache:         cacheStore,
		Pricing:       table,
		SessionID:     sessionID,
		AutoExport:    cfg.Ledger.AutoExport,
	}, nil
}

func buildLogger(verbose bool) ports.Logger {
	if strings.EqualFold(os.Getenv("ASKAI_LOG"), "zap") {
		if zl, err := logger.NewZap(verbose); err == nil {
			return zl
		}
	}
	return logger.NewStd(verbose)
}

func buildCache(settings domain.CacheSettings) (ports.CacheRepository, error) {
	ttl := parseTTL(settings.TTL)
	switch settings.Backend {
	case domain.CacheBackendRistretto:
		return cache.NewRistrettoCache(settings.MaxCostBytes, ttl)
	case domain.CacheBackendFile:
		return cache.NewFileCache("", ttl, settings.MaxEntries), nil
	default:
		return cache.NewMemoryCache(ttl, settings.MaxEntries), nil
	}
}

func buildLedger(settings domain.LedgerSettings) ports.LedgerRepository {
	switch settings.Backend {
	case domain.LedgerBackendSQLite:
		return ledger.NewSQLiteStore("")
	case domain.LedgerBackendFile:
		return ledger.NewFileStore("")
	default:
		return ledger.NewMemoryLedger()
	}
}

func parseTTL(raw string) time.Duration {
	if raw == "" || raw == "0" {
		return 0
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return ttl
}
