// Command x1-validator runs a single burn-attestation validator: it
// serves POST /attest-burn-v3, and for each request reads the burn
// record from the source chain, checks its finality, and signs a
// canonical attestation over it for a relay to collect. It never talks
// to any other validator.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/x1proto/bridge-validator/pkg/attestation"
	"github.com/x1proto/bridge-validator/pkg/bridge"
	"github.com/x1proto/bridge-validator/pkg/config"
	"github.com/x1proto/bridge-validator/pkg/database"
	"github.com/x1proto/bridge-validator/pkg/server"
	"github.com/x1proto/bridge-validator/pkg/sourcechain"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var (
		validatorID = flag.String("validator-id", "", "validator ID, overrides VALIDATOR_ID")
		devMode     = flag.Bool("dev", false, "relax configuration validation for local development")
		showHelp    = flag.Bool("help", false, "show help message")
	)
	flag.Parse()

	if *showHelp {
		flag.Usage()
		return
	}

	log.Println("starting x1-validator")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *validatorID != "" {
		cfg.ValidatorID = *validatorID
	}

	if *devMode {
		if err := cfg.ValidateForDevelopment(); err != nil {
			log.Fatalf("configuration invalid: %v", err)
		}
	} else {
		if err := cfg.Validate(); err != nil {
			log.Fatalf("configuration invalid: %v", err)
		}
	}

	health := server.NewHealthStatus()

	keys := attestation.NewKeyManager(cfg.Ed25519KeyPath)
	if err := keys.LoadOrGenerateKey(); err != nil {
		log.Fatalf("failed to load validator key: %v", err)
	}
	log.Printf("validator public key: %s", keys.PublicKeyHex())

	valSetFile, err := config.LoadValidatorSetFile(cfg.ValidatorSetFile)
	if err != nil {
		log.Fatalf("failed to load validator set file: %v", err)
	}
	log.Printf("loaded validator set version=%d threshold=%d validators=%d", valSetFile.Version, valSetFile.Threshold, len(valSetFile.Validators))

	registry := bridge.NewRegistry()
	fetcher := sourcechain.NewRPCFetcher(cfg.SourceChainRPCURL, cfg.RequestTimeout)
	finality := sourcechain.NewStaticFinalityChecker(uint64(cfg.SourceChainFinality))
	health.SetSourceRPC("connected")

	activeSetVersion := valSetFile.Version
	handler := attestation.NewHandler(attestation.Config{
		Registry:    registry,
		Fetcher:     fetcher,
		Finality:    finality,
		Keys:        keys,
		ValidatorID: cfg.ValidatorID,
		SetVersion:  func() uint64 { return activeSetVersion },
	})

	var dbClient *database.Client
	dbClient, err = database.NewClient(cfg)
	if err != nil {
		if cfg.DatabaseRequired {
			log.Fatalf("database connection required but failed: %v", err)
		}
		log.Printf("warning: database connection failed, running without an audit trail: %v", err)
		health.SetDatabase("disconnected")
	} else {
		health.SetDatabase("connected")
		if err := dbClient.MigrateUp(context.Background()); err != nil {
			log.Printf("warning: database migration failed: %v", err)
		}
		defer dbClient.Close()
	}

	mux := http.NewServeMux()
	attestationHandlers := server.NewAttestationHandlers(handler, nil)
	if dbClient != nil {
		attestationHandlers = attestationHandlers.WithAuditRecorder(database.NewAttestationRepository(dbClient))
	}
	mux.HandleFunc("/attest-burn-v3", attestationHandlers.HandleAttestBurn)
	mux.HandleFunc("/healthz", health.HandleHealthz)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}
	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: metricsMux,
	}

	go func() {
		log.Printf("attestation API listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("attestation API failed: %v", err)
		}
	}()
	go func() {
		log.Printf("metrics listening on %s", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down x1-validator")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("attestation API shutdown error: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics server shutdown error: %v", err)
	}

	fmt.Println("x1-validator stopped")
}
