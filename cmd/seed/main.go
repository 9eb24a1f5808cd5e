package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	companyrepo "vitrina/internal/company/repository"
	"vitrina/internal/config"
	"vitrina/internal/domain"
	"vitrina/internal/infrastructure/logger"
	"vitrina/internal/infrastructure/metrics"
	"vitrina/internal/infrastructure/mysql"
	productrepo "vitrina/internal/product/repository"
	"vitrina/internal/seed"
)

func main() {
	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	flags.String("file", "", "YAML fixture to seed instead of the built-in demo")
	flags.Bool("init-schema", false, "apply the bootstrap schema before seeding")
	flags.String("import", "", "spreadsheet (.xlsx or .csv) to import instead of seeding a fixture")
	flags.String("tax-id", "", "tax id of the company receiving the import")
	_ = flags.Parse(os.Args[1:])

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		log.Fatalf("binding flags: %v", err)
	}

	cfg, err := config.LoadWith(v)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Service.Name+"-seed")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, v, cfg, zapLogger); err != nil {
		zapLogger.Fatal("seed failed", zap.Error(err))
	}
}

func run(ctx context.Context, v *viper.Viper, cfg *config.Config, zapLogger *zap.Logger) error {
	db, err := mysql.NewConnection(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if v.GetBool("init-schema") {
		if err := mysql.ApplySchema(ctx, db); err != nil {
			return err
		}
		zapLogger.Info("schema applied", zap.Strings("tables", mysql.Tables()))
	}

	companies := companyrepo.NewMySQLCompanyRepository(db)
	products := productrepo.NewMySQLRepository(db)
	upserter := seed.NewUpserter(products, metrics.New(prometheus.NewRegistry()), zapLogger)

	if file := v.GetString("import"); file != "" {
		return runImport(ctx, companies, upserter, file, v.GetString("tax-id"), zapLogger)
	}

	fixture, err := loadFixture(v.GetString("file"))
	if err != nil {
		return err
	}

	_, err = seed.NewSeeder(companies, products, upserter, zapLogger).Run(ctx, fixture)
	return err
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.DefaultFixture()
	}
	return seed.LoadFixture(path)
}

func runImport(
	ctx context.Context,
	companies *companyrepo.MySQLCompanyRepository,
	upserter *seed.Upserter,
	path, taxID string,
	zapLogger *zap.Logger,
) error {
	if !domain.ValidTaxID(taxID) {
		return fmt.Errorf("--tax-id must be 13 digits not ending in 000, got %q", taxID)
	}

	company, err := companies.FindByTaxID(ctx, taxID)
	if err != nil {
		return fmt.Errorf("resolving company %s: %w", taxID, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	result, err := seed.NewImporter(upserter, zapLogger).Import(ctx, company.ID, path, f)
	if err != nil {
		return err
	}

	for _, re := range result.Errors {
		zapLogger.Warn("row rejected",
			zap.Int("row", re.Row),
			zap.String("column", re.Column),
			zap.String("code", re.Code),
			zap.String("message", re.Message),
		)
	}
	zapLogger.Info("import finished",
		zap.String("taxId", taxID),
		zap.Int("productsCreated", result.ProductsCreated),
		zap.Int("productsExisting", result.ProductsExisting),
		zap.Int("variantsInserted", result.VariantsInserted),
		zap.Int("variantsSkipped", result.VariantsSkipped),
		zap.Int("rowErrors", len(result.Errors)),
	)
	return nil
}
