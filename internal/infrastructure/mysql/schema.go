package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// Bootstrap DDL for a fresh database. Uniqueness lives here, not in application code:
// (taxId), (companyId, code) and (companyId, sku). NULL codes never collide. code and sku
// compare byte for byte; searches opt back into utf8mb4_unicode_ci explicitly.
var schemaStatements = []struct {
	table string
	ddl   string
}{
	{"Company", `
	CREATE TABLE IF NOT EXISTS Company (
		id CHAR(36) NOT NULL PRIMARY KEY,
		taxId CHAR(13) NOT NULL,
		name VARCHAR(200) NOT NULL,
		establishment CHAR(3) NOT NULL DEFAULT '001',
		emissionPoint CHAR(3) NOT NULL DEFAULT '001',
		sequence INT NOT NULL DEFAULT 1,
		createdAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		updatedAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
		UNIQUE KEY uq_company_tax_id (taxId)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"Product", `
	CREATE TABLE IF NOT EXISTS Product (
		id CHAR(36) NOT NULL PRIMARY KEY,
		companyId CHAR(36) NOT NULL,
		name VARCHAR(200) NOT NULL,
		code VARCHAR(64) COLLATE utf8mb4_bin NULL,
		createdAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		updatedAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
		UNIQUE KEY uq_product_company_code (companyId, code),
		UNIQUE KEY uq_product_company_id (companyId, id),
		INDEX idx_product_company_created (companyId, createdAt),
		CONSTRAINT fk_product_company FOREIGN KEY (companyId) REFERENCES Company (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"Variant", `
	CREATE TABLE IF NOT EXISTS Variant (
		id CHAR(36) NOT NULL PRIMARY KEY,
		companyId CHAR(36) NOT NULL,
		productId CHAR(36) NOT NULL,
		sku VARCHAR(64) COLLATE utf8mb4_bin NOT NULL,
		barcode VARCHAR(64) NULL,
		color VARCHAR(64) NULL,
		size VARCHAR(32) NULL,
		price DECIMAL(12,2) NOT NULL,
		stock INT UNSIGNED NOT NULL DEFAULT 0,
		createdAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		updatedAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
		UNIQUE KEY uq_variant_company_sku (companyId, sku),
		INDEX idx_variant_company_product (companyId, productId),
		CONSTRAINT fk_variant_product FOREIGN KEY (companyId, productId)
			REFERENCES Product (companyId, id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
}

// Tables lists the catalog tables in dependency order.
func Tables() []string {
	names := make([]string, 0, len(schemaStatements))
	for _, s := range schemaStatements {
		names = append(names, s.table)
	}
	return names
}

func ApplySchema(ctx context.Context, db *sql.DB) error {
	for _, s := range schemaStatements {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("creating table %s: %w", s.table, err)
		}
	}
	return nil
}
