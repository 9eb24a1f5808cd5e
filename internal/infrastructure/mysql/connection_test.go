package mysql

import (
	"vitrina/internal/config"
)

func configFixture() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     "db.local",
		Port:     3307,
		User:     "vitrina",
		Password: "secret",
		Name:     "catalog",
	}
}
