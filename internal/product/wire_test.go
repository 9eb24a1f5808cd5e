package product

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vitrina/internal/config"
)

func TestPageSizes(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.CatalogConfig
		wantDefault int
		wantMax     int
	}{
		{"defaults", config.CatalogConfig{DefaultPageSize: 20, MaxPageSize: 100}, 20, 100},
		{"default above max", config.CatalogConfig{DefaultPageSize: 20, MaxPageSize: 10}, 10, 10},
		{"default below one", config.CatalogConfig{DefaultPageSize: 0, MaxPageSize: 50}, 1, 50},
		{"max out of range", config.CatalogConfig{DefaultPageSize: 20, MaxPageSize: 500}, 20, 100},
		{"max zero", config.CatalogConfig{DefaultPageSize: 150, MaxPageSize: 0}, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotDefault, gotMax := pageSizes(tt.cfg)
			assert.Equal(t, tt.wantDefault, gotDefault)
			assert.Equal(t, tt.wantMax, gotMax)
		})
	}
}
