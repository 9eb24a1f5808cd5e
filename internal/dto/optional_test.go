package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProductRequest_DistinguishesNullFromAbsent(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		codeSet  bool
		codeNil  bool
		codeWant string
	}{
		{name: "absent", body: `{"name":"x"}`, codeSet: false, codeNil: true},
		{name: "null", body: `{"code":null}`, codeSet: true, codeNil: true},
		{name: "empty", body: `{"code":""}`, codeSet: true, codeWant: ""},
		{name: "value", body: `{"code":"blu"}`, codeSet: true, codeWant: "blu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateProductRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			assert.Equal(t, tt.codeSet, req.Code.Set)
			if tt.codeNil {
				assert.Nil(t, req.Code.Value)
				return
			}
			require.NotNil(t, req.Code.Value)
			assert.Equal(t, tt.codeWant, *req.Code.Value)
		})
	}
}

func TestOptionalString_RejectsNonString(t *testing.T) {
	var req UpdateProductRequest
	assert.Error(t, json.Unmarshal([]byte(`{"code":42}`), &req))
}
