package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindNamedParams(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		params    map[string]interface{}
		wantQuery string
		wantArgs  []interface{}
		wantErr   bool
	}{
		{
			name:      "single parameter",
			query:     "SELECT * FROM hospitals WHERE provider_zip_code LIKE :zip_prefix",
			params:    map[string]interface{}{"zip_prefix": "100%"},
			wantQuery: "SELECT * FROM hospitals WHERE provider_zip_code LIKE $1",
			wantArgs:  []interface{}{"100%"},
		},
		{
			name:      "multiple parameters",
			query:     "SELECT * FROM procedures WHERE ms_drg_code = :drg AND total_discharges > :min",
			params:    map[string]interface{}{"drg": "470", "min": 10},
			wantQuery: "SELECT * FROM procedures WHERE ms_drg_code = $1 AND total_discharges > $2",
			wantArgs:  []interface{}{"470", 10},
		},
		{
			name:      "repeated name binds once",
			query:     "SELECT * FROM t WHERE a = :v OR b = :v",
			params:    map[string]interface{}{"v": "x"},
			wantQuery: "SELECT * FROM t WHERE a = $1 OR b = $1",
			wantArgs:  []interface{}{"x"},
		},
		{
			name:      "cast operator untouched",
			query:     "SELECT rating::text FROM ratings WHERE provider_id = :id",
			params:    map[string]interface{}{"id": "330123"},
			wantQuery: "SELECT rating::text FROM ratings WHERE provider_id = $1",
			wantArgs:  []interface{}{"330123"},
		},
		{
			name:      "colon inside string literal untouched",
			query:     "SELECT ':zip' FROM t WHERE a = :a",
			params:    map[string]interface{}{"a": 1},
			wantQuery: "SELECT ':zip' FROM t WHERE a = $1",
			wantArgs:  []interface{}{1},
		},
		{
			name:    "missing parameter",
			query:   "SELECT * FROM t WHERE a = :missing",
			params:  map[string]interface{}{},
			wantErr: true,
		},
		{
			name:      "no parameters",
			query:     "SELECT 1",
			params:    nil,
			wantQuery: "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := bindNamedParams(tt.query, tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
