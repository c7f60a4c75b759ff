package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "", 1, DefaultPerPage},
		{"explicit values", "?page=3&per_page=50", 3, 50},
		{"per_page capped", "?per_page=1000", 1, MaxPerPage},
		{"invalid values fall back", "?page=abc&per_page=-5", 1, DefaultPerPage},
		{"zero page falls back", "?page=0", 1, DefaultPerPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/orders"+tt.query, nil)
			p := FromRequest(r)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, PerPage: 20}.Offset())
	assert.Equal(t, 40, Params{Page: 3, PerPage: 20}.Offset())
	assert.Equal(t, 0, Params{Page: 0, PerPage: 20}.Offset())
}
