package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name     string
		numbered bool
		in       string
		want     string
	}{
		{"question marks kept", false, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{"numbered", true, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{"no placeholders", true, "SELECT 1", "SELECT 1"},
		{"many", true, "VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Dialect{Numbered: tt.numbered}
			require.Equal(t, tt.want, d.Rebind(tt.in))
		})
	}
}
