package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SMTP_HOST", "mail.example.test")
	t.Setenv("TRANSFER_FEE", "2.50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "mail.example.test", cfg.SMTPHost)
	assert.Equal(t, 8, cfg.JWTExpirationHours)
	assert.Equal(t, "*", cfg.CORSOrigins)
	assert.True(t, cfg.Fee().Equal(decimal.RequireFromString("2.5")))
}

func TestFee_FallsBack(t *testing.T) {
	for _, raw := range []string{"", "abc", "-1"} {
		c := &Config{TransferFee: raw}
		assert.True(t, c.Fee().Equal(decimal.NewFromInt(5)), raw)
	}
	assert.True(t, (&Config{TransferFee: "0"}).Fee().IsZero())
}
