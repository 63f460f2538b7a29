package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipnotify/internal/types"
)

// setBaseEnv establishes the minimum viable environment: simulation
// mailer, stubbed carrier, required addresses present.
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CARRIER_STUB", "true")
	t.Setenv("MAIL_FROM_ADDRESS", "shipping@example.com")
	t.Setenv("MAIL_RECORDS_ADDRESS", "records@example.com")
	t.Setenv("MAIL_CONTACT_UPDATE_ADDRESS", "contacts@example.com")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "simulation", cfg.Mail.Provider)
	assert.Equal(t, "contacts.csv", cfg.Tables.ContactsPath)
	assert.Equal(t, int64(99999), cfg.Batch.PartnerSentinelCode)
	assert.Equal(t, `<font color="red">[MISSING]</font>`, cfg.Batch.MissingPlaceholder)
	assert.False(t, cfg.Batch.TestMode)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadMissingRequiredAddress(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MAIL_FROM_ADDRESS", "")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeConfigInvalid))
}

func TestLoadInvalidProvider(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MAIL_PROVIDER", "pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeConfigInvalid))
}

func TestLoadCarrierCredentialsRequiredWithoutStub(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CARRIER_STUB", "false")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier credentials")

	t.Setenv("CARRIER_ACCESS_LICENSE", "license")
	t.Setenv("CARRIER_USER_ID", "user")
	t.Setenv("CARRIER_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "user", cfg.Carrier.UserID)
	assert.Equal(t, "secret", cfg.Carrier.Password.Unmask())
	assert.NotContains(t, cfg.Carrier.Password.String(), "secret", "secrets never print")
}

func TestLoadSMTPRequiresUsername(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MAIL_PROVIDER", "smtp")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_USERNAME")

	t.Setenv("SMTP_USERNAME", "mailer@example.com")
	t.Setenv("SMTP_PASSWORD", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.SMTP.Host)
	assert.Equal(t, 587, cfg.Mail.SMTP.Port)
}

func TestLoadTestModeRequiresAddresses(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EMAIL_TEST_MODE", "true")

	_, err := Load()
	require.Error(t, err, "test mode without test addresses must not start")

	t.Setenv("TEST_CUSTOMER_ADDRESS", "qa-customer@example.com")
	t.Setenv("TEST_RECORDS_ADDRESS", "qa-records@example.com")
	t.Setenv("TEST_CONTACT_UPDATE_ADDRESS", "qa-contacts@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Batch.TestMode)
	assert.Equal(t, "qa-customer@example.com", cfg.Batch.TestCustomerAddress)
}
