// Package config defines the process configuration. Values are loaded
// once at startup from the environment (with optional .env support for
// local runs) and are immutable thereafter; any missing required value or
// invalid format fails the process immediately.
package config

import (
	"time"

	"shipnotify/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret
// type used for credentials so they never leak through logs or dumps.
type SecretString = types.SecretString

// Config is the top-level configuration struct. Sub-components receive
// only the subsets they require.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Tables   TablesConfig
	Template TemplateConfig
	Carrier  CarrierConfig
	Mail     MailConfig
	Batch    BatchConfig
	Metrics  MetricsConfig
}

// TablesConfig names the three source exports. Paths ending in .gz are
// decompressed transparently.
type TablesConfig struct {
	ContactsPath  string `envconfig:"CONTACTS_CSV" default:"contacts.csv"`
	ShipmentsPath string `envconfig:"SHIPMENTS_CSV" default:"shipments.csv"`
	SlipsPath     string `envconfig:"PACKING_SLIPS_CSV" default:"packing_slips.csv"`
}

// TemplateConfig names the two email template files.
type TemplateConfig struct {
	StandardPath     string `envconfig:"STANDARD_TEMPLATE_FILE" default:"dealer_email.html"`
	LargePartnerPath string `envconfig:"LARGE_PARTNER_TEMPLATE_FILE" default:"partner_email.html"`
}

// CarrierConfig holds tracking API credentials and endpoints.
type CarrierConfig struct {
	// Stub replaces the live carrier with a fixed-date fake; intended
	// for local runs without credentials.
	Stub bool `envconfig:"CARRIER_STUB" default:"false"`
	// UseTestEndpoint targets the carrier's certification environment.
	UseTestEndpoint bool `envconfig:"CARRIER_USE_TEST_ENDPOINT" default:"false"`

	AccessLicense SecretString `envconfig:"CARRIER_ACCESS_LICENSE"`
	UserID        string       `envconfig:"CARRIER_USER_ID"`
	Password      SecretString `envconfig:"CARRIER_PASSWORD"`

	// WebRoot is the public tracking site root used to build the link
	// in the email; the tracking number is appended verbatim.
	WebRoot string `envconfig:"CARRIER_WEB_ROOT" default:"http://wwwapps.ups.com/WebTracking/track?track=yes&trackNums=" validate:"required,url"`

	Timeout time.Duration `envconfig:"CARRIER_TIMEOUT" default:"10s"`
}

// MailConfig selects and configures the mail transport.
type MailConfig struct {
	Provider string `envconfig:"MAIL_PROVIDER" default:"simulation" validate:"required,oneof=ses smtp simulation"`

	FromName    string `envconfig:"MAIL_FROM_NAME" default:"Shipping Notifications"`
	FromAddress string `envconfig:"MAIL_FROM_ADDRESS" validate:"required,email"`

	// InternalFromName labels the escalation emails sent to staff.
	InternalFromName string `envconfig:"MAIL_INTERNAL_FROM_NAME" default:"Shipping notification records"`

	SubjectStandard     string `envconfig:"MAIL_SUBJECT_STANDARD" default:"Your order has shipped"`
	SubjectLargePartner string `envconfig:"MAIL_SUBJECT_LARGE_PARTNER" default:"Your direct order has shipped"`

	RecordsAddress       string `envconfig:"MAIL_RECORDS_ADDRESS" validate:"required,email"`
	ContactUpdateAddress string `envconfig:"MAIL_CONTACT_UPDATE_ADDRESS" validate:"required,email"`

	SMTP SMTPConfig
	SES  SESConfig

	// SimulationDir receives the HTML artifacts when Provider is
	// "simulation". Defaults to the working directory.
	SimulationDir string `envconfig:"MAIL_SIMULATION_DIR" default:""`
}

// SMTPConfig holds relay settings for the smtp provider.
type SMTPConfig struct {
	Host     string        `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port     int           `envconfig:"SMTP_PORT" default:"587"`
	Username string        `envconfig:"SMTP_USERNAME"`
	Password SecretString  `envconfig:"SMTP_PASSWORD"`
	Timeout  time.Duration `envconfig:"SMTP_TIMEOUT" default:"30s"`
}

// SESConfig holds SES settings for the ses provider. Credentials come
// from the ambient AWS config.
type SESConfig struct {
	ConfigSetName string `envconfig:"SES_CONFIG_SET"`
	Region        string `envconfig:"AWS_REGION" default:"us-east-1"`
}

// BatchConfig holds the reconciliation knobs.
type BatchConfig struct {
	// PartnerSentinelCode is the customer-ID value that marks a
	// large-partner slip.
	PartnerSentinelCode int64 `envconfig:"PARTNER_SENTINEL_CODE" default:"99999"`

	// MissingPlaceholder must be text that can never appear in a real
	// email: its presence in a finished body is proof of a missed flag.
	MissingPlaceholder string `envconfig:"MISSING_PLACEHOLDER" default:"<font color=\"red\">[MISSING]</font>" validate:"required"`

	// TestMode replaces every recipient with the test addresses below.
	// Unlike the simulation provider, mail is really transmitted.
	TestMode                 bool   `envconfig:"EMAIL_TEST_MODE" default:"false"`
	TestCustomerAddress      string `envconfig:"TEST_CUSTOMER_ADDRESS" validate:"required_if=TestMode true,omitempty,email"`
	TestRecordsAddress       string `envconfig:"TEST_RECORDS_ADDRESS" validate:"required_if=TestMode true,omitempty,email"`
	TestContactUpdateAddress string `envconfig:"TEST_CONTACT_UPDATE_ADDRESS" validate:"required_if=TestMode true,omitempty,email"`
}

// MetricsConfig toggles CloudWatch telemetry.
type MetricsConfig struct {
	Enabled bool `envconfig:"METRICS_ENABLED" default:"false"`
}
