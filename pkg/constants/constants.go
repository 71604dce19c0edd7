// Package constants provides shared constants for the loan-advisor application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DefaultDTIThreshold is the default debt-to-income ceiling (40% of income)
	DefaultDTIThreshold = 0.40

	// MaxTermMonths caps schedule generation work per request (50 years)
	MaxTermMonths = 600
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultProductsFile is the default loan product catalog file name
	DefaultProductsFile = "loan_products.json"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestBytes is the default maximum request body size (64 KB)
	DefaultMaxRequestBytes int64 = 64 * 1024

	// DefaultRateLimitRequests is the default per-client request allowance per window
	DefaultRateLimitRequests = 60
)
