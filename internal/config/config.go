// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"

	"github.com/creditcore/loan-advisor/pkg/constants"
	"github.com/creditcore/loan-advisor/pkg/loans"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for loan-advisor.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Engine  EngineConfig  `yaml:"engine,omitempty"`
	Catalog CatalogConfig `yaml:"catalog,omitempty"`
	Request RequestConfig `yaml:"request,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// EngineConfig holds the engine thresholds.
type EngineConfig struct {
	DTIThreshold  float64 `yaml:"dtiThreshold,omitempty"`
	MaxTermMonths int     `yaml:"maxTermMonths,omitempty"`
}

// CatalogConfig points at the loan product catalog.
type CatalogConfig struct {
	Path string `yaml:"path,omitempty"`
}

// RequestConfig holds the loan request evaluated by the CLI.
type RequestConfig struct {
	Product       string
	Principal     float64
	TermMonths    int
	Method        string
	MonthlyIncome float64
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()

	return &configuration, nil
}

func (conf *Configuration) applyDefaults() {
	if conf.Engine.DTIThreshold == 0 {
		conf.Engine.DTIThreshold = constants.DefaultDTIThreshold
	}
	if conf.Engine.MaxTermMonths == 0 {
		conf.Engine.MaxTermMonths = constants.MaxTermMonths
	}
	if conf.Catalog.Path == "" {
		conf.Catalog.Path = constants.DefaultProductsFile
	}
	if conf.Request.Method == "" {
		conf.Request.Method = loans.MethodAnnuity.String()
	}
}

// ValidateConfiguration performs configuration validation and returns
// warnings for suspicious but non-fatal settings.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	switch conf.Output.Format {
	case "", constants.OutputFormatPretty, constants.OutputFormatCSV:
	default:
		warnings = append(warnings, fmt.Sprintf("unknown output format %q, falling back to %q",
			conf.Output.Format, constants.OutputFormatPretty))
	}

	if conf.Engine.DTIThreshold < 0 || conf.Engine.DTIThreshold > 1 {
		warnings = append(warnings, fmt.Sprintf("DTI threshold %.2f is outside (0, 1]; the default is %.2f",
			conf.Engine.DTIThreshold, constants.DefaultDTIThreshold))
	}

	if conf.Engine.MaxTermMonths > constants.MaxTermMonths {
		warnings = append(warnings, fmt.Sprintf("max term of %d months exceeds the engine cap of %d",
			conf.Engine.MaxTermMonths, constants.MaxTermMonths))
	}

	if conf.Request.Principal < 0 {
		warnings = append(warnings, "requested principal is negative")
	}
	if conf.Request.TermMonths > conf.Engine.MaxTermMonths {
		warnings = append(warnings, fmt.Sprintf("requested term of %d months exceeds the configured maximum of %d",
			conf.Request.TermMonths, conf.Engine.MaxTermMonths))
	}
	if _, err := loans.ParseMethod(conf.Request.Method); err != nil {
		warnings = append(warnings, err.Error())
	}

	return warnings
}
