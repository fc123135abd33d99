package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	AirtableConfig struct {
		APIKey         string
		BaseID         string
		BaseURL        string
		CampusTable    string
		CampusPageSize int
		Timeout        time.Duration
	}

	PaymentConfig struct {
		ServiceURL        string
		CheckoutKey       string // Razorpay public key; empty means mock-payment mode
		CheckoutScriptURL string
		Currency          string
		MerchantName      string
		Timeout           time.Duration
	}

	IdentityConfig struct {
		Backend        string // airtable | memory
		PasswordScheme string // plain | bcrypt
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	Config struct {
		Env             string
		Build           string
		AppName         string
		Debug           bool
		TestMode        bool
		FrontendBaseURL string

		Server   ServerConfig
		Airtable AirtableConfig
		Payment  PaymentConfig
		Identity IdentityConfig
		Database DatabaseConfig

		RollbarToken     string
		SendgridApiKey   string
		defaultFromEmail string
	}
)

// NewConfig reads the configuration for the current ENV (DEV by default) from the environment,
// after loading "<config dir>/.env.<env>" when it exists.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("test_mode", false)
	conf.SetDefault("app_name", "GradeKart")
	conf.SetDefault("build", "develop")
	conf.SetDefault("frontend_base_url", "http://localhost:5173")
	conf.SetDefault("default_from_email", "GradeKart <noreply@localhost>")

	conf.SetDefault("server_host", "localhost")
	conf.SetDefault("server_address", ":8000")
	conf.SetDefault("server_debug_host", ":4000")
	conf.SetDefault("server_shutdown_timeout", 5*time.Second)
	conf.SetDefault("server_disable_req_logs", false)

	conf.SetDefault("airtable_api_key", "")
	conf.SetDefault("airtable_base_id", "")
	conf.SetDefault("airtable_base_url", "https://api.airtable.com")
	conf.SetDefault("airtable_campus_table", "Schools")
	conf.SetDefault("airtable_campus_page_size", 100)
	conf.SetDefault("airtable_timeout", 30*time.Second)

	conf.SetDefault("payment_service_url", "")
	conf.SetDefault("payment_checkout_key", "")
	conf.SetDefault("payment_checkout_script_url", "https://checkout.razorpay.com/v1/checkout.js")
	conf.SetDefault("payment_currency", "INR")
	conf.SetDefault("payment_merchant_name", "GradeKart")
	conf.SetDefault("payment_timeout", 30*time.Second)

	conf.SetDefault("identity_backend", "airtable")
	conf.SetDefault("identity_password_scheme", "plain")

	conf.SetDefault("database_engine", "postgres")
	conf.SetDefault("database_host", "")
	conf.SetDefault("database_port", "5432")
	conf.SetDefault("database_name", "gradekart")
	conf.SetDefault("database_user", "")
	conf.SetDefault("database_password", "")
	conf.SetDefault("database_disable_tls", false)

	conf.SetDefault("rollbar_token", "")
	conf.SetDefault("sendgrid_api_key", "")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("test_mode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(configDir(), ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:             env,
		Build:           conf.GetString("build"),
		AppName:         conf.GetString("app_name"),
		Debug:           conf.GetBool("debug"),
		TestMode:        conf.GetBool("test_mode"),
		FrontendBaseURL: conf.GetString("frontend_base_url"),
		Server: ServerConfig{
			Host:            conf.GetString("server_host"),
			Address:         conf.GetString("server_address"),
			DebugHost:       conf.GetString("server_debug_host"),
			ShutdownTimeout: conf.GetDuration("server_shutdown_timeout"),
			DisableReqLogs:  conf.GetBool("server_disable_req_logs"),
		},
		Airtable: AirtableConfig{
			APIKey:         conf.GetString("airtable_api_key"),
			BaseID:         conf.GetString("airtable_base_id"),
			BaseURL:        strings.TrimRight(conf.GetString("airtable_base_url"), "/"),
			CampusTable:    conf.GetString("airtable_campus_table"),
			CampusPageSize: conf.GetInt("airtable_campus_page_size"),
			Timeout:        conf.GetDuration("airtable_timeout"),
		},
		Payment: PaymentConfig{
			ServiceURL:        strings.TrimRight(conf.GetString("payment_service_url"), "/"),
			CheckoutKey:       conf.GetString("payment_checkout_key"),
			CheckoutScriptURL: conf.GetString("payment_checkout_script_url"),
			Currency:          strings.ToUpper(conf.GetString("payment_currency")),
			MerchantName:      conf.GetString("payment_merchant_name"),
			Timeout:           conf.GetDuration("payment_timeout"),
		},
		Identity: IdentityConfig{
			Backend:        strings.ToLower(conf.GetString("identity_backend")),
			PasswordScheme: strings.ToLower(conf.GetString("identity_password_scheme")),
		},
		Database: DatabaseConfig{
			Engine:     conf.GetString("database_engine"),
			Host:       conf.GetString("database_host"),
			Port:       conf.GetString("database_port"),
			Name:       conf.GetString("database_name"),
			User:       conf.GetString("database_user"),
			Password:   conf.GetString("database_password"),
			DisableTLS: conf.GetBool("database_disable_tls"),
		},
		RollbarToken:     conf.GetString("rollbar_token"),
		SendgridApiKey:   conf.GetString("sendgrid_api_key"),
		defaultFromEmail: conf.GetString("default_from_email"),
	}
}

// DefaultFromEmail parses the configured sender address.
func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: "noreply@localhost"}
	}
	return *addr
}

// LiveCheckout reports whether a checkout widget key is configured.
// Without it every payment runs in mock mode.
func (c *Config) LiveCheckout() bool {
	return c.Payment.CheckoutKey != ""
}

// InMemory reports whether identities and campuses are kept in process memory instead of Airtable.
func (c IdentityConfig) InMemory() bool {
	return c.Backend == "memory"
}

func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c AirtableConfig) String() string {
	return fmt.Sprintf("airtable(base=%q, configured=%t)", c.BaseID, c.APIKey != "" && c.BaseID != "")
}

// configDir is where .env files live; GRADEKART_CONFIG_DIR overrides "./config".
func configDir() string {
	if dir := os.Getenv("GRADEKART_CONFIG_DIR"); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	return filepath.Join(wd, "config")
}
