package spauth

import (
	"fmt"
	"os"
	"strings"

	"github.com/koltyakov/gosip"
	"github.com/koltyakov/gosip/auth/addin"
	"github.com/koltyakov/gosip/auth/anon"
	"github.com/koltyakov/gosip/auth/azurecert"
	"github.com/koltyakov/gosip/auth/ntlm"
	"github.com/koltyakov/gosip/auth/saml"

	"spws/logging"
)

// Supported authentication strategies.
const (
	StrategyAzureCert = "azurecert"
	StrategyAddin     = "addin"
	StrategyNTLM      = "ntlm"
	StrategySAML      = "saml"
	StrategyAnonymous = "anon"
)

type Config struct {
	Strategy string
	SiteURL  string

	// azurecert
	TenantID     string
	ClientID     string
	CertPath     string
	CertPassword string

	// addin
	ClientSecret string
	Realm        string

	// ntlm, saml
	Domain   string
	Username string
	Password string
}

func FromEnv() (Config, error) {
	// Environment should already be loaded by main.go
	cfg := Config{
		Strategy:     strings.ToLower(strings.TrimSpace(os.Getenv("SP_AUTH_STRATEGY"))),
		SiteURL:      os.Getenv("SP_SITE_URL"),
		TenantID:     os.Getenv("SP_TENANT_ID"),
		ClientID:     os.Getenv("SP_CLIENT_ID"),
		CertPath:     os.Getenv("SP_CERT_PATH"),
		CertPassword: os.Getenv("SP_CERT_PASSWORD"),
		ClientSecret: os.Getenv("SP_CLIENT_SECRET"),
		Realm:        os.Getenv("SP_REALM"),
		Domain:       os.Getenv("SP_DOMAIN"),
		Username:     os.Getenv("SP_USERNAME"),
		Password:     os.Getenv("SP_PASSWORD"),
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyAzureCert
	}
	return cfg, cfg.Validate()
}

// Validate checks that the settings required by the selected strategy are present.
func (c Config) Validate() error {
	var missing []string
	require := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	require("SP_SITE_URL", c.SiteURL)
	switch c.Strategy {
	case StrategyAzureCert, "":
		require("SP_TENANT_ID", c.TenantID)
		require("SP_CLIENT_ID", c.ClientID)
		require("SP_CERT_PATH", c.CertPath)
	case StrategyAddin:
		require("SP_CLIENT_ID", c.ClientID)
		require("SP_CLIENT_SECRET", c.ClientSecret)
	case StrategyNTLM, StrategySAML:
		require("SP_USERNAME", c.Username)
		require("SP_PASSWORD", c.Password)
	case StrategyAnonymous:
	default:
		return fmt.Errorf("unsupported SP_AUTH_STRATEGY %q", c.Strategy)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration for %s: %s", c.strategy(), strings.Join(missing, ", "))
	}
	return nil
}

func (c Config) strategy() string {
	if c.Strategy == "" {
		return StrategyAzureCert
	}
	return c.Strategy
}

// AuthConfig returns the gosip auth configuration for the selected strategy.
func AuthConfig(cfg Config) (gosip.AuthCnfg, error) {
	switch cfg.strategy() {
	case StrategyAzureCert:
		return &azurecert.AuthCnfg{
			SiteURL:  cfg.SiteURL,
			TenantID: cfg.TenantID,
			ClientID: cfg.ClientID,
			CertPath: cfg.CertPath,
			CertPass: cfg.CertPassword,
		}, nil
	case StrategyAddin:
		return &addin.AuthCnfg{
			SiteURL:      cfg.SiteURL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Realm:        cfg.Realm,
		}, nil
	case StrategyNTLM:
		return &ntlm.AuthCnfg{
			SiteURL:  cfg.SiteURL,
			Domain:   cfg.Domain,
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case StrategySAML:
		return &saml.AuthCnfg{
			SiteURL:  cfg.SiteURL,
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case StrategyAnonymous:
		return &anon.AuthCnfg{SiteURL: cfg.SiteURL}, nil
	default:
		return nil, fmt.Errorf("unsupported auth strategy %q", cfg.Strategy)
	}
}

func NewClient(cfg Config) (*gosip.SPClient, error) {
	ac, err := AuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	logging.Default().Security("SharePoint client configured",
		"strategy", cfg.strategy(),
		"site_url", cfg.SiteURL,
		"client_id", cfg.ClientID,
		"username", cfg.Username)
	client := &gosip.SPClient{AuthCnfg: ac}
	return client, nil
}
