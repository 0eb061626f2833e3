package spauth

import (
	"testing"

	"github.com/koltyakov/gosip/auth/addin"
	"github.com/koltyakov/gosip/auth/anon"
	"github.com/koltyakov/gosip/auth/azurecert"
	"github.com/koltyakov/gosip/auth/ntlm"
	"github.com/koltyakov/gosip/auth/saml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SP_AUTH_STRATEGY", "SP_SITE_URL", "SP_TENANT_ID", "SP_CLIENT_ID", "SP_CERT_PATH",
		"SP_CERT_PASSWORD", "SP_CLIENT_SECRET", "SP_REALM", "SP_DOMAIN", "SP_USERNAME", "SP_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectError bool
		strategy    string
	}{
		{
			name: "azurecert_default",
			env: map[string]string{
				"SP_SITE_URL":  "https://contoso.sharepoint.com/sites/finance",
				"SP_TENANT_ID": "tenant",
				"SP_CLIENT_ID": "client",
				"SP_CERT_PATH": "/certs/app.pfx",
			},
			strategy: StrategyAzureCert,
		},
		{
			name: "azurecert_missing_cert",
			env: map[string]string{
				"SP_SITE_URL":  "https://contoso.sharepoint.com",
				"SP_TENANT_ID": "tenant",
				"SP_CLIENT_ID": "client",
			},
			expectError: true,
			strategy:    StrategyAzureCert,
		},
		{
			name: "ntlm",
			env: map[string]string{
				"SP_AUTH_STRATEGY": "NTLM",
				"SP_SITE_URL":      "http://sharepoint.local/sites/finance",
				"SP_DOMAIN":        "CORP",
				"SP_USERNAME":      "svc",
				"SP_PASSWORD":      "pw",
			},
			strategy: StrategyNTLM,
		},
		{
			name: "saml_missing_password",
			env: map[string]string{
				"SP_AUTH_STRATEGY": "saml",
				"SP_SITE_URL":      "https://contoso.sharepoint.com",
				"SP_USERNAME":      "user@contoso.com",
			},
			expectError: true,
			strategy:    StrategySAML,
		},
		{
			name: "unknown_strategy",
			env: map[string]string{
				"SP_AUTH_STRATEGY": "kerberos",
				"SP_SITE_URL":      "https://contoso.sharepoint.com",
			},
			expectError: true,
			strategy:    "kerberos",
		},
		{
			name:        "missing_site",
			env:         map[string]string{"SP_AUTH_STRATEGY": "anon"},
			expectError: true,
			strategy:    StrategyAnonymous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := FromEnv()

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.strategy, cfg.Strategy)
		})
	}
}

func TestAuthConfig(t *testing.T) {
	site := "https://contoso.sharepoint.com/sites/finance"

	tests := []struct {
		name     string
		cfg      Config
		expected any
	}{
		{
			name:     "azurecert",
			cfg:      Config{SiteURL: site, TenantID: "t", ClientID: "c", CertPath: "p", CertPassword: "x"},
			expected: &azurecert.AuthCnfg{SiteURL: site, TenantID: "t", ClientID: "c", CertPath: "p", CertPass: "x"},
		},
		{
			name:     "addin",
			cfg:      Config{Strategy: StrategyAddin, SiteURL: site, ClientID: "c", ClientSecret: "s", Realm: "r"},
			expected: &addin.AuthCnfg{SiteURL: site, ClientID: "c", ClientSecret: "s", Realm: "r"},
		},
		{
			name:     "ntlm",
			cfg:      Config{Strategy: StrategyNTLM, SiteURL: site, Domain: "CORP", Username: "u", Password: "p"},
			expected: &ntlm.AuthCnfg{SiteURL: site, Domain: "CORP", Username: "u", Password: "p"},
		},
		{
			name:     "saml",
			cfg:      Config{Strategy: StrategySAML, SiteURL: site, Username: "u", Password: "p"},
			expected: &saml.AuthCnfg{SiteURL: site, Username: "u", Password: "p"},
		},
		{
			name:     "anon",
			cfg:      Config{Strategy: StrategyAnonymous, SiteURL: site},
			expected: &anon.AuthCnfg{SiteURL: site},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ac, err := AuthConfig(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ac)
			assert.Equal(t, site, ac.GetSiteURL())
		})
	}
}

func TestNewClient_UnknownStrategy(t *testing.T) {
	client, err := NewClient(Config{Strategy: "kerberos", SiteURL: "https://contoso.sharepoint.com"})
	assert.Nil(t, client)
	assert.Error(t, err)
}
