package factories

import (
	"fmt"

	"spws/domain/sharepoint"
	"spws/infrastructure/config"
	"spws/infrastructure/spclient"
	"spws/spauth"
)

// FieldNamer returns the field namer selected by SP_FIELD_NAMING.
func FieldNamer(naming string) (sharepoint.FieldNamer, error) {
	switch naming {
	case "camel", "":
		return sharepoint.CamelCaseNamer{}, nil
	case "identity", "none":
		return sharepoint.IdentityNamer, nil
	default:
		return nil, fmt.Errorf("unsupported field naming %q", naming)
	}
}

// NewListsService builds an authenticated Lists service client.
func NewListsService(spCfg *config.SharePointConfig, authCfg spauth.Config) (*spclient.ListsService, error) {
	if spCfg.SiteURL == "" {
		spCfg.SiteURL = authCfg.SiteURL
	}

	namer, err := FieldNamer(spCfg.FieldNaming)
	if err != nil {
		return nil, err
	}

	client, err := spauth.NewClient(authCfg)
	if err != nil {
		return nil, fmt.Errorf("create SharePoint client: %w", err)
	}

	dispatcher := spclient.NewGosipDispatcher(client, spCfg.SiteURL, spCfg.RateLimit)
	files := spclient.NewGosipFileFetcher(client)

	return spclient.NewListsService(dispatcher, files, spclient.ListsServiceOptions{
		SiteURL:   spCfg.SiteURL,
		Namer:     namer,
		CacheSize: spCfg.ListCacheSize,
		CacheTTL:  spCfg.ListCacheTTL,
	}), nil
}
