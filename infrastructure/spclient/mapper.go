package spclient

import (
	"net/url"
	"strings"

	"spws/domain/sharepoint"
)

// joinURL safely joins a base URL with a relative path
func joinURL(base, rel string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	if strings.HasPrefix(rel, "/") {
		u.Path = rel
		return u.String()
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.Path += rel
	return u.String()
}

// fileURL resolves a file reference against the site. References may be
// absolute URLs, server-relative paths, or rowset FileRef values ("12;#path").
func fileURL(siteURL, ref string) string {
	ref = strings.TrimSpace(sharepoint.LookupValue(ref))
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return joinURL(siteURL, ref)
}

// firstNonEmpty returns the first non-empty string from the provided values
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
