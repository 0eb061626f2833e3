package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SensitiveFields are attribute names whose values never reach the log output.
var SensitiveFields = []string{
	"password",
	"secret",
	"token",
	"cert_password",
	"client_secret",
	"authorization",
	"cookie",
}

// bearerPattern matches "Bearer <token>" values logged under any key.
var bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

// jwtPattern matches raw JWTs (header.payload.signature) such as the access
// tokens gosip attaches to requests.
var jwtPattern = regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`)

// newRedactAttr returns a masq ReplaceAttr that redacts sensitive fields by
// name and bearer tokens or JWTs by value.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(SensitiveFields)+3)
	for _, name := range SensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}
	opts = append(opts,
		masq.WithFieldPrefix("secret_"),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(jwtPattern),
	)
	return masq.New(opts...)
}
