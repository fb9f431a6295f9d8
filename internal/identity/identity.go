package identity

import (
	"net/http"
	"strings"

	"github.com/frahmantamala/accessmodel-admin/internal"
)

// EmailNotFound is displayed in place of the caller email when the identity layer did
// not forward one, which is normal for local runs.
const EmailNotFound = "Email not found"

// Resolver reads the caller email from a header injected by a trusted proxy.
type Resolver struct {
	header string
}

func NewResolver(header string) *Resolver {
	if header == "" {
		header = internal.DefaultIdentityHeader
	}
	return &Resolver{header: header}
}

// Resolve returns the forwarded email and true, or "" and false when the header is
// missing or blank. It never fails.
func (r *Resolver) Resolve(headers http.Header) (string, bool) {
	if headers == nil {
		return "", false
	}
	email := strings.TrimSpace(headers.Get(r.header))
	if email == "" {
		return "", false
	}
	return email, true
}

// Display renders the resolved identity for the page header.
func Display(email string, ok bool) string {
	if !ok {
		return EmailNotFound
	}
	return email
}
