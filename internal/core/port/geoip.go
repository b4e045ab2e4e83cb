package port

import "context"

// GeoIPResolver derives a country code from a client IP address.
// Resolution is best-effort: implementations return nil (not an error)
// when the lookup fails or the address is private.
type GeoIPResolver interface {
	CountryCode(ctx context.Context, ip string) *string
}
