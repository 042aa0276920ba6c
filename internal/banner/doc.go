// Package banner validates, sanitizes and shapes the banner slice of
// institution records: the title, subtitle and image shown at the top of an
// institution page.
//
// Write path: Middleware -> ApplyToBody -> ValidatePayload -> field
// validators and sanitizers. Read path: repository record -> Normalize ->
// Format -> client.
package banner
