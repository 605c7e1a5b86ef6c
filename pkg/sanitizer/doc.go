// Package sanitizer provides input normalization for registration data.
//
// All functions are idempotent - applying them multiple times produces the
// same result. Invalid input is handled gracefully, typically by returning
// an empty string rather than an error.
//
// Normalization includes:
//   - Names and addresses: collapse whitespace, trim leading/trailing spaces
//   - Cities: lowercase, strip non-letter characters - "Tel Aviv" becomes "telaviv"
//   - Identifiers: trimmed and lowercased for stable composite keys
package sanitizer
