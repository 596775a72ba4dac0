// Package yaml wraps [github.com/goccy/go-yaml] with the decoding, encoding,
// validation and error reporting used for profile and configuration files.
//
// Errors returned from decoding and validation are [*Error] values carrying the
// offending token or YAML path, so callers can point at the failing line.
package yaml
