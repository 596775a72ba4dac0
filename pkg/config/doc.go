// Package config loads kprof configuration documents.
//
// A [Loader] validates a document against its JSON schema, decodes it into
// the API type, and fills in defaults. [Load] applies this to the global
// configuration file, falling back to defaults when the file does not exist.
package config
