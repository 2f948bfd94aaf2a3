// Package model defines the form definition shared by the builder and the
// runtime engine. A FormDefinition is plain data: it serialises to JSON with
// the camelCase names storage collaborators expect, and every consumer reads
// fields by their Key. Keys are expected to be unique; lookups resolve the
// first match when they are not. Record carries the end user's values keyed
// the same way.
package model
