// Package validation produces the per-field errors map the presentation layer
// renders and a submit action checks. Errors are recoverable: they never
// block editing, only submission.
package validation
