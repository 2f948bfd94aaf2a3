// Package definition loads, saves and lints form definitions.
//
// Definitions are plain JSON or YAML documents. Parse accepts either and
// normalizes the result; Lint reports the problems the editor tolerates
// while a form is being authored, such as duplicate keys, formula cycles and
// visibility rules pointing at missing fields.
package definition
