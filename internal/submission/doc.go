// Package submission validates a caller's payload against a form's field
// snapshot and produces the canonical record that gets stored.
//
// ValidateAndEncode is a pure function of its inputs. It reports every
// offending field at once, never stores anything, and only performs the
// coercions listed per kind: numeric strings become numbers, temporal values
// are rewritten in their canonical layout, and empty optional values are
// dropped. Running it again on its own output returns the same result.
package submission
