// Package fieldtype is the closed registry of form field kinds.
//
// Each kind has exactly one configuration shape. Config is a sum type: the
// concrete struct returned by DecodeConfig is selected by the kind, so a
// NUMBER field can never carry a TEXT length bound. Keys that belong to
// another kind, or that no kind knows yet, are dropped on decode rather than
// rejected, which keeps stored forms readable when new keys are introduced.
package fieldtype
