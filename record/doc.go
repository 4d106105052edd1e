// Package record implements structured records with post-construction
// normalization and derived fields.
//
// A Schema is a static declaration table. Construction runs in two phases:
//  1. every settable field is normalized from its raw input (custom
//     normalizer, coercion to the declared kind, constraints, defaults);
//  2. every derived field is computed from the normalized record.
//
// Construction is all-or-nothing: either a complete Record is returned or a
// *ValidationError listing every offending field. Values that fail
// normalization on a field declared with the UseDefault policy are repaired
// silently; repairs are available through Record.Repairs and are logged only
// when a logger is supplied with options.WithRepairLogger.
package record
