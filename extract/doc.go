// Package extract recovers a JSON object from free-form model output.
//
// # Extraction
//
// [Object] finds the first '{' in the text and scans forward keeping a brace
// depth counter. The block ends at the '}' that brings the depth back to zero.
// Only brace balance is checked, not JSON syntax.
//
// # Known Limitations
//
// These are defined behavior, not bugs:
//
//   - Only the first balanced block is considered. In
//     `blah {"a":1} blah {"b":2}` the result is `{"a":1}` even if the second
//     block is the intended payload.
//   - Braces inside JSON string literals are counted like any other brace.
//     `{"s": "}"}` ends after the first '}' and the result fails to parse.
//
// # Parsing
//
// [Parse] extracts and then decodes strictly; [ParseRepair] additionally runs
// a failed block through jsonrepair before giving up. Numbers are decoded as
// [encoding/json.Number] so integer and float literals stay distinguishable.
package extract
