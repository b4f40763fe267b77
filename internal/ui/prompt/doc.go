// Package prompt provides simple interactive prompts.
//
// Prompts render to stderr so stdout stays clean for piping
// (cd "$(wt select)" keeps working). When stdin is not a terminal they fall
// back to plain line input.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt
//   - [Select]: Single selection from a filterable list
package prompt
