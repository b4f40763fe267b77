// Package config resolves wt's effective configuration from layered TOML documents.
//
// # Layers (lowest precedence first)
//
//   - global:  $XDG_CONFIG_HOME/wt/config.toml (or ~/.config/wt/config.toml)
//   - project: <root>/.wt/config.toml, committed with the repository
//   - local:   <root>/.wt/config.local.toml, gitignored
//
// Each layer is parsed into a [Document], a tree of [Value] nodes that are
// either scalars, sequences or mappings. Layers are folded over [Defaults]
// with [Merge]: tables merge key by key, everything else (including arrays)
// is replaced by the higher layer. A layer that cannot be read, parsed or
// validated is skipped and reported as a [LoadWarning].
//
// # Keys
//
//	worktrees_dir    = ".worktrees"   # relative to the project root
//	setup_files      = [".env"]       # copied into new worktrees
//	setup_source_dir = ""             # default: the project root
//	remote           = "origin"
//
//	[diff]
//	tool = "default"                  # or any git difftool name
//
//	[log]
//	file = ""                         # optional JSON trace log
//
// `wt config get/set` operate on a single layer file through [GetKey] and
// [SetKey], never on the merged view.
package config
