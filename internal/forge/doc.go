// Package forge reads pull request state from git hosting services.
//
// GitHub is queried through the gh CLI and GitLab through glab; wt never
// talks to a hosting API directly. The CLIs run inside the repository so they
// infer the project from its remotes.
//
// # Platform Detection
//
// Use [Detect] or [DetectFromRepo] to pick the forge. Detection checks:
//
//  1. forge.default from config
//  2. forge.hosts mappings (for self-hosted instances)
//  3. URL patterns (gitlab.com, gitlab.* domains)
//  4. Falls back to GitHub
//
// # Usage
//
//	f := forge.DetectFromRepo(ctx, root, "origin", cfg.Forge)
//	merged, closed, err := forge.Closed(ctx, f, root)
//
// States are normalized to OPEN, MERGED and CLOSED on both platforms.
// Never call gh or glab directly outside this package.
package forge
