package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/easy-worktree/wt/internal/config"
	"github.com/easy-worktree/wt/internal/log"
	"github.com/easy-worktree/wt/internal/output"
)

// layerFlags select the config file a command reads or writes.
type layerFlags struct {
	global bool
	local  bool
}

func (f *layerFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.global, "global", false, "Use the global config ("+globalConfigHint+")")
	cmd.Flags().BoolVar(&f.local, "local", false, "Use .wt/config.local.toml (not committed)")
	cmd.MarkFlagsMutuallyExclusive("global", "local")
}

const globalConfigHint = "$XDG_CONFIG_HOME/wt/config.toml"

func (f *layerFlags) layer() config.Layer {
	switch {
	case f.global:
		return config.LayerGlobal
	case f.local:
		return config.LayerLocal
	default:
		return config.LayerProject
	}
}

func (f *layerFlags) explicit() bool { return f.global || f.local }

// sources returns the layer files for the current repository, or only the
// global one outside a repository.
func (a *app) sources() config.Sources {
	if a.proj == nil {
		return config.SourcesFor("")
	}
	return a.proj.Sources()
}

// layerPath returns the file backing l, failing outside a repository for
// the project layers.
func (a *app) layerPath(l config.Layer) (string, error) {
	p := a.sources().Path(l)
	if p == "" {
		if l == config.LayerGlobal {
			return "", fmt.Errorf("cannot locate the global config directory")
		}
		_, err := a.project()
		return "", err
	}
	return p, nil
}

// effectiveDocument merges every readable layer over the defaults.
func (a *app) effectiveDocument() config.Document {
	src := a.sources()
	var docs []config.Document
	for _, l := range []config.Layer{config.LayerGlobal, config.LayerProject, config.LayerLocal} {
		path := src.Path(l)
		if path == "" {
			continue
		}
		doc, err := config.ReadDocument(path)
		if err != nil {
			// Load already warned about broken layers
			continue
		}
		docs = append(docs, doc)
	}
	return config.Effective(docs...)
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Read and write configuration",
		GroupID: GroupConfig,
		Long: `Read and write wt configuration.

Configuration is layered, later layers win:
  global   ` + globalConfigHint + `
  project  .wt/config.toml (committed)
  local    .wt/config.local.toml (ignored by git)

Keys use dots for nested tables, e.g. diff.tool. Values are parsed as TOML
when possible, so [".env", "config/*.yml"] sets a list.`,
	}

	cmd.AddCommand(newConfigGetCmd(a))
	cmd.AddCommand(newConfigSetCmd(a))
	cmd.AddCommand(newConfigUnsetCmd(a))
	cmd.AddCommand(newConfigShowCmd(a))

	return cmd
}

func newConfigGetCmd(a *app) *cobra.Command {
	var layers layerFlags

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a configuration value",
		Args:  cobra.ExactArgs(1),
		Long: `Print a configuration value.

Without --global or --local the effective value after layering is printed.
With one of them only that file is consulted.`,
		Example: `  wt config get worktrees_dir
  wt config get --local remote`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			key := args[0]

			var (
				v  config.Value
				ok bool
			)
			if layers.explicit() {
				path, err := a.layerPath(layers.layer())
				if err != nil {
					return err
				}
				if v, ok, err = config.GetKey(path, key); err != nil {
					return err
				}
			} else {
				v, ok = a.effectiveDocument().Get(key)
			}
			if !ok {
				return fmt.Errorf("key %s is not set", key)
			}
			out.Println(v.String())
			return nil
		},
	}

	layers.register(cmd)
	return cmd
}

func newConfigSetCmd(a *app) *cobra.Command {
	var layers layerFlags

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		Long: `Set a value in the project config, or with --global / --local in
that file. The file is created when missing; other keys and tables are
kept.`,
		Example: `  wt config set worktrees_dir ../wt
  wt config set setup_files '[".env", ".envrc"]'
  wt config set --global diff.tool vimdiff`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.layerPath(layers.layer())
			if err != nil {
				return err
			}
			if err := config.SetKey(path, args[0], config.ParseValue(args[1])); err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Debug("config set", "file", path, "key", args[0])
			return nil
		},
	}

	layers.register(cmd)
	return cmd
}

func newConfigUnsetCmd(a *app) *cobra.Command {
	var layers layerFlags

	cmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.layerPath(layers.layer())
			if err != nil {
				return err
			}
			return config.UnsetKey(path, args[0])
		},
	}

	layers.register(cmd)
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		Example: `  wt config show
  wt config show --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := output.FromContext(cmd.Context()).Writer()
			doc := a.effectiveDocument().ToTOML()

			switch format {
			case "toml":
				return toml.NewEncoder(w).Encode(doc)
			case string(output.FormatJSON), string(output.FormatYAML):
				return output.Encode(w, output.Format(format), doc)
			default:
				return usagef("invalid format %q, use toml, json or yaml", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")
	cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"toml", string(output.FormatJSON), string(output.FormatYAML)}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
