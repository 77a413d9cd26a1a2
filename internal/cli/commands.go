package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vengaer/conftool"
	"github.com/vengaer/conftool/kv"
)

const flagDryRun = "dry-run"

// exactArgs is cobra.ExactArgs with the argument names in the message.
func exactArgs(names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != len(names) {
			return usageError("%s expects %d argument(s) (%s), got %d",
				cmd.CommandPath(), len(names), strings.Join(names, " "), len(args))
		}
		return nil
	}
}

func (a *app) newListCmd() *cobra.Command {
	var (
		all          bool
		show         string
		dependencies string
		dependents   string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalog options",
		Long: `List catalog options.

Without flags, prints the name of every option in catalog order.`,
		Args: exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			tool, err := a.open(false)
			if err != nil {
				return err
			}

			switch {
			case show != "":
				e, err := tool.Show(show)
				if err != nil {
					return failure(err)
				}
				fmt.Fprintln(a.stdout, e)
			case dependencies != "":
				deps, err := tool.Dependencies(dependencies)
				if err != nil {
					return failure(err)
				}
				a.colors.printList(a.stdout, dependencies, deps)
			case dependents != "":
				deps, err := tool.Dependents(dependents)
				if err != nil {
					return failure(err)
				}
				a.colors.printList(a.stdout, dependents, deps)
			case all:
				for _, e := range tool.Catalog().Entries() {
					fmt.Fprintln(a.stdout, &e)
				}
			default:
				for _, name := range tool.Catalog().Names() {
					fmt.Fprintln(a.stdout, name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show every option in full")
	cmd.Flags().StringVar(&show, "show", "", "Show a single option")
	cmd.Flags().StringVar(&dependencies, "dependencies", "", "List the transitive dependencies of an option")
	cmd.Flags().StringVar(&dependents, "dependents", "", "List the options that transitively depend on an option")
	cmd.MarkFlagsMutuallyExclusive("all", "show", "dependencies", "dependents")
	return cmd
}

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file against the catalog",
		Args:  exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			tool, err := a.open(false)
			if err != nil {
				return err
			}

			result, err := tool.Validate()
			if err != nil {
				return failure(err)
			}
			for _, msg := range result.Messages() {
				a.colors.warning.Fprintln(a.stderr, msg)
			}
			if err := result.Err(); err != nil {
				return failure(err)
			}

			a.colors.success.Fprintf(a.stdout, "%s is valid\n", tool.ConfigPath())
			return nil
		},
	}
}

// mutation runs fn against a tool and reports the resulting diff. Dry runs
// print the diff; real runs log it.
func (a *app) mutation(cmd *cobra.Command, fn func(*conftool.Tool) (*kv.Diff, error)) error {
	dryRun, _ := cmd.Flags().GetBool(flagDryRun)
	tool, err := a.open(dryRun)
	if err != nil {
		return err
	}

	diff, err := fn(tool)
	if err != nil {
		return failure(err)
	}

	if dryRun {
		a.colors.printDiff(a.stdout, diff)
		return nil
	}
	a.logger.Info("updated config", "path", tool.ConfigPath(), "changes", diff.TotalChanges())
	return nil
}

func addDryRunFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().Bool(flagDryRun, false, "Print the changes instead of writing them")
	return cmd
}

func (a *app) newEnableCmd() *cobra.Command {
	return addDryRunFlag(&cobra.Command{
		Use:   "enable OPTION",
		Short: "Enable a switch and everything it depends on",
		Args:  exactArgs("OPTION"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutation(cmd, func(t *conftool.Tool) (*kv.Diff, error) {
				return t.Enable(args[0])
			})
		},
	})
}

func (a *app) newDisableCmd() *cobra.Command {
	return addDryRunFlag(&cobra.Command{
		Use:   "disable OPTION",
		Short: "Disable a switch and everything that depends on it",
		Args:  exactArgs("OPTION"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutation(cmd, func(t *conftool.Tool) (*kv.Diff, error) {
				return t.Disable(args[0])
			})
		},
	})
}

func (a *app) newSetCmd() *cobra.Command {
	return addDryRunFlag(&cobra.Command{
		Use:   "set OPTION VALUE",
		Short: "Assign a value to an option",
		Long: `Assign a value to an option.

Setting a switch to n disables everything that depends on it; any other
assignment enables everything the option depends on.`,
		Args: exactArgs("OPTION", "VALUE"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutation(cmd, func(t *conftool.Tool) (*kv.Diff, error) {
				return t.Set(args[0], args[1])
			})
		},
	})
}

func (a *app) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate configuration files",
		Args:  exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usageError("%s requires a subcommand", cmd.CommandPath())
		},
	}

	cmd.AddCommand(addDryRunFlag(&cobra.Command{
		Use:   "defconfig",
		Short: "Write the default configuration",
		Long: `Write the default configuration.

Every option whose dependencies are all switches enabled by default is
written with its default value; the existing file is replaced.`,
		Args: exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.mutation(cmd, func(t *conftool.Tool) (*kv.Diff, error) {
				return t.Defconfig()
			})
		},
	}))
	return cmd
}

func (a *app) newGraphCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the option dependency graph",
		Args:  exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch format {
			case "text", "dot", "json":
			default:
				return usageError("unknown graph format %q (want text, dot or json)", format)
			}

			tool, err := a.open(false)
			if err != nil {
				return err
			}
			g := tool.Graph()

			switch format {
			case "dot":
				if err := g.ToDOT(a.stdout); err != nil {
					return failure(err)
				}
			case "json":
				data, err := g.ToJSON()
				if err != nil {
					return failure(err)
				}
				fmt.Fprintln(a.stdout, string(data))
			default:
				fmt.Fprint(a.stdout, g.ToText())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, dot or json")
	return cmd
}
