package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/depgate/internal/core/domain"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	var (
		strict      bool
		interpreter string
		module      string
		minVersion  string
		versionAttr string
	)

	cmd := &cobra.Command{
		Use:   "check [probes...]",
		Short: "Run dependency probes and print their found flags",
		Long: `Run the probes of the plan file (or just the named probes and their
prerequisites) and print one NAME=true|false line per probe, plus a
NAME_VERSION line when the dependency was found.

With --module, a single ad-hoc probe runs instead of the plan file.

A not-found dependency does not fail the command; the surrounding build
decides how to react to the printed flags. Pass --strict to exit non-zero
when any probe reports not found.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				results []domain.Result
				err     error
			)

			if module != "" {
				probe, perr := adHocProbe(interpreter, module, minVersion, versionAttr)
				if perr != nil {
					return perr
				}
				var result domain.Result
				result, err = c.app.CheckProbe(cmd.Context(), probe)
				results = []domain.Result{result}
			} else {
				configPath, ferr := cmd.Flags().GetString("config")
				if ferr != nil {
					return ferr
				}
				results, err = c.app.Check(cmd.Context(), configPath, args)
			}
			if err != nil {
				return err
			}

			allFound := true
			for _, result := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%t\n", variableName(result.Probe.String()), result.Found)
				if result.Found && result.Version != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s_VERSION=%s\n", variableName(result.Probe.String()), result.Version)
				}
				if !result.Found {
					allFound = false
				}
			}

			if strict && !allFound {
				return domain.ErrDependencyNotSatisfied
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any probe reports not found")
	cmd.Flags().StringVar(&interpreter, "interpreter", "python", "Interpreter for an ad-hoc probe")
	cmd.Flags().StringVar(&module, "module", "", "Module for an ad-hoc probe, bypassing the plan file")
	cmd.Flags().StringVar(&minVersion, "min-version", "", "Minimum major.minor version for an ad-hoc probe")
	cmd.Flags().StringVar(&versionAttr, "version-attr", domain.DefaultVersionAttr, "Module attribute holding the version")

	return cmd
}

func adHocProbe(interpreter, module, minVersion, versionAttr string) (*domain.Probe, error) {
	probe := &domain.Probe{
		Name:        domain.NewInternedString(module),
		Interpreter: interpreter,
		Module:      module,
		VersionAttr: versionAttr,
	}
	if minVersion != "" {
		mv, err := domain.ParseMinVersion(minVersion)
		if err != nil {
			return nil, err
		}
		probe.MinVersion = mv
	}
	return probe, nil
}

// variableName turns a probe name into the shape build systems expect for
// variables: upper-case with non-alphanumerics mapped to underscores.
func variableName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	return strings.ToUpper(mapped)
}
