package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/investor"
	"github.com/startupsl/backend/core/stats"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf     *core.Config
	logger   core.Logger
	mailSvc  core.EmailService
	compSvc  *company.Service
	invSvc   *investor.Service
	statsSvc *stats.Service
	out      io.Writer
}

// helpCmd prints its usage and fails with errHelp. Used for the root and the command groups.
func helpCmd(use, short string, children ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	cmd.AddCommand(children...)
	return cmd
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := helpCmd("admin", cli.conf.AppName+" administration commands",
		helpCmd("investor", "Moderate investors", cli.investorStatusCmd()),
		helpCmd("stats", "Print platform statistics", cli.statsDashboardCmd(), cli.statsSectorsCmd()),
		helpCmd("export", "Export platform data", cli.exportCompaniesCmd()),
		cli.tokenCmd(),
	)
	root.SilenceUsage = true
	root.SilenceErrors = true
	return root
}

// run executes the command line args (program name included).
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	root.SetOut(cli.out)
	root.SetErr(cli.out)
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}
