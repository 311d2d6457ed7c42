package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/unclepomedev/blender-init/internal/version"
	"github.com/unclepomedev/blender-init/pkg/config"
	"github.com/unclepomedev/blender-init/pkg/logging"
	"github.com/unclepomedev/blender-init/pkg/scaffold"
	"github.com/unclepomedev/blender-init/pkg/template"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// pterm styling is for humans on terminals only
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		pterm.DisableColor()
	}

	var (
		verbosity  int
		maintainer string
		force      bool
		dryRun     bool
	)

	rootCmd := &cobra.Command{
		Use:     "blender-init <addon-name>",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args[0], maintainer, force, dryRun)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.Flags().StringVarP(&maintainer, "maintainer", "m", "", MsgFlagMaintainer)
	rootCmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func runInit(cmd *cobra.Command, addonName, maintainer string, force, dryRun bool) error {
	logger := logging.GetLogger("cmd.init")
	logger.Info().
		Str("addon", addonName).
		Bool("force", force).
		Bool("dryRun", dryRun).
		Msg("Starting init")

	// Reject a bad name before any network work happens
	if err := scaffold.ValidateAddonName(addonName); err != nil {
		reportError(err)
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		reportError(err)
		return err
	}
	logger.Debug().Str("template", cfg.Template.RepoURL()).Msg("Using template repository")

	targetDir, err := os.Getwd()
	if err != nil {
		reportError(err)
		return err
	}

	pterm.Info.Println(MsgDownloading)
	fetcher := template.NewFetcher(cfg.Template)
	tree, err := fetcher.Fetch(cmd.Context())
	if err != nil {
		reportError(err)
		return err
	}

	pterm.Info.Println(MsgScaffolding)
	result, err := scaffold.Run(scaffold.Options{
		AddonName:  addonName,
		Maintainer: maintainer,
		TargetDir:  targetDir,
		Force:      force,
		DryRun:     dryRun,
		Config:     cfg,
		Tree:       tree,
	})
	if err != nil {
		if conflicts := scaffold.Conflicts(err); len(conflicts) > 0 {
			reportConflicts(conflicts)
		} else {
			reportError(err)
		}
		return err
	}

	if result.DryRun {
		pterm.Info.Println(MsgDryRunDone)
	} else {
		pterm.Success.Println(MsgDone)
	}
	return nil
}

// reportConflicts lists every colliding path, then the remedy
func reportConflicts(conflicts []string) {
	pterm.Error.Println(MsgConflicts)
	for _, p := range conflicts {
		fmt.Fprintf(os.Stderr, "  %s\n", p)
	}
	fmt.Fprintln(os.Stderr, MsgConflictFix)
}

func reportError(err error) {
	pterm.Error.Println(err.Error())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("blender-init version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}
