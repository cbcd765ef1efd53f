package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"pbfiles/internal/config"
	"pbfiles/internal/logger"
	"pbfiles/internal/model"

	"github.com/spf13/cobra"
)

// session is the state shared by a command tree during one invocation.
type session struct {
	stdout     io.Writer
	build      Builder
	configPath string
	debug      bool
	cfg        *config.Config
}

func (s *session) preRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	s.cfg = cfg

	logger.Init(s.debug || cfg.Debug)
	return nil
}

// withApp builds the App, runs fn and releases the App.
func (s *session) withApp(fn func(app *App) error) error {
	defer logger.Sync()

	app, err := s.build(s.cfg, s.stdout)
	if err != nil {
		return err
	}

	defer func(app *App) {
		_ = app.Close()
	}(app)

	return fn(app)
}

func (s *session) bindPersistent(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&s.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&s.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/pbfiles/config.yaml)")
	cmd.PersistentPreRunE = s.preRun
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(s.stdout)
}

// NewRootCommand returns the combined pbfiles command with copy, paste,
// move and history subcommands.
func NewRootCommand(stdout io.Writer, build Builder) *cobra.Command {
	s := &session{stdout: stdout, build: build}

	root := &cobra.Command{
		Use:   "pbfiles",
		Short: "Move files through the clipboard",
	}
	s.bindPersistent(root)

	root.AddCommand(
		newToolCommand(s, CopyTool(), "copy"),
		newToolCommand(s, PasteTool(), "paste"),
		newToolCommand(s, MoveTool(), "move"),
		newHistoryCommand(s),
	)
	return root
}

// NewToolCommand returns the standalone command for tool.
func NewToolCommand(tool Tool, stdout io.Writer, build Builder) *cobra.Command {
	s := &session{stdout: stdout, build: build}
	c := newToolCommand(s, tool, "")
	s.bindPersistent(c)
	return c
}

func newToolCommand(s *session, tool Tool, name string) *cobra.Command {
	use := tool.Use
	if name != "" {
		use = name + use[len(tool.Name):]
	}

	c := &cobra.Command{
		Use:   use,
		Short: tool.Short,
		Long:  tool.Long,
	}

	if tool.Kind == ToolCopy {
		c.Args = copyArgs
		c.RunE = func(cmd *cobra.Command, args []string) error {
			return s.withApp(func(app *App) error {
				return app.CopyToClipboard(args)
			})
		}
		return c
	}

	var force, dryRun bool
	c.Flags().BoolVarP(&force, "force", "f", false, "force overwrite files that exists")
	c.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print what would be transferred without doing it")
	c.Args = pasteArgs
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return s.withApp(func(app *App) error {
			return app.Paste(args[0], PasteOptions{
				Mode:   tool.Mode,
				Force:  force,
				DryRun: dryRun,
			})
		})
	}
	return c
}

func copyArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return model.NewError(model.KindNotEnoughArguments, "", "Need at least one file path")
	}
	return nil
}

func pasteArgs(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0 || args[0] == "":
		return model.NewError(model.KindNotEnoughArguments, "", "Need target directory")
	case len(args) > 1:
		return model.NewError(model.KindTooManyArguments, "",
			fmt.Sprintf("expected one target directory, got %d", len(args)))
	}
	return nil
}

// Run executes c with args and returns the process exit code. Errors are
// reported on stdout.
func Run(c *cobra.Command, args []string, stdout io.Writer) int {
	c.SetArgs(args)
	if err := c.Execute(); err != nil {
		_, _ = fmt.Fprintln(stdout, err)
		return 1
	}
	return 0
}

// Execute runs pbfiles, or the standalone tool named by the executable
// when it is invoked through a pbcopyf, pbpastef or pbmovef link.
func Execute() {
	if tool, ok := ToolByName(filepath.Base(os.Args[0])); ok {
		ExecuteTool(tool)
		return
	}
	os.Exit(Run(NewRootCommand(os.Stdout, BuildApp), os.Args[1:], os.Stdout))
}

func ExecuteTool(tool Tool) {
	os.Exit(Run(NewToolCommand(tool, os.Stdout, BuildApp), os.Args[1:], os.Stdout))
}
