// Package cmd implements the permissiondemo CLI commands.
//
// The root command resolves permissiondemo.yaml and the logging setup; the
// subcommands (run, catalog, config, version) share the result.
package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-drift/permissiondemo/cmd/permissiondemo/internal/config"
	"github.com/go-drift/permissiondemo/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// EnvPrefix prefixes the environment variables bound to flags,
// e.g. PERMISSIONDEMO_LOG_LEVEL.
const EnvPrefix = "PERMISSIONDEMO"

// app is the state shared by the commands of one invocation.
type app struct {
	v   *viper.Viper
	log *logrus.Logger
	cfg *config.Resolved
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: logrus.New()}

	root := &cobra.Command{
		Use:   "permissiondemo",
		Short: "Permission rationale screen simulator",
		Long: `permissiondemo drives the permission rationale screen against a simulated
Android permission flow and draws the dialog stack after every step.

Settings come from permissiondemo.yaml in the project directory. Flags
override the file and can also be set through PERMISSIONDEMO_* environment
variables (for example PERMISSIONDEMO_LOG_LEVEL=debug).`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.String("dir", ".", "project directory containing permissiondemo.yaml")
	flags.String("log-level", "", `log level (trace, debug, info, warn, error) | example: --log-level=debug`)
	flags.Bool("verbose", false, "include stack traces in reported errors")

	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	// Only fails for a nil flag set.
	_ = a.v.BindPFlags(flags)

	root.AddCommand(
		newRunCmd(a),
		newCatalogCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	cfg, err := config.Resolve(a.v.GetString("dir"))
	if err != nil {
		return err
	}

	levelName := cfg.LogLevel
	if s := a.v.GetString("log-level"); s != "" {
		levelName = s
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	a.log.SetLevel(level)

	if a.v.GetBool("verbose") {
		cfg.Verbose = true
	}
	a.cfg = cfg

	errors.SetHandler(&errors.LogHandler{Logger: a.log, Verbose: cfg.Verbose})
	a.log.WithFields(logrus.Fields{
		"app":  cfg.AppName,
		"id":   cfg.AppID,
		"root": cfg.Root,
	}).Debug("configuration resolved")
	return nil
}
