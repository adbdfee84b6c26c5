// Package terminal is the command line front end: it runs scenario files,
// offers an interactive step prompt and shows the run journal.
package terminal

import (
	"io"

	"ui_workflows/infrastructure/config"
	"ui_workflows/infrastructure/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	v         *viper.Viper
	envFile   string
	cfg       config.Config
	logger    *logrus.Logger
	logCloser io.Closer
}

// NewRootCommand - builds the ui-workflows command tree
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "ui-workflows",
		Short:         "Runs notification and import scenarios against the platform web UI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.envFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger, a.logCloser = logging.New(logging.Options{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				File:   cfg.LogFile,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logCloser != nil {
				return a.logCloser.Close()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", ".env", "optional dotenv file loaded before reading the environment")
	flags.String("base-url", "", "platform web UI address (BASE_URL)")
	flags.Bool("headless", true, "run the browser without a window (HEADLESS)")
	flags.Int("slow-mo-ms", 0, "delay between browser operations in milliseconds (SLOW_MO_MS)")
	flags.String("state-dir", "", "directory for the browser session and run journal (STATE_DIR)")
	flags.String("log-level", "", "log level (LOG_LEVEL)")

	bind := map[string]string{
		config.KeyBaseURL:  "base-url",
		config.KeyHeadless: "headless",
		config.KeySlowMoMs: "slow-mo-ms",
		config.KeyStateDir: "state-dir",
		config.KeyLogLevel: "log-level",
	}
	for key, flag := range bind {
		// only flags given on the command line override the environment
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		newRunCommand(a),
		newInteractiveCommand(a),
		newHistoryCommand(a),
	)
	return root
}
