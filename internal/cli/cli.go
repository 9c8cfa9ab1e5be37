// Package cli implements the create-importmap command-line interface.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/create-importmap/pkg/buildinfo"
	"github.com/matzehuels/create-importmap/pkg/config"
	"github.com/matzehuels/create-importmap/pkg/pipeline"
)

const appName = "create-importmap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogWarn  = log.WarnLevel
)

// CLI holds shared state for the command.
type CLI struct {
	Logger *log.Logger

	// errOut receives human-readable summaries; stdout is never written on success.
	errOut io.Writer
}

// New creates a CLI whose logger and summaries go to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		errOut: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the create-importmap command.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		configFile string
		verbose    bool
	)

	root := &cobra.Command{
		Use:   appName + " [flags]",
		Short: "Generate a browser import map from package.json dependencies",
		Long: `create-importmap reads the dependencies declared in package.json, locates
them in node_modules and writes an import map for the browser.

With --js the map is written as a script that installs a
<script type="importmap"> element next to itself, resolving every relative
URL against the script's own location.`,
		Example: `  create-importmap
  create-importmap --dev --out public/importmap.json
  create-importmap --js --minify -O public/importmap.js`,
		Args:          cobra.NoArgs,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.New(), cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			level := cfg.Level()
			if verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			return c.run(cmd, cfg)
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	flags := root.Flags()
	flags.BoolP(config.KeyDev, "D", false, "include devDependencies")
	flags.BoolP(config.KeyJS, "S", false, "write a self-installing script instead of JSON")
	flags.StringP(config.KeyBase, "B", ".", "directory containing package.json")
	flags.StringP(config.KeyOut, "O", "", "output file, relative to --base (default importmap.json, or importmap.js with --js)")
	flags.StringSlice(config.KeyConditions, nil, "package exports conditions in priority order (default browser,import,default)")
	flags.Bool(config.KeyMinify, false, "minify the script written with --js")
	flags.String(config.KeyInputMap, "", "import map merged over the generated one")
	flags.String(config.KeyLogLevel, "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&configFile, "config", "", "config file (default .importmaprc.* in the base directory)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	return root
}

func (c *CLI) run(cmd *cobra.Command, cfg *config.Config) error {
	logger := loggerFromContext(cmd.Context())
	logger.Debug(appName, "version", buildinfo.Version, "commit", buildinfo.Commit, "built", buildinfo.Date, "base", cfg.Base)
	prog := newProgress(logger)

	runner := pipeline.NewRunner(logger)
	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		BaseDir:    cfg.Base,
		OutputPath: cfg.OutputPath(),
		IncludeDev: cfg.Dev,
		JS:         cfg.JS,
		Minify:     cfg.Minify,
		InputMap:   cfg.InputMap,
		Conditions: cfg.Conditions,
	})
	if err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Wrote %s", result.OutputPath))
	if logger.GetLevel() <= log.DebugLevel {
		printSummary(c.errOut, result)
	}
	return nil
}
