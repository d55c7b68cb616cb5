package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ethanCharter/floatlog/pkg/config"
)

// initFlagVals is the package-level instance bound to cobra flags.
var initFlagVals initFlags

type initFlags struct {
	output   string
	force    bool
	defaults bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file",
	Long: `Create a floatlog configuration file.

Without --defaults an interactive form asks for the server address,
authentication, retention, and logging settings. The format follows
the output file extension (.yaml or .json).`,
	Example: `  # Interactive setup
  floatlog init

  # Write defaults without prompting
  floatlog init --defaults

  # Custom filename, overwrite if present
  floatlog init -o overlay.json --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(&initFlagVals)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	f := &initFlagVals
	initCmd.Flags().StringVarP(&f.output, "output", "o", "floatlog.yaml", "Output filename (.yaml or .json)")
	initCmd.Flags().BoolVar(&f.force, "force", false, "Overwrite an existing config file")
	initCmd.Flags().BoolVar(&f.defaults, "defaults", false, "Write default values without prompting")
}

func runInit(f *initFlags) error {
	if _, err := os.Stat(f.output); err == nil && !f.force {
		return fmt.Errorf("file already exists: %s (use --force to overwrite)", f.output)
	}

	cfg := config.Default()
	if !f.defaults {
		if err := runInitForm(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(f.output, cfg); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", f.output)
	fmt.Printf("Start the server with: floatlog serve --config %s\n", f.output)
	return nil
}

// runInitForm collects settings interactively into cfg.
func runInitForm(cfg *config.Config) error {
	port := strconv.Itoa(cfg.Server.Port)
	maxEntries := strconv.Itoa(cfg.Store.MaxEntries)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bind address").
				Description("Interface the overlay server listens on").
				Value(&cfg.Server.Host).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("host is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Port").
				Value(&port).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 || n > 65535 {
						return errors.New("port must be between 1 and 65535")
					}
					return nil
				}),
			huh.NewInput().
				Title("API key").
				Description("Leave empty to disable authentication").
				Value(&cfg.Server.APIKey),
			huh.NewInput().
				Title("Maximum retained entries").
				Description("Oldest entries are evicted beyond this; 0 keeps everything").
				Value(&maxEntries).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 0 {
						return errors.New("must be a non-negative integer")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&cfg.Log.Level),
			huh.NewSelect[string]().
				Title("Log format").
				Options(
					huh.NewOption("text", "text"),
					huh.NewOption("json", "json"),
				).
				Value(&cfg.Log.Format),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	// Validated above, so both parses succeed.
	cfg.Server.Port, _ = strconv.Atoi(port)
	cfg.Store.MaxEntries, _ = strconv.Atoi(maxEntries)
	return nil
}
