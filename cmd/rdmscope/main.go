// Rdmscope decodes RDM (ANSI E1.20 Remote Device Management) messages.
//
// It decodes single messages given as hex, replays capture files, builds
// messages for testing, serves a websocket ingest endpoint for capture tools
// and browses for RDMnet brokers.
//
// Usage:
//
//	rdmscope [command] [flags]
//
// See 'rdmscope --help' for available commands.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/rdmscope/internal/config"
	"github.com/muurk/rdmscope/internal/logging"
	"github.com/muurk/rdmscope/internal/rdm"
	"github.com/muurk/rdmscope/internal/render"
	"github.com/muurk/rdmscope/internal/ui"
	"github.com/muurk/rdmscope/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	logLevel   string
	configPath string
	format     string
	showHeader bool
	indentJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "rdmscope",
	Short: "RDM message decoder",
	Long: `Decode RDM (ANSI E1.20 Remote Device Management) messages into an
annotated field tree.

Every byte of the message is accounted for: envelope fields, parameter data
decoded per PID and command class (E1.20, E1.37-1, E1.37-2 and manufacturer
specific parameters), the checksum and anything after it.

Manufacturer specific parameters are decoded from built-in overlays and from
the vendors section of the config file.`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default from "+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default from "+config.ConfigPathEnvVar+" or the user config dir)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "o", "", "Output format (text, json, cbor); default from config")
	rootCmd.PersistentFlags().BoolVar(&showHeader, "header", true, "Show envelope fields, not just parameter data")
	rootCmd.PersistentFlags().BoolVar(&indentJSON, "indent", false, "Indent JSON output")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get().String())
	},
}

// app is the per-invocation state shared by commands
type app struct {
	registry     *config.Registry
	registryPath string
	resolver     *rdm.VendorResolver
	decoder      *rdm.Decoder
}

// setup loads the config file and builds the decoder from it
func setup() (*app, error) {
	var (
		reg  *config.Registry
		path = configPath
		err  error
	)
	if path == "" {
		reg, err = config.LoadRegistry()
		if err != nil {
			return nil, err
		}
		path, _ = config.GetConfigPath()
	} else if reg, err = config.LoadFile(path); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	overlays, err := reg.Overlays()
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	resolver := rdm.DefaultVendorResolver().With(overlays...)

	return &app{
		registry:     reg,
		registryPath: path,
		resolver:     resolver,
		decoder: rdm.NewDecoder(
			rdm.WithResolver(resolver),
			rdm.WithManufacturerNames(reg.ManufacturerNames()),
			rdm.WithLogger(logging.GetLogger()),
		),
	}, nil
}

// renderOptions combines flags with config preferences. Flags win when set.
func (a *app) renderOptions(cmd *cobra.Command) render.Options {
	opts := render.Options{
		ShowHeader: a.registry.Preferences.ShowHeader,
		Nicknames:  a.registry.Nicknames(),
	}
	if cmd.Flags().Changed("header") {
		opts.ShowHeader = showHeader
	}
	return opts
}

func (a *app) outputFormat() string {
	for _, f := range []string{format, a.registry.Preferences.Format} {
		if f != "" {
			return strings.ToLower(f)
		}
	}
	return render.FormatText
}

// renderer returns the renderer for the selected format, styled for stdout
func (a *app) renderer(cmd *cobra.Command) (render.Renderer, error) {
	r, err := render.New(a.outputFormat(), a.renderOptions(cmd))
	if err != nil {
		return nil, err
	}
	switch r := r.(type) {
	case *render.Text:
		r.Styles = ui.StylesFor(os.Stdout)
	case *render.JSON:
		r.Indent = indentJSON
	}
	return r, nil
}

// remember records the UIDs of a decoded message as seen now
func (a *app) remember(res *rdm.Result) {
	if res == nil || res.Header == nil || res.Parameter == nil {
		return
	}
	for _, uid := range []rdm.UID{res.Header.Source, res.Header.Destination} {
		if !uid.IsBroadcast() {
			a.registry.UpdateDeviceLastSeen(uid)
		}
	}
}
