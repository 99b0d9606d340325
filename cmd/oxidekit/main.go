// Command oxidekit is the thin Cobra-based entry point for the runtime:
// "run" boots a window from an oxide.toml manifest, "validate" checks a
// manifest without opening one. The external compiler and build tooling
// that would turn a .oui source file into a CIR tree are out of scope here
// (§4.10); "run" always starts from the runtime's built-in demo tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oxidekit/oxidekit-core/internal/app"
	"github.com/oxidekit/oxidekit-core/internal/config"
	"github.com/oxidekit/oxidekit-core/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "oxidekit",
	Short: "OxideKit runtime CLI",
	Long:  "oxidekit runs and validates OxideKit application manifests (oxide.toml).",
}

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Run an OxideKit application",
	Long:  "Run loads an oxide.toml manifest (or the built-in defaults when no path is given) and opens the application window.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		manifest, err := loadManifest(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// No compiler stage exists at this layer (§4.10): the runtime
		// always starts from its own demo tree until a CIR source is
		// wired in by the caller.
		a, err := app.New(manifest, nil, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to start application: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			logging.Category(logging.CategoryWarn).Info("received interrupt signal, shutting down")
			cancel()
		}()

		if err := a.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate an oxide.toml manifest",
	Long:  "Validate loads a manifest and reports whether it is structurally valid, without opening a window.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "oxide.toml"
		if len(args) == 1 {
			path = args[0]
		}

		manifest, err := config.Load(path)
		if err != nil {
			fmt.Printf("Manifest Validation Report\n")
			fmt.Printf("---------------------------\n")
			fmt.Printf("File:   %s\n", path)
			fmt.Printf("Result: INVALID\n\n")
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Manifest Validation Report\n")
		fmt.Printf("---------------------------\n")
		fmt.Printf("File:     %s\n", path)
		fmt.Printf("Result:   VALID\n\n")
		fmt.Printf("App:      %s (%s) v%s\n", manifest.App.Name, manifest.App.ID, manifest.App.Version)
		fmt.Printf("Entry:    %s\n", manifest.App.Entry)
		fmt.Printf("Requires: %s\n", manifest.Core.Requires)
		fmt.Printf("Window:   %dx%d (resizable=%t, decorations=%t)\n",
			manifest.Window.Width, manifest.Window.Height, manifest.Window.Resizable, manifest.Window.Decorations)
		fmt.Printf("Dev:      hot_reload=%t inspector=%t debug_layout=%t\n",
			manifest.Dev.HotReload, manifest.Dev.Inspector, manifest.Dev.DebugLayout)
	},
}

func loadManifest(args []string) (config.Manifest, error) {
	if len(args) == 0 {
		if _, err := os.Stat("oxide.toml"); err != nil {
			return config.Default(), nil
		}
		return config.Load("oxide.toml")
	}
	return config.Load(args[0])
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
