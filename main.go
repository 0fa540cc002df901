package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	GitCommit string
	GitTag    string
	BuildTime string
)

// Exit codes of the library command.
const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitConfigError = 2
)

var (
	configFile string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "library",
	Short: "Interactive shell to manage your books",
	Long: `library is an interactive shell over an in-memory catalog of books.

Type commands like:
  add "Moby Dick" "Herman Melville"
  read "Moby Dick"
  show unread by "Herman Melville"

The catalog lives for the duration of the session only.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := NewApp(configFile, envFile, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return &exitError{code: ExitConfigError, err: fmt.Errorf("application failed to initialize: %w", err)}
		}
		return app.Run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build details",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tag: %s\ncommit: %s\nbuilt: %s\n", GitTag, GitCommit, BuildTime)
	},
}

// exitError carries the process exit code of a failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "./config.yml", "path to the yaml configuration file")
	rootCmd.Flags().StringVar(&envFile, "env-file", "./config.env", "path to the dotenv configuration file")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		if ee, ok := err.(*exitError); ok {
			os.Exit(ee.code)
		}
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
