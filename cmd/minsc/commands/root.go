package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/panyam/minsc/keystore"
	"github.com/panyam/minsc/loader"
	"github.com/panyam/minsc/runtime"
)

// Build metadata, overridden at link time.
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var (
	keystorePath string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "minsc",
	Short: "Minsc is a policy language compiling to miniscript",
	Long: `Minsc compiles a small expression language of signing conditions,
functions and named keys down to miniscript policy.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevel == "" {
			return nil
		}
		level, err := runtime.ParseLogLevel(logLevel)
		if err != nil {
			return err
		}
		runtime.SetLogLevel(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&keystorePath, "keystore", "",
		"Preload keys from the store at this path (bare --keystore uses the default store)")
	rootCmd.PersistentFlags().Lookup("keystore").NoOptDefVal = "default"
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Runtime log level: debug, info, warn, error or off")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// storePath resolves the --keystore flag to a concrete path, or "" when no
// preloading was requested.
func storePath() (string, error) {
	switch keystorePath {
	case "":
		return "", nil
	case "default":
		return keystore.DefaultPath()
	default:
		return keystorePath, nil
	}
}

// newLoader builds a loader, preloading keys when --keystore is set.
func newLoader() (*loader.Loader, error) {
	l := loader.NewLoader(nil)
	path, err := storePath()
	if err != nil || path == "" {
		return l, err
	}
	store, err := keystore.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keystore: %w", err)
	}
	defer store.Close()
	keys, err := store.All()
	if err != nil {
		return nil, err
	}
	if err := l.BindKeys(keys); err != nil {
		return nil, err
	}
	runtime.Debugf("preloaded %d keys from %s", len(keys), path)
	return l, nil
}
