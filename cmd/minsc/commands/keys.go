package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/panyam/minsc/keystore"
)

var keysStorePath string

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the named key store",
	Long: `The keys commands maintain a small local database of named keys. Programs
compiled with --keystore see each name bound to its key, so policies can
say pk(alice) instead of pasting key material.`,
}

var keysAddCmd = &cobra.Command{
	Use:   "add <name> <key>",
	Short: "Store a key under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openKeyStore()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Put(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("stored %s\n", args[0])
		return nil
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openKeyStore()
		if err != nil {
			return err
		}
		defer store.Close()
		entries, err := store.List()
		if err != nil {
			return err
		}
		name := color.New(color.FgCyan)
		for _, entry := range entries {
			name.Printf("%s", entry.Name)
			fmt.Printf(" = %s\n", entry.Key)
		}
		return nil
	},
}

var keysRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openKeyStore()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", args[0])
		return nil
	},
}

func openKeyStore() (*keystore.Store, error) {
	path := keysStorePath
	if path == "" {
		var err error
		path, err = keystore.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return keystore.Open(path)
}

func init() {
	keysCmd.PersistentFlags().StringVar(&keysStorePath, "store", "", "Key store path (default ~/.minsc/keys.db)")
	keysCmd.AddCommand(keysAddCmd)
	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysRmCmd)
	AddCommand(keysCmd)
}
