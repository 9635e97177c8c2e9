package main

import (
	"fmt"

	"github.com/korjavin/whatsforlunch/pkg/config"
	"github.com/korjavin/whatsforlunch/pkg/logger"
	"github.com/korjavin/whatsforlunch/pkg/lunch"
	"github.com/korjavin/whatsforlunch/pkg/lunchdata"
	"github.com/korjavin/whatsforlunch/pkg/picker"
	"github.com/korjavin/whatsforlunch/pkg/storage"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "lunch",
	Short:         "Manage the lunch restaurant list and history",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (defaults to DATA_DIR or ./data)")
	rootCmd.PersistentFlags().Bool("memory", false, "Use a throwaway in-memory store")

	rootCmd.AddCommand(listCmd, addCmd, removeCmd, historyCmd, pickCmd, eatCmd, statsCmd, exportCmd, importCmd)
}

// openLunch opens the store selected by the flags and returns a command
// bound to it together with a function that closes everything
func openLunch(cmd *cobra.Command) (LunchCmd, func(), error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return LunchCmd{}, nil, err
	}
	logger.SetLevel(cfg.LogLevel)

	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = cfg.DataDir
	}
	inMemory, _ := cmd.Flags().GetBool("memory")

	var store *storage.Store
	if inMemory {
		store, err = storage.NewInMemory()
	} else {
		store, err = storage.New(dataDir)
	}
	if err != nil {
		return LunchCmd{}, nil, fmt.Errorf("failed to open store: %w", err)
	}

	service := lunch.New(lunchdata.New(store), picker.New(cfg.AvoidRecent))
	closeFn := func() {
		service.Wait()
		_ = store.Close()
	}
	return newLunchCmd(service), closeFn, nil
}

// runWith adapts a LunchCmd method to a cobra RunE
func runWith(fn func(cmd *cobra.Command, l LunchCmd, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		l, closeFn, err := openLunch(cmd)
		if err != nil {
			return err
		}
		defer closeFn()
		return fn(cmd, l, args)
	}
}
