package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/examhack/examhack/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the analysis cache",
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL())
		if err != nil {
			return err
		}
		store.SweepExpired()
		return nil
	},
}

var cacheKeyCmd = &cobra.Command{
	Use:   "key <course-code>",
	Short: "Print the cache key for a course code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cache.Key(args[0]))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheSweepCmd, cacheKeyCmd)
	rootCmd.AddCommand(cacheCmd)
}
