package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/lexfsm/pkg/adapters/redis"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish <file>",
	Short: "Validate a description and store it in Redis",
	Long: `Publishes a description so that "lexfsm serve --redis" instances can load it.
The file is validated first; invalid descriptions are never published.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		applyRedisFlags(cmd)
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("no Redis address: use --redis or set redis.addr in the config file")
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = filepath.Base(path)
		}
		if ttl, _ := cmd.Flags().GetDuration("ttl"); cmd.Flags().Changed("ttl") {
			cfg.Redis.TTL = ttl
		}

		if _, err := loadMachine(cmd, path); err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		store := newRedisStore()
		defer store.Close()

		if err := store.SaveDescription(cmd.Context(), name, data); err != nil {
			return fmt.Errorf("failed to publish %s: %w", name, err)
		}
		logger.Info("description published", "name", name, "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		fmt.Fprintf(cmd.OutOrStdout(), "Published %s as %q\n", path, name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().String("name", "", "Name to publish under (default: the file name)")
	publishCmd.Flags().String("redis", "", "Redis address (host:port)")
	publishCmd.Flags().Duration("ttl", 0, "Expire the description after this long (0 keeps it)")
}

// applyRedisFlags lets --redis override the configured address.
func applyRedisFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("redis") {
		cfg.Redis.Addr, _ = cmd.Flags().GetString("redis")
	}
}

func newRedisStore() *redis.Store {
	return redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		redis.WithPrefix(cfg.Redis.Prefix),
		redis.WithTTL(cfg.Redis.TTL),
	)
}
