package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/anoixa/fish-bed/cache"
	"github.com/anoixa/fish-bed/config"
	"github.com/spf13/cobra"
)

// cacheCmd 缓存管理命令
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Cache management commands",
	Long:  "Manage application cache, including clearing a user's cached gallery, settings and profile.",
}

// cacheClearCmd 清除指定用户的缓存
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached entries of a user",
	Long: `Clear cached entries of a user: profile, settings, dashboard summary and gallery pages.
Only meaningful with a shared cache (cache_type=redis); the memory cache lives inside the server process.`,
	Run: func(cmd *cobra.Command, args []string) {
		userID, _ := cmd.Flags().GetUint("user")

		if err := runCacheClear(userID); err != nil {
			log.Fatalf("Cache clear failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheClearCmd.Flags().Uint("user", 0, "user id whose cache entries are cleared")
	_ = cacheClearCmd.MarkFlagRequired("user")
}

func runCacheClear(userID uint) error {
	if userID == 0 {
		return errors.New("--user must be a positive user id")
	}

	config.InitConfig()
	cfg := config.Get()

	provider, err := cache.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer provider.Close()

	if provider.Name() != "redis" {
		log.Printf("Cache provider is %s, entries held by a running server are not affected", provider.Name())
	}

	helper := cache.NewHelper(provider)
	ctx := context.Background()

	if err := helper.DeleteCachedUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear user cache: %w", err)
	}
	if err := helper.DeleteCachedSettings(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear settings cache: %w", err)
	}
	if err := helper.InvalidateImages(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear gallery cache: %w", err)
	}

	log.Printf("Cache cleared for user %d", userID)
	return nil
}
