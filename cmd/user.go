package cmd

import (
	"fmt"
	"log"

	"github.com/anoixa/fish-bed/config"
	"github.com/anoixa/fish-bed/internal/app"
	"github.com/anoixa/fish-bed/internal/auth"
	"github.com/spf13/cobra"
)

// userCmd 账户管理命令
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management commands",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Run: func(cmd *cobra.Command, args []string) {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")

		if err := runUserCreate(email, password, name); err != nil {
			log.Fatalf("Create user failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)

	userCreateCmd.Flags().String("email", "", "login email")
	userCreateCmd.Flags().String("password", "", "login password")
	userCreateCmd.Flags().String("name", "", "full name shown in the dashboard")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
}

func runUserCreate(email, password, name string) error {
	config.InitConfig()

	container := app.NewContainer(config.Get())
	if err := container.InitDatabase(); err != nil {
		return err
	}
	defer container.Close()

	// 注册不需要签发令牌
	login := auth.NewLoginService(container.AccountsRepo, container.DevicesRepo, nil)
	user, err := login.Register(email, password, name)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %d (%s)\n", user.ID, user.Email)
	return nil
}
