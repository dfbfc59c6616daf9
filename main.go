// @title InvestLearn 后端 API
// @version 1.0
// @description 理财学习平台：模块看板、学习会话、积分金币和兑换。
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"fmt"
	"os"

	"invest_learn_backend/internal/app"
	"invest_learn_backend/internal/config"
	"invest_learn_backend/internal/service"
	"invest_learn_backend/pkg/database"
	"invest_learn_backend/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           "invest-learn",
		Short:         "InvestLearn backend server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config", "configs", "directory containing config.yaml")

	serve := newServeCmd(&configDir)
	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd(&configDir))
	root.AddCommand(newMarketCmd(&configDir))

	// 不带子命令时启动服务
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}

func newServeCmd(configDir *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(*configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			// release 模式下默认不迁移
			cfg.ForceMigrate = migrate

			application := app.NewApp(cfg)
			application.ConfigDir = *configDir
			application.Run()
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run database migrations on start even in release mode")
	return cmd
}

func newMigrateCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(*configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.ForceMigrate = true
			cfg.MigrateOnly = true

			logger.InitLogger(cfg)
			defer logger.Sync()

			db, err := database.InitDB(cfg)
			if err != nil {
				logger.Log.Error("migration failed", zap.Error(err))
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "数据库迁移完成")
			return nil
		},
	}
}

// newMarketCmd 离线推进看板并逐帧输出 JSON，用于调试图表
func newMarketCmd(configDir *string) *cobra.Command {
	var (
		ticks         int
		width, height float64
		points        bool
	)

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Simulate the module dashboard and print frames as JSON lines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(*configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			market := service.NewMarketService(cfg.Market)
			enc := json.NewEncoder(cmd.OutOrStdout())
			for i := 0; i < ticks; i++ {
				snap := market.Shared().TickOnce()
				if err := enc.Encode(market.BuildFrame(snap, width, height, points)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 1, "number of ticks to simulate")
	cmd.Flags().Float64Var(&width, "width", service.DefaultChartWidth, "chart width")
	cmd.Flags().Float64Var(&height, "height", service.DefaultChartHeight, "chart height")
	cmd.Flags().BoolVar(&points, "points", false, "include raw points")
	return cmd
}
