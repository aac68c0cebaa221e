package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chushi0/jp-mahjong-server/common/config"
	"github.com/chushi0/jp-mahjong-server/common/log"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "立直麻将对战服务",
	Long:  `立直麻将对战服务，单进程承载房间、规则引擎与连接会话`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.Load(configFile); err != nil {
			log.Fatal("文件配置发生错误：%v", err)
		}
		log.InitLog(config.ServerConfig.ID, config.ServerConfig.LogConf.Level)
		log.Info(fmt.Sprintf("配置文件: %+v", config.ServerConfig))

		if err := Run(context.Background()); err != nil {
			log.Error("发生异常: %v", err)
			os.Exit(-1)
		}
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "configFile", "", "resource file")
	rootCmd.MarkFlagRequired("configFile")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %#v", err)
		os.Exit(1)
	}
}
