package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"easypaste/app"
	"easypaste/config"
	"easypaste/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("加载配置失败: %v", err)
	}
	logger.Init(cfg.Log)

	application, err := app.New(cfg, app.Options{})
	if err != nil {
		logrus.Fatalf("创建应用失败: %v", err)
	}

	if err := application.StartMonitor(); err != nil {
		logrus.Fatalf("启动剪贴板监听失败: %v", err)
	}

	// 事件仅做日志输出，GUI外壳接入时订阅同一通道
	go func() {
		for name := range application.Subscribe() {
			logrus.Debugf("事件: %s", name)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := application.Close(); err != nil {
		logrus.Warnf("关闭应用失败: %v", err)
	}
}
