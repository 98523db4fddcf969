package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"claude-dashboard/internal/api"
	"claude-dashboard/internal/config"
	"claude-dashboard/internal/database"
	"claude-dashboard/internal/logger"
	"claude-dashboard/internal/pool"

	_ "time/tzdata" // 嵌入时区数据库，解决 Windows 下时区加载失败问题
)

// Version 版本号，通过 ldflags 注入
var Version = "dev"

func main() {
	// 解析命令行参数
	portFlag := flag.Int("port", 0, "服务器监听端口（优先级最高，0 表示使用配置文件或默认值 62311）")
	flag.IntVar(portFlag, "p", 0, "服务器监听端口（-port 的简写）")
	configFlag := flag.String("config", "", "配置文件路径（不指定则查找当前目录的 config.yaml / config.yml）")
	flag.Parse()

	// 设置时区为北京时间（UTC+8）
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		log.Printf("警告: 加载时区失败，使用 UTC+8: %v", err)
		loc = time.FixedZone("CST", 8*3600)
	}
	time.Local = loc

	// 加载配置（无配置文件则使用默认值）
	var cfg *config.Config
	if *configFlag != "" {
		cfg, err = config.LoadFromYAML(*configFlag)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		log.Printf("警告: 加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Load()
	}
	if *portFlag != 0 {
		cfg.Server.Port = *portFlag
	}

	// 初始化日志系统
	if err := logger.Init(cfg.LogBufferSize); err != nil {
		log.Fatalf("初始化日志系统失败: %v", err)
	}
	defer logger.Close()
	logger.SetDebugEnabled(cfg.Debug)
	logger.Info("=== 账号池管理面板 %s 启动中 ===", Version)
	logger.Info("系统时区: %s", time.Local.String())

	// 初始化数据库
	db, err := database.New(cfg)
	if err != nil {
		logger.Critical("初始化数据库失败: %v", err)
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 数据库中的设置覆盖配置文件
	if err := db.ApplySettings(ctx, cfg); err != nil {
		logger.Warn("加载持久化设置失败: %v", err)
	}

	// 加载账号池
	p, err := pool.LoadFromDatabase(ctx, db)
	if err != nil {
		logger.Critical("加载账号池失败: %v", err)
		log.Fatalf("加载账号池失败: %v", err)
	}

	// 启动服务器，阻塞直到收到退出信号
	srv := api.NewServer(cfg, db, p, logger.GetBuffer(), Version)
	if err := srv.Run(ctx); err != nil {
		logger.Critical("服务器异常退出: %v", err)
		log.Fatalf("服务器异常退出: %v", err)
	}
}
