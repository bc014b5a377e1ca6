package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/och-dev/shiftkun/internal/config"
	"github.com/och-dev/shiftkun/internal/repository"
	"github.com/och-dev/shiftkun/internal/seed"
)

func main() {
	var op int
	var n int
	var month string
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机人员及其希望和出差记录, 2: 从 CSV 导入希望)")
	flag.IntVar(&n, "n", 8, "随机生成的人数")
	flag.StringVar(&month, "month", "", "对象月份，例如 2026年4月")
	flag.StringVar(&file, "file", "", "要导入的 CSV 文件（月,氏名,希望）")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 连接数据库并确保表结构是最新的
	dbpool, err := repository.OpenDB(cfg)
	if err != nil {
		logger.Error("无法连接到数据库", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := repository.Migrate(cfg.Database.Driver, dbpool); err != nil {
		logger.Error("数据库迁移失败", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的人数")
			return
		}

		cnt, err := seed.SeedRandom(repo, month, n)
		if err != nil {
			slog.Error("无法插入随机数据", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入随机数据成功", slog.Int("count", cnt), slog.String("month", month))
	case 2:
		if file == "" {
			slog.Error("请指定 CSV 文件")
			return
		}

		cnt, err := seed.SeedFromCSV(repo, file)
		if err != nil {
			slog.Error("导入 CSV 失败", slog.Int("count", cnt), slog.String("error", err.Error()))
			return
		}
		slog.Info("导入希望成功", slog.Int("count", cnt))
	default:
		slog.Error("指定的操作非法")
	}
}
