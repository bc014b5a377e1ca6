package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	App         struct {
		Name      string   `env:"NAME" envDefault:"OCHシフト君"`
		BaseURL   string   `env:"BASE_URL" envDefault:"http://localhost:3000"`
		StaffList []string `env:"STAFF_LIST" envSeparator:","`
	} `envPrefix:"APP_"`
	Server struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		MaxBodyBytes    int64  `env:"MAX_BODY_BYTES" envDefault:"5242880"` // 5 MiB，备份文件恢复也走这里
	} `envPrefix:"SERVER_"`
	Database struct {
		Driver             string `env:"DRIVER" envDefault:"sqlite"`
		DSN                string `env:"DSN" envDefault:"file:och_shiftkun.db?_pragma=busy_timeout(5000)"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Redis struct {
		// 为空时不启用重复提交检查
		Addr                string `env:"ADDR"`
		Password            string `env:"PASSWORD"`
		DB                  int    `env:"DB" envDefault:"0"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
		DedupWindow         int    `env:"DEDUP_WINDOW" envDefault:"10"` // 相同希望在这段时间（秒）内只接受一次
	} `envPrefix:"REDIS_"`
	RabbitMQ struct {
		// 为空时不发送公开通知
		DSN            string `env:"DSN"`
		Queue          string `env:"QUEUE" envDefault:"schedule_published"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Email struct {
		Recipients []string `env:"RECIPIENTS" envSeparator:","`
		SMTP       struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	switch cfg.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, errors.New("DATABASE_DRIVER 只支持 sqlite 或 pgx")
	}

	return cfg, nil
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

func (c *Config) RabbitMQEnabled() bool {
	return c.RabbitMQ.DSN != ""
}
