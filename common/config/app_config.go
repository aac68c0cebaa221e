package config

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/chushi0/jp-mahjong-server/common/log"
)

// ServerConfig 服务配置（单进程权威服务）
var ServerConfig ServerConfiguration

type ServerConfiguration struct {
	ID         string   `mapstructure:"id"`
	HttpAddr   string   `mapstructure:"httpAddr"`   // gin 监听地址
	MetricPort int      `mapstructure:"metricPort"` // statsviz 调试端口，0 表示关闭
	LogConf    LogConf  `mapstructure:"log"`
	JwtConf    JwtConf  `mapstructure:"jwt"`
	GameConf   GameConf `mapstructure:"game"`
	DatabaseConf `mapstructure:"database"`
	NatsConfig   `mapstructure:"nats"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

type JwtConf struct {
	Secret        string `mapstructure:"secret"`
	Expire        int    `mapstructure:"expire"`
	AllowTestPath bool   `mapstructure:"allowTestPath"` // 允许免鉴权加入（本地联调用）
}

// GameConf 对局规则参数
type GameConf struct {
	InitialPoints  int `mapstructure:"initialPoints"`  // 配给原点，默认 25000
	TargetPoints   int `mapstructure:"targetPoints"`   // 终局目标点，默认 30000
	TurnSeconds    int `mapstructure:"turnSeconds"`    // 出牌考虑时间（秒）
	ClaimSeconds   int `mapstructure:"claimSeconds"`   // 鸣牌/荣和考虑时间（秒）
	RiichiDelayMs  int `mapstructure:"riichiDelayMs"`  // 立直后自动摸切延迟（毫秒）
	AllLastWind    int `mapstructure:"allLastWind"`    // All Last 场风序号，四人南场为 2
	MaxExtraWind   int `mapstructure:"maxExtraWind"`   // 加时赛最多打到的场风序号
}

type DatabaseConf struct {
	MongoConf MongoConf `mapstructure:"mongo"`
	RedisConf RedisConf `mapstructure:"redis"`
}

type MongoConf struct {
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

type RedisConf struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	PoolSize     int    `mapstructure:"poolSize"`
	MinIdleConns int    `mapstructure:"minIdleConns"`
}

type NatsConfig struct {
	URL string `json:"url" mapstructure:"url"`
}

// Load 读取配置文件并填充 ServerConfig
// 支持环境变量覆盖（点号换下划线），配置变更时热更新可热生效的字段
func Load(configFile string) error {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	var cfg ServerConfiguration
	if err := v.Unmarshal(&cfg); err != nil {
		return err
	}
	applyDefaults(&cfg)
	ServerConfig = cfg

	v.WatchConfig()
	v.OnConfigChange(func(in fsnotify.Event) {
		var next ServerConfiguration
		if err := v.Unmarshal(&next); err != nil {
			log.Warn("配置热更新失败: %v", err)
			return
		}
		applyDefaults(&next)
		// 只热更新对局参数和日志级别，连接类配置需重启生效
		ServerConfig.GameConf = next.GameConf
		ServerConfig.LogConf = next.LogConf
		log.Info("配置热更新完成: %s", in.Name)
	})

	return nil
}

func applyDefaults(cfg *ServerConfiguration) {
	if cfg.HttpAddr == "" {
		cfg.HttpAddr = ":8080"
	}
	if cfg.GameConf.InitialPoints == 0 {
		cfg.GameConf.InitialPoints = 25000
	}
	if cfg.GameConf.TargetPoints == 0 {
		cfg.GameConf.TargetPoints = 30000
	}
	if cfg.GameConf.TurnSeconds == 0 {
		cfg.GameConf.TurnSeconds = 20
	}
	if cfg.GameConf.ClaimSeconds == 0 {
		cfg.GameConf.ClaimSeconds = 10
	}
	if cfg.GameConf.RiichiDelayMs == 0 {
		cfg.GameConf.RiichiDelayMs = 1500
	}
	if cfg.GameConf.AllLastWind == 0 {
		cfg.GameConf.AllLastWind = 2
	}
	if cfg.GameConf.MaxExtraWind == 0 {
		cfg.GameConf.MaxExtraWind = 3
	}
}
