package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"anno-go/internal/utils"

	"github.com/spf13/viper"
)

var (
	globalConfig *Config
	mu           sync.Mutex
	configPath   string
)

// LoadConfig 加载配置文件
// 只缓存成功结果；加载失败不缓存，后续调用可以换路径重试
func LoadConfig(configFile string) (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, err := loadConfigFromFile(configFile)
	if err != nil {
		return nil, err
	}

	globalConfig = cfg
	configPath = configFile
	return globalConfig, nil
}

// loadConfigFromFile 从文件加载配置
func loadConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 设置配置文件路径
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// 默认查找 config.yaml
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// 读取环境变量
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析配置
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 设置默认值
	setDefaults(&cfg)

	// 验证配置
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置默认值
func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 17860
	}
	if cfg.Dataset.Variant == "" {
		cfg.Dataset.Variant = "translate"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./database/annotation.db"
	}
	// Redis Host 必须从配置文件读取，不设置硬编码默认值
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379 // 标准 Redis 端口
	}
	if cfg.Redis.LockTTLSeconds == 0 {
		cfg.Redis.LockTTLSeconds = 600
	}
	if cfg.CORS.AllowMethods == nil {
		cfg.CORS.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if cfg.CORS.AllowHeaders == nil {
		cfg.CORS.AllowHeaders = []string{"*"}
	}
}

// validateConfig 验证配置
func validateConfig(cfg *Config) error {
	// 结构体标签校验（必填项、标注员姓名、变体取值）
	if err := utils.ValidateStruct(cfg); err != nil {
		return err
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务器端口: %d", cfg.Server.Port)
	}

	// 检查数据库目录是否存在
	dbDir := filepath.Dir(cfg.Database.Path)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return fmt.Errorf("创建数据库目录失败: %w", err)
		}
	}

	return nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	mu.Lock()
	defer mu.Unlock()
	return globalConfig
}

// ReloadConfig 重新加载配置
func ReloadConfig() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if configPath == "" {
		return nil, fmt.Errorf("未设置配置文件路径")
	}

	cfg, err := loadConfigFromFile(configPath)
	if err != nil {
		return nil, err
	}

	globalConfig = cfg
	return globalConfig, nil
}
