package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Config 应用配置结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Annotator AnnotatorConfig `mapstructure:"annotator"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis_service"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// ResolvedOutputPath 返回输出文件路径
// 未配置时按输入文件名和标注员姓名推导：<输入名>_annotated_<标注员>.csv
func (c *Config) ResolvedOutputPath() string {
	if c.Dataset.OutputPath != "" {
		return c.Dataset.OutputPath
	}
	base := filepath.Base(c.Dataset.InputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := fmt.Sprintf("%s_annotated_%s.csv", base, c.Annotator.Name)
	return filepath.Join(filepath.Dir(c.Dataset.InputPath), name)
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	ProductionMode bool   `mapstructure:"production_mode"`
}

// GetAddress 获取服务器地址
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AnnotatorConfig 标注员配置
// 姓名只做标识和输出文件命名，不做任何鉴权
type AnnotatorConfig struct {
	Name string `mapstructure:"name" validate:"required,annotator"`
}

// DatasetConfig 数据集配置
type DatasetConfig struct {
	InputPath  string `mapstructure:"input_path" validate:"required"`
	OutputPath string `mapstructure:"output_path"`
	Variant    string `mapstructure:"variant" validate:"oneof=translate wiki"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	DB             int    `mapstructure:"db"`
	Password       string `mapstructure:"password"`
	LockTTLSeconds int    `mapstructure:"lock_ttl_seconds"`
}

// GetAddress 获取Redis地址
func (r *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// GetLockTTL 获取会话锁过期时间
func (r *RedisConfig) GetLockTTL() time.Duration {
	return time.Duration(r.LockTTLSeconds) * time.Second
}

// CORSConfig CORS配置
type CORSConfig struct {
	Origins          []string `mapstructure:"origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
}
