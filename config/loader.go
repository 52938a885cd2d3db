package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile 当前目录下查找的配置文件名
const DefaultConfigFile = ".image2svg.yaml"

// ErrConfigNotFound 配置文件不存在
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadFile 读取 YAML 配置，文件中没有的键保持默认值
func LoadFile(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path) //nolint:gosec // 配置路径由用户指定
	if err != nil {
		if os.IsNotExist(err) {
			return opts, ErrConfigNotFound
		}
		return opts, err
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// FindConfigFile 按顺序查找配置文件：
// 1. 指定的 configPath
// 2. 当前目录的 .image2svg.yaml
// 3. XDG 配置目录的 config.yaml
//
// 找不到时返回空字符串。
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	p := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// Load 查找并读取配置文件。找不到时返回默认值，但显式指定的文件不存在时报错。
func Load(configPath string) (Options, error) {
	path := FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return Default(), ErrConfigNotFound
		}
		return Default(), nil
	}
	return LoadFile(path)
}
