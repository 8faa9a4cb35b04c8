package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/ipkit/pkg/ipcalc/xcidr"
	"github.com/omeyang/ipkit/pkg/ipcalc/xsplit"
)

// settings 是一次命令执行的生效参数：
// 内置默认值 < 配置文件 < 命令行 flag，后者覆盖前者。
type settings struct {
	MaxBlocks   int  `koanf:"max_blocks"`
	MaxChildren int  `koanf:"max_children"`
	JSON        bool `koanf:"json"`
}

// defaultSettings 内置默认配置，rawbytes 加载保证与文件配置走同一条解析路径。
var defaultSettings = []byte(`max_blocks: 100000
max_children: 65536
json: false
`)

// resolveSettings 解析生效参数。配置文件可选，flag 仅在显式给出时覆盖。
func resolveSettings(cmd *cli.Command) (*settings, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultSettings), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("加载默认配置失败: %w", err)
	}

	if path := cmd.String("config"); path != "" {
		if err := loadConfigFile(k, path); err != nil {
			return nil, err
		}
	}

	var s settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if cmd.IsSet("max-blocks") {
		s.MaxBlocks = int(cmd.Int("max-blocks"))
	}
	if cmd.IsSet("json") {
		s.JSON = cmd.Bool("json")
	}

	if s.MaxBlocks <= 0 {
		s.MaxBlocks = xcidr.DefaultMaxBlocks
	}
	if s.MaxChildren <= 0 {
		s.MaxChildren = xsplit.DefaultMaxChildren
	}
	return &s, nil
}

// loadConfigFile 按扩展名识别格式并叠加到 k 上。
func loadConfigFile(k *koanf.Koanf, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return &usageError{msg: fmt.Sprintf("不支持的配置文件格式: %q（仅支持 .yaml/.yml/.json）", path)}
	}

	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return nil
}
