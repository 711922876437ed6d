// Copyright 2025 The csvd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package confengine

import (
	"fmt"

	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
)

// Config 是对 ucfg.Config 的封装 并提供一些简便的操作函数
type Config struct {
	conf *ucfg.Config
}

func New(conf *ucfg.Config) *Config {
	return &Config{conf: conf}
}

func (c *Config) Has(s string) bool {
	ok, err := c.conf.Has(s, -1)
	if err != nil {
		return false
	}
	return ok
}

func (c *Config) Child(s string) (*Config, error) {
	content, err := c.conf.Child(s, -1)
	if err != nil {
		return nil, err
	}
	return &Config{conf: content}, nil
}

func (c *Config) Unpack(to any) error {
	return c.conf.Unpack(to)
}

func (c *Config) Enabled(s string) bool {
	ok, err := c.conf.Bool(fmt.Sprintf("%s.enabled", s), -1)
	if err != nil {
		return false
	}
	return ok
}

// UnpackChild 将子配置解析至 to 中 子配置不存在时不报错 保持 to 的零值
//
// csvd 的配置段基本都是可选的（enricher/exporter/server 均可缺省）
// 所以缺段不视为错误 由调用方根据零值判断开关
func (c *Config) UnpackChild(s string, to any) error {
	if !c.Has(s) {
		return nil
	}
	content, err := c.conf.Child(s, -1)
	if err != nil {
		return err
	}
	return content.Unpack(to)
}

// MustUnpackChild 与 UnpackChild 一致 但子配置缺失或解析失败时直接 panic
func (c *Config) MustUnpackChild(s string, to any) {
	content, err := c.conf.Child(s, -1)
	if err != nil {
		panic(err)
	}
	if err := content.Unpack(to); err != nil {
		panic(err)
	}
}

// LoadConfigPath 从文件路径加载 YAML 配置
func LoadConfigPath(path string) (*Config, error) {
	config, err := yaml.NewConfigWithFile(path, ucfg.PathSep("."))
	if err != nil {
		return nil, err
	}
	return New(config), nil
}

// LoadContent 从内存内容加载 YAML 配置
func LoadContent(b []byte) (*Config, error) {
	config, err := yaml.NewConfig(b, ucfg.PathSep("."))
	if err != nil {
		return nil, err
	}
	return New(config), nil
}
