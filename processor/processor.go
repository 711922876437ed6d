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

package processor

import (
	"github.com/pkg/errors"

	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/confengine"
)

type Configs []Config

type Config struct {
	Name   string         `config:"name"`
	Config common.Options `config:"config"`
}

// Processor 定义了记录处理接口的行为
//
// Processor 在记录进入 exporter 之前对其做原地修改或过滤
type Processor interface {
	// Name 返回处理器的名称
	Name() string

	// Process 处理 *common.Record 返回 nil 表示该记录被过滤
	Process(*common.Record) (*common.Record, error)

	// Clean 清理资源
	Clean()
}

type CreateFunc func(opts common.Options) (Processor, error)

var processorFactory = map[string]CreateFunc{}

func Register(name string, f CreateFunc) {
	processorFactory[name] = f
}

func Get(name string) (CreateFunc, error) {
	f, ok := processorFactory[name]
	if !ok {
		return nil, errors.Errorf("processor factory (%s) not found", name)
	}
	return f, nil
}

func loadProcessors(conf *confengine.Config) ([]Processor, error) {
	var configs Configs
	if err := conf.UnpackChild("processor", &configs); err != nil {
		return nil, err
	}

	var processors []Processor
	for _, pcfg := range configs {
		f, err := Get(pcfg.Name)
		if err != nil {
			return nil, err
		}
		ps, err := f(pcfg.Config)
		if err != nil {
			return nil, err
		}
		processors = append(processors, ps)
	}
	return processors, nil
}

// Manager 管理着 processor 列表 仅负责 Processor 的加载和检索
type Manager struct {
	processors []Processor
}

func NewManager(conf *confengine.Config) (*Manager, error) {
	processors, err := loadProcessors(conf)
	if err != nil {
		return nil, err
	}
	return &Manager{processors: processors}, nil
}

func (mgr *Manager) Get(name string) (Processor, bool) {
	for _, p := range mgr.processors {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// CleanAll 依次清理所有 processor
func (mgr *Manager) CleanAll() {
	for _, p := range mgr.processors {
		p.Clean()
	}
}
