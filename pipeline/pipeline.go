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

package pipeline

import (
	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/confengine"
	"github.com/csvd/csvd/logger"
	"github.com/csvd/csvd/processor"
)

type Config struct {
	Name       string   `config:"name"`
	Processors []string `config:"processors"`
}

type Configs []Config

// Pipeline 将配置的 processor 链依序作用于每条记录
type Pipeline struct {
	configs Configs
	psmgr   *processor.Manager
}

func New(conf *confengine.Config) (*Pipeline, error) {
	configs, err := loadPipeline(conf)
	if err != nil {
		return nil, err
	}

	psmgr, err := processor.NewManager(conf)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		configs: configs,
		psmgr:   psmgr,
	}, nil
}

// Apply 依序执行处理链 返回 nil 表示记录被过滤
//
// processor 报错时跳过该 processor 继续后续处理 不中断记录流
func (p *Pipeline) Apply(record *common.Record) *common.Record {
	for i := 0; i < len(p.configs); i++ {
		for _, name := range p.configs[i].Processors {
			ps, ok := p.psmgr.Get(name)
			if !ok {
				continue
			}
			r, err := ps.Process(record)
			if err != nil {
				logger.Warnf("processor (%s) failed: %v", name, err)
				continue
			}
			if r == nil {
				return nil
			}
			record = r
		}
	}
	return record
}

func (p *Pipeline) Clean() {
	p.psmgr.CleanAll()
}

func loadPipeline(conf *confengine.Config) (Configs, error) {
	var configs Configs
	if err := conf.UnpackChild("pipeline", &configs); err != nil {
		return nil, err
	}
	return configs, nil
}
