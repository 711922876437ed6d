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

package trimspace

import (
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/processor"
)

func init() {
	processor.Register(Name, New)
}

const Name = "trimspace"

type Config struct {
	// Fields 只处理指定字段 为空时处理全部字段
	Fields []string `mapstructure:"fields"`
}

// trimSpace 剥除字段值两侧的空白字符
//
// 人工维护的 CSV 里 `a, b ,c` 这类两侧空白几乎总是噪音
// 引号字段内刻意保留的空白同样会被剥除 需要保留时不要启用本处理器
type trimSpace struct {
	fields map[string]struct{}
}

func New(opts common.Options) (processor.Processor, error) {
	var config Config
	if err := mapstructure.Decode(opts, &config); err != nil {
		return nil, err
	}

	var fields map[string]struct{}
	if len(config.Fields) > 0 {
		fields = make(map[string]struct{}, len(config.Fields))
		for _, f := range config.Fields {
			fields[f] = struct{}{}
		}
	}
	return &trimSpace{fields: fields}, nil
}

func (ts *trimSpace) Name() string {
	return Name
}

func (ts *trimSpace) Process(record *common.Record) (*common.Record, error) {
	for _, f := range record.Fields() {
		if ts.fields != nil {
			if _, ok := ts.fields[f.Name]; !ok {
				continue
			}
		}
		if trimmed := strings.TrimSpace(f.Value); trimmed != f.Value {
			record.Set(f.Name, trimmed)
		}
	}
	return record, nil
}

func (ts *trimSpace) Clean() {}
