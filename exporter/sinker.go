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

package exporter

import (
	"github.com/csvd/csvd/common"
)

// Sinker 负责将记录 `写入` 到指定存储中
type Sinker interface {
	// Name Sinker 名称
	Name() string

	// Sink 写入单条记录 实现方可内部攒批
	Sink(record *common.Record) error

	// Close 冲刷缓冲并释放资源
	Close() error
}

type CreateFunc func(Config) (Sinker, error)

var sinkFactory = map[string]CreateFunc{}

func Get(name string) CreateFunc {
	return sinkFactory[name]
}

func Register(name string, createFunc CreateFunc) {
	sinkFactory[name] = createFunc
}
