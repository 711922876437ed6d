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

package common

const (
	// App 应用程序名称
	App = "csvd"

	// Version 应用程序版本
	Version = "v0.0.1"

	// DefaultChunkSize 默认的数据源分块长度
	//
	// CSV 逻辑行通常远小于 4MB 所以每个 chunk 基本都能切出完整行
	// 分块大小只影响性能 不影响正确性 任意分块边界产出的记录序列一致
	DefaultChunkSize = 4 * 1024 * 1024

	// DefaultMaxRemainder 默认的 remainder 长度上限
	//
	// 未闭合的引号字段会让 remainder 跨 chunk 无限增长
	// 超过上限视为数据损坏 快速失败而不是静默耗尽内存
	DefaultMaxRemainder = 64 * 1024 * 1024
)
