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

// Package splitcsv 提供分块安全的 CSV 切割原语
//
// 包内只有两个纯函数
//
//   - SplitLines: 字节缓冲 -> 完整逻辑行 + 未终结尾部（remainder）
//   - SplitFields: 单个逻辑行 -> 字段值序列
//
// 两者无任何跨调用状态 切割结果与上游分块方式无关
// 同一份输入按 1 字节分块与按 1GB 分块 产出的逻辑行与字段完全一致
// 跨 chunk 的引号字段（含内嵌换行）通过 remainder 机制保持完整
package splitcsv

const (
	quoteChar      = '"'
	comma          = ','
	lineFeed       = '\n'
	carriageReturn = '\r'
)

type byteseq interface {
	~[]byte | ~string
}

// escapedQuote 判断位置 i 的引号是否为引号区内成对转义的起始
//
// 行切割与字段切割必须共用这一条转义规则
// 两处状态机各自实现时会对引号奇偶性产生分歧（如 `a,"b""c"` 的闭合位置）
func escapedQuote[T byteseq](s T, i int, inQuote bool) bool {
	return inQuote && i+1 < len(s) && s[i+1] == quoteChar
}
