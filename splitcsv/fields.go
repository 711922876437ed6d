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

package splitcsv

import (
	"strings"
)

// SplitFields 将一个完整逻辑行切割为有序字段值
//
// 每次调用引号状态都从闭合开始 SplitLines 已保证行内引号自洽
// 引号仅作定界 不计入字段值 引号区内成对引号还原为一个字面引号
// 空行切出一个空字段 结果至少包含一个元素
func SplitFields(line string) []string {
	var fields []string
	var sb strings.Builder
	inQuote := false

	for i := 0; i < len(line); i++ {
		switch c := line[i]; c {
		case quoteChar:
			if escapedQuote(line, i, inQuote) {
				sb.WriteByte(quoteChar)
				i++
				continue
			}
			inQuote = !inQuote

		case comma:
			if inQuote {
				sb.WriteByte(c)
				continue
			}
			fields = append(fields, sb.String())
			sb.Reset()

		default:
			sb.WriteByte(c)
		}
	}
	return append(fields, sb.String())
}
