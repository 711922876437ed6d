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

// SplitLines 将 buf 切割为完整逻辑行与未终结的尾部
//
// buf 必须从逻辑行行首开始 行首处引号状态恒为闭合
// 调用方以 remainder ++ nextChunk 作为下一次输入即可维持该不变量
// 流结束时把最后的 remainder 作为一个完整行处理（交由调用方决定）
//
// 切割规则:
//   - 引号外的 LF 终结一行 紧邻的前导 CR 一并剥除 终结符不计入行文本
//   - 引号内的 LF/CR 属于字段内容 原样保留
//   - 引号区内成对引号视为字面引号 不改变开闭状态
//
// 行文本为拷贝 不再引用 buf remainder 则是 buf 的子切片
// 单次线性扫描 无回溯 引号状态从行首重算 不依赖任何跨调用记忆
func SplitLines(buf []byte) (lines []string, remainder []byte) {
	inQuote := false
	start := 0

	for i := 0; i < len(buf); i++ {
		switch buf[i] {
		case quoteChar:
			if escapedQuote(buf, i, inQuote) {
				i++
				continue
			}
			inQuote = !inQuote

		case lineFeed:
			if inQuote {
				continue
			}
			end := i
			if end > start && buf[end-1] == carriageReturn {
				end--
			}
			lines = append(lines, string(buf[start:end]))
			start = i + 1
		}
	}

	// 尾部可能停在引号区中间 甚至停在半个 UTF-8 字符上
	// 一律原样进 remainder 与后续字节拼接后重新扫描即可恢复
	if start < len(buf) {
		remainder = buf[start:]
	}
	return lines, remainder
}

// OpenQuote 报告从行首扫描至 buf 末尾后引号是否仍处于打开状态
//
// 用于流结束时判定 remainder 是否属于未闭合的引号字段
func OpenQuote(buf []byte) bool {
	inQuote := false
	for i := 0; i < len(buf); i++ {
		if buf[i] != quoteChar {
			continue
		}
		if escapedQuote(buf, i, inQuote) {
			i++
			continue
		}
		inQuote = !inQuote
	}
	return inQuote
}
