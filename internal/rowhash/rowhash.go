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

package rowhash

import (
	"github.com/cespare/xxhash/v2"
	"github.com/valyala/bytebufferpool"

	"github.com/csvd/csvd/common"
)

var seps = []byte{'\xff'}

// Sum 计算 Record 字段集的指纹
//
// 名值对按 header 顺序参与计算 同名同值同序的记录指纹一致
// 使用 \xff 作为分隔符 避免 ("ab","c") 与 ("a","bc") 串联后同值
func Sum(r *common.Record) uint64 {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, f := range r.Fields() {
		buf.WriteString(f.Name)
		buf.Write(seps)
		buf.WriteString(f.Value)
		buf.Write(seps)
	}
	return xxhash.Sum64(buf.Bytes())
}
