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

import (
	"github.com/goccy/go-json"
)

// Field 代表 Record 中的单个字段 Name 来自 header Value 来自数据行
type Field struct {
	Name  string
	Value string
}

// Record 代表一条按 header 顺序组织的数据记录
//
// 字段顺序与 header 顺序一致 且一旦构建完成 字段集合不再增删
// 下游（processor/enricher/sinker）只允许改写字段值
type Record struct {
	// Seq 为数据行在整个流中的序号 从 1 开始计数（header 不占序号）
	Seq int64

	fields []Field
	index  map[string]int
}

// NewRecord 将一行字段值与 header 对齐后构建 Record
//
// 对齐规则:
//   - i < min(len(header), len(values)) 的列按位配对
//   - 数据行多出的列直接丢弃
//   - 数据行缺失的列不会出现在 Record 中（不填默认值）
func NewRecord(seq int64, header []string, values []string) *Record {
	n := len(header)
	if len(values) < n {
		n = len(values)
	}

	fields := make([]Field, 0, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		if _, ok := index[header[i]]; ok {
			// 重复列名保留首个 与 map 语义对齐
			continue
		}
		index[header[i]] = len(fields)
		fields = append(fields, Field{Name: header[i], Value: values[i]})
	}
	return &Record{
		Seq:    seq,
		fields: fields,
		index:  index,
	}
}

func (r *Record) Len() int {
	return len(r.fields)
}

// Fields 返回字段切片 调用方不允许增删元素
func (r *Record) Fields() []Field {
	return r.fields
}

func (r *Record) Get(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.fields[i].Value, true
}

// Set 改写已存在字段的值 字段不存在时返回 false 不做追加
func (r *Record) Set(name, value string) bool {
	i, ok := r.index[name]
	if !ok {
		return false
	}
	r.fields[i].Value = value
	return true
}

// Values 按 header 顺序返回字段值
func (r *Record) Values() []string {
	values := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		values = append(values, f.Value)
	}
	return values
}

// Names 按 header 顺序返回字段名
func (r *Record) Names() []string {
	names := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		names = append(names, f.Name)
	}
	return names
}

// Clone 返回 Record 的深拷贝
func (r *Record) Clone() *Record {
	fields := make([]Field, len(r.fields))
	copy(fields, r.fields)
	index := make(map[string]int, len(r.index))
	for k, v := range r.index {
		index[k] = v
	}
	return &Record{Seq: r.Seq, fields: fields, index: index}
}

// MarshalJSON 按 header 顺序序列化为 JSON Object
//
// 标准 map 序列化会打乱列顺序 所以这里手动拼接
func (r *Record) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 16*len(r.fields)+2)
	buf = append(buf, '{')
	for i, f := range r.fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, name...)
		buf = append(buf, ':')
		buf = append(buf, value...)
	}
	buf = append(buf, '}')
	return buf, nil
}
