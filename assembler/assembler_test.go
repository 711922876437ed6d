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

package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csvd/csvd/common"
)

func drive(t *testing.T, opts Options, chunks ...[]byte) ([]*common.Record, *Assembler) {
	t.Helper()

	asm := New(opts)
	var records []*common.Record
	for _, chunk := range chunks {
		out, err := asm.Push(chunk)
		assert.NoError(t, err)
		records = append(records, out...)
	}
	out, err := asm.Flush()
	assert.NoError(t, err)
	return append(records, out...), asm
}

func recordMaps(records []*common.Record) []map[string]string {
	maps := make([]map[string]string, 0, len(records))
	for _, r := range records {
		m := make(map[string]string, r.Len())
		for _, f := range r.Fields() {
			m[f.Name] = f.Value
		}
		maps = append(maps, m)
	}
	return maps
}

func TestAssemblerBasic(t *testing.T) {
	records, asm := drive(t, Options{}, []byte("name,age\n\"Doe, John\",30\n"))

	assert.Equal(t, []string{"name", "age"}, asm.Header())
	assert.Equal(t, []map[string]string{
		{"name": "Doe, John", "age": "30"},
	}, recordMaps(records))
	assert.Equal(t, StateDrained, asm.State())
	assert.NoError(t, asm.Err())

	stats := asm.Stats()
	assert.Equal(t, int64(2), stats.Lines)
	assert.Equal(t, int64(1), stats.Records)
}

func TestAssemblerNoTrailingNewline(t *testing.T) {
	records, _ := drive(t, Options{}, []byte("a,b\n1,2"))
	assert.Equal(t, []map[string]string{
		{"a": "1", "b": "2"},
	}, recordMaps(records))
}

func TestAssemblerHeaderArityMismatch(t *testing.T) {
	records, _ := drive(t, Options{}, []byte("a,b,c\n1,2\n1,2,3,4\n"))

	assert.Len(t, records, 2)
	// 缺列: 尾部 header 键缺席 不补默认值
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, recordMaps(records)[0])
	_, ok := records[0].Get("c")
	assert.False(t, ok)
	// 多列: 超出 header 宽度的列丢弃
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, recordMaps(records)[1])
}

func TestAssemblerEmptyDataLine(t *testing.T) {
	records, _ := drive(t, Options{}, []byte("a,b\n\n"))

	// 空行切出一个空字段 与 header 首列配对
	assert.Len(t, records, 1)
	assert.Equal(t, map[string]string{"a": ""}, recordMaps(records)[0])
}

// TestAssemblerChunkSizeInvariance 记录序列与分块方式无关
func TestAssemblerChunkSizeInvariance(t *testing.T) {
	input := "name,age\n\"Doe,\nJohn\",30\r\n\"say \"\"hi\"\"\",7\nlast,row"
	whole, _ := drive(t, Options{}, []byte(input))
	want := recordMaps(whole)

	for size := 1; size <= len(input); size++ {
		var chunks [][]byte
		for i := 0; i < len(input); i += size {
			end := i + size
			if end > len(input) {
				end = len(input)
			}
			chunks = append(chunks, []byte(input[i:end]))
		}
		records, _ := drive(t, Options{}, chunks...)
		assert.Equal(t, want, recordMaps(records), "chunk size %d", size)
	}
}

func TestAssemblerQuoteSpanningChunks(t *testing.T) {
	records, _ := drive(t, Options{},
		[]byte("name,age\n\"Doe,"),
		[]byte(" John\",30\n"),
	)
	assert.Equal(t, []map[string]string{
		{"name": "Doe, John", "age": "30"},
	}, recordMaps(records))
}

func TestAssemblerUnterminatedQuoteAtEOF(t *testing.T) {
	asm := New(Options{})
	_, err := asm.Push([]byte("a,b\n\"open,1"))
	assert.NoError(t, err)

	records, err := asm.Flush()
	assert.NoError(t, err)

	// 残余内容仍尽力组装为最后一条记录 条件降级为警告
	assert.Len(t, records, 1)
	assert.True(t, asm.Stats().UnterminatedQuote)
	assert.Error(t, asm.Err())
}

func TestAssemblerRemainderOverflow(t *testing.T) {
	asm := New(Options{MaxRemainder: 16})
	_, err := asm.Push([]byte("h1,h2\n\"never closed "))
	assert.NoError(t, err)

	_, err = asm.Push([]byte("and keeps growing without a newline in sight"))
	assert.ErrorIs(t, err, ErrRemainderOverflow)
}

func TestAssemblerPushAfterDrained(t *testing.T) {
	asm := New(Options{})
	_, err := asm.Flush()
	assert.NoError(t, err)

	_, err = asm.Push([]byte("a,b\n"))
	assert.ErrorIs(t, err, ErrDrained)
}

func TestAssemblerInvalidUTF8Line(t *testing.T) {
	asm := New(Options{})
	out, err := asm.Push([]byte("name\nok\n\xff\xfe\n"))
	assert.NoError(t, err)
	records, err := asm.Flush()
	assert.NoError(t, err)
	records = append(out, records...)

	// 无效字节净化为替换字符 记录照常产出 问题进入汇总
	assert.Len(t, records, 2)
	v, _ := records[0].Get("name")
	assert.Equal(t, "ok", v)
	assert.Equal(t, int64(1), asm.Stats().Malformed)
	assert.Error(t, asm.Err())
}

func TestAssemblerRecordOrdering(t *testing.T) {
	records, _ := drive(t, Options{}, []byte("n\n1\n2\n3\n4\n"))

	assert.Len(t, records, 4)
	for i, r := range records {
		assert.Equal(t, int64(i+1), r.Seq)
	}
}
