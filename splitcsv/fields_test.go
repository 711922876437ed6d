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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "EmptyLineYieldsSingleEmptyField",
			input: "",
			want:  []string{""},
		},
		{
			name:  "SingleField",
			input: "hello",
			want:  []string{"hello"},
		},
		{
			name:  "PlainFields",
			input: "a,b,c",
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "EmptyFields",
			input: ",,",
			want:  []string{"", "", ""},
		},
		{
			name:  "TrailingComma",
			input: "a,",
			want:  []string{"a", ""},
		},
		{
			name:  "QuotedComma",
			input: "\"Doe, John\",30",
			want:  []string{"Doe, John", "30"},
		},
		{
			name:  "QuotesAreNotPartOfValue",
			input: "\"a\",\"b\"",
			want:  []string{"a", "b"},
		},
		{
			name:  "EmptyQuotedField",
			input: "\"\",x",
			want:  []string{"", "x"},
		},
		{
			name:  "EscapedQuote",
			input: "\"say \"\"hi\"\"\",ok",
			want:  []string{"say \"hi\"", "ok"},
		},
		{
			name:  "QuoteOnlyValue",
			input: "\"\"\"\"",
			want:  []string{"\""},
		},
		{
			name:  "EmbeddedNewlinePreserved",
			input: "\"line\nbreak\",x",
			want:  []string{"line\nbreak", "x"},
		},
		{
			name:  "PartiallyQuotedField",
			input: "ab\"c,d\"e,f",
			want:  []string{"abc,de", "f"},
		},
		{
			name:  "UnicodeFields",
			input: "名前,\"値,一\"",
			want:  []string{"名前", "値,一"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitFields(tt.input))
		})
	}
}

// TestSplitFieldsIdempotent 同一逻辑行重复切割 结果必须一致
func TestSplitFieldsIdempotent(t *testing.T) {
	line := "\"Doe, John\",30,\"say \"\"hi\"\"\""
	first := SplitFields(line)
	second := SplitFields(line)
	assert.Equal(t, first, second)
}

// TestSplitQuoteRuleConsistency 行切割与字段切割对同一输入的引号奇偶性判断必须一致
//
// 若两处转义规则不同 `"a""b"` 这类输入会在一处视为闭合 另一处视为未闭合
func TestSplitQuoteRuleConsistency(t *testing.T) {
	inputs := []string{
		"\"a\"\"b\",c\n",
		"\"\"\"\",x\n",
		"\"a\"\"\",\"\"\"b\"\n",
	}
	for _, input := range inputs {
		lines, remainder := SplitLines([]byte(input))
		assert.Empty(t, remainder, "input %q", input)
		assert.Len(t, lines, 1, "input %q", input)

		// 行切割认定该行完整 字段切割扫描完整行后也必须回到闭合状态
		fields := SplitFields(lines[0])
		assert.NotEmpty(t, fields)
	}
}

func BenchmarkSplitFields(b *testing.B) {
	line := "field1,\"field, two\",field3,\"say \"\"hi\"\"\",last"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SplitFields(line)
	}
}
