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

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/confengine"
	_ "github.com/csvd/csvd/processor/dedupe"
	_ "github.com/csvd/csvd/processor/trimspace"
)

const content = `
processor:
- name: trimspace
- name: dedupe

pipeline:
- name: clean
  processors:
  - trimspace
  - dedupe
`

func TestPipelineApply(t *testing.T) {
	conf, err := confengine.LoadContent([]byte(content))
	assert.NoError(t, err)

	pl, err := New(conf)
	assert.NoError(t, err)
	defer pl.Clean()

	header := []string{"a", "b"}

	got := pl.Apply(common.NewRecord(1, header, []string{" 1 ", "2"}))
	assert.NotNil(t, got)
	assert.Equal(t, []string{"1", "2"}, got.Values())

	// 剥除空白后与首条记录重复 被 dedupe 过滤
	got = pl.Apply(common.NewRecord(2, header, []string{"1 ", " 2"}))
	assert.Nil(t, got)

	got = pl.Apply(common.NewRecord(3, header, []string{"3", "4"}))
	assert.NotNil(t, got)
}

func TestPipelineUnknownProcessor(t *testing.T) {
	conf, err := confengine.LoadContent([]byte(`
pipeline:
- name: clean
  processors:
  - missing
`))
	assert.NoError(t, err)

	pl, err := New(conf)
	assert.NoError(t, err)

	// 未注册的 processor 在执行时被跳过
	record := common.NewRecord(1, []string{"a"}, []string{"1"})
	assert.Equal(t, record, pl.Apply(record))
}
