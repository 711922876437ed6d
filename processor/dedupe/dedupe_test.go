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

package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csvd/csvd/common"
)

func TestDedupe(t *testing.T) {
	ps, err := New(common.NewOptions())
	assert.NoError(t, err)

	header := []string{"a", "b"}
	r1 := common.NewRecord(1, header, []string{"1", "2"})
	r2 := common.NewRecord(2, header, []string{"1", "2"})
	r3 := common.NewRecord(3, header, []string{"1", "3"})

	got, err := ps.Process(r1)
	assert.NoError(t, err)
	assert.Equal(t, r1, got)

	// 字段名值完全一致的记录被过滤 Seq 不参与指纹
	got, err = ps.Process(r2)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = ps.Process(r3)
	assert.NoError(t, err)
	assert.Equal(t, r3, got)
}

func TestDedupeMaxCached(t *testing.T) {
	ps, err := New(common.Options{"maxCached": 1})
	assert.NoError(t, err)

	header := []string{"a"}
	r1 := common.NewRecord(1, header, []string{"1"})
	r2 := common.NewRecord(2, header, []string{"2"})

	got, err := ps.Process(r1)
	assert.NoError(t, err)
	assert.NotNil(t, got)

	// 缓存达到上限后被清空 首条记录的指纹已被遗忘
	got, err = ps.Process(r2)
	assert.NoError(t, err)
	assert.NotNil(t, got)

	got, err = ps.Process(common.NewRecord(3, header, []string{"1"}))
	assert.NoError(t, err)
	assert.NotNil(t, got)
}
