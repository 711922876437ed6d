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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csvd/csvd/common"
)

func TestSum(t *testing.T) {
	header := []string{"a", "b"}

	r1 := common.NewRecord(1, header, []string{"1", "2"})
	r2 := common.NewRecord(9, header, []string{"1", "2"})
	assert.Equal(t, Sum(r1), Sum(r2))

	r3 := common.NewRecord(1, header, []string{"1", "3"})
	assert.NotEqual(t, Sum(r1), Sum(r3))

	// 值的串联边界参与指纹 ("ab","c") 与 ("a","bc") 必须不同
	r4 := common.NewRecord(1, header, []string{"ab", "c"})
	r5 := common.NewRecord(1, header, []string{"a", "bc"})
	assert.NotEqual(t, Sum(r4), Sum(r5))
}
