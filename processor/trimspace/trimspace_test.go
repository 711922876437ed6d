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

package trimspace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csvd/csvd/common"
)

func TestTrimSpace(t *testing.T) {
	tests := []struct {
		name   string
		opts   common.Options
		values []string
		want   []string
	}{
		{
			name:   "AllFields",
			opts:   common.Options{},
			values: []string{" 1 ", "\t2", "3\r"},
			want:   []string{"1", "2", "3"},
		},
		{
			name:   "SelectedFields",
			opts:   common.Options{"fields": []string{"b"}},
			values: []string{" 1 ", " 2 ", " 3 "},
			want:   []string{" 1 ", "2", " 3 "},
		},
		{
			name:   "InnerSpacePreserved",
			opts:   common.Options{},
			values: []string{" a b ", "c"},
			want:   []string{"a b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := New(tt.opts)
			assert.NoError(t, err)

			record := common.NewRecord(1, []string{"a", "b", "c"}, tt.values)
			got, err := ps.Process(record)
			assert.NoError(t, err)
			assert.Equal(t, tt.want[:record.Len()], got.Values())
		})
	}
}
