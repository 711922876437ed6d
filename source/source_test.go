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

package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func drainSource(t *testing.T, src Source) []byte {
	var got []byte
	for {
		chunk, err := src.Next(context.Background())
		if err != nil {
			assert.ErrorIs(t, err, io.EOF)
			return got
		}
		// 分块缓冲会被复用 这里必须拷贝
		got = append(got, chunk...)
	}
}

func TestReaderSource(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		chunkSize int
	}{
		{
			name:      "SingleChunk",
			content:   "a,b\n1,2\n",
			chunkSize: 1024,
		},
		{
			name:      "ByteSizedChunks",
			content:   "a,b\n1,2\n3,4\n",
			chunkSize: 1,
		},
		{
			name:      "ChunkBoundaryInsideLine",
			content:   strings.Repeat("aaaa,bbbb\n", 100),
			chunkSize: 7,
		},
		{
			name:      "Empty",
			content:   "",
			chunkSize: 16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewReader("test", strings.NewReader(tt.content), tt.chunkSize)
			assert.Equal(t, "test", src.Name())
			assert.Equal(t, tt.content, string(drainSource(t, src)))
			assert.NoError(t, src.Close())
		})
	}
}

func TestReaderSourceCanceled(t *testing.T) {
	src := NewReader("test", strings.NewReader("a,b\n"), 16)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	content := "name,age\n\"Doe, John\",30\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	src, err := NewFile(path, 4)
	assert.NoError(t, err)
	assert.Equal(t, path, src.Name())
	assert.Equal(t, content, string(drainSource(t, src)))
	assert.NoError(t, src.Close())
}

func TestFileSourceNotFound(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "missing.csv"), 4)
	assert.Error(t, err)
}
