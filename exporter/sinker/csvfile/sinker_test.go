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

package csvfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/exporter"
)

func sinkRecords(t *testing.T, crlf bool, records []*common.Record) string {
	path := filepath.Join(t.TempDir(), "out.csv")
	s, err := New(exporter.Config{
		CSVFile: exporter.CSVFileConfig{
			Enabled:  true,
			Filename: path,
			CRLF:     crlf,
		},
	})
	assert.NoError(t, err)

	for _, record := range records {
		assert.NoError(t, s.Sink(record))
	}
	assert.NoError(t, s.Close())

	b, err := os.ReadFile(path)
	assert.NoError(t, err)
	return string(b)
}

func TestSinker(t *testing.T) {
	header := []string{"name", "age"}
	tests := []struct {
		name    string
		crlf    bool
		records []*common.Record
		want    string
	}{
		{
			name: "Plain",
			records: []*common.Record{
				common.NewRecord(1, header, []string{"Doe", "30"}),
				common.NewRecord(2, header, []string{"Roe", "40"}),
			},
			want: "name,age\nDoe,30\nRoe,40\n",
		},
		{
			name: "QuotedComma",
			records: []*common.Record{
				common.NewRecord(1, header, []string{"Doe, John", "30"}),
			},
			want: "name,age\n\"Doe, John\",30\n",
		},
		{
			name: "QuotedQuoteAndNewline",
			records: []*common.Record{
				common.NewRecord(1, header, []string{"say \"hi\"", "a\nb"}),
			},
			want: "name,age\n\"say \"\"hi\"\"\",\"a\nb\"\n",
		},
		{
			name: "CRLF",
			crlf: true,
			records: []*common.Record{
				common.NewRecord(1, header, []string{"Doe", "30"}),
			},
			want: "name,age\r\nDoe,30\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sinkRecords(t, tt.crlf, tt.records))
		})
	}
}
