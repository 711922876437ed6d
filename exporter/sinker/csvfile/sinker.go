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
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/exporter"
)

func init() {
	exporter.Register(Name, New)
}

const Name = "csvfile"

// Sinker 将记录重新序列化为规范 CSV
//
// header 行取首条记录的字段名 此后所有记录按同一列序写出
// 需要引号包裹的值（含逗号/引号/换行）写出时引号成对转义
type Sinker struct {
	wr          io.WriteCloser
	buf         *bufio.Writer
	cfg         *exporter.CSVFileConfig
	wroteHeader bool
}

func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := &conf.CSVFile
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var wr io.WriteCloser
	if cfg.Console {
		wr = os.Stdout
	} else {
		f, err := os.Create(cfg.Filename)
		if err != nil {
			return nil, err
		}
		wr = f
	}

	return &Sinker{
		wr:  wr,
		buf: bufio.NewWriter(wr),
		cfg: cfg,
	}, nil
}

func (s *Sinker) Name() string {
	return Name
}

func (s *Sinker) Sink(record *common.Record) error {
	if !s.wroteHeader {
		if err := s.writeLine(record.Names()); err != nil {
			return err
		}
		s.wroteHeader = true
	}
	return s.writeLine(record.Values())
}

func (s *Sinker) Close() error {
	if err := s.buf.Flush(); err != nil {
		return err
	}
	if s.wr == os.Stdout {
		return nil
	}
	return s.wr.Close()
}

func (s *Sinker) writeLine(values []string) error {
	for i, v := range values {
		if i > 0 {
			if err := s.buf.WriteByte(','); err != nil {
				return err
			}
		}
		if err := s.writeField(v); err != nil {
			return err
		}
	}
	if s.cfg.CRLF {
		if _, err := s.buf.WriteString("\r\n"); err != nil {
			return err
		}
		return nil
	}
	return s.buf.WriteByte('\n')
}

func (s *Sinker) writeField(v string) error {
	if !strings.ContainsAny(v, ",\"\r\n") {
		_, err := s.buf.WriteString(v)
		return err
	}

	if err := s.buf.WriteByte('"'); err != nil {
		return err
	}
	for i := 0; i < len(v); i++ {
		if v[i] == '"' {
			if _, err := s.buf.WriteString(`""`); err != nil {
				return err
			}
			continue
		}
		if err := s.buf.WriteByte(v[i]); err != nil {
			return err
		}
	}
	return s.buf.WriteByte('"')
}
