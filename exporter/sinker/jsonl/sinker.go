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

package jsonl

import (
	"io"
	"os"

	"github.com/golang/snappy"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/exporter"
	"github.com/csvd/csvd/internal/fasttime"
	"github.com/csvd/csvd/internal/json"
)

func init() {
	exporter.Register(Name, New)
}

const Name = "jsonl"

// Sinker 将记录按 JSON-lines 写出 字段顺序与 header 保持一致
type Sinker struct {
	wr      io.Closer
	encoder *json.Encoder
	cfg     *exporter.JSONLConfig
}

func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := &conf.JSONL
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Console {
		// stdout 不归 sinker 所有 关闭时不做任何事
		return &Sinker{
			wr:      nopCloser{},
			encoder: json.NewEncoder(os.Stdout),
			cfg:     cfg,
		}, nil
	}

	logger := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		LocalTime:  true,
	}

	if cfg.Snappy {
		sw := snappy.NewBufferedWriter(logger)
		return &Sinker{
			wr:      &stacked{closers: []io.Closer{sw, logger}},
			encoder: json.NewEncoder(sw),
			cfg:     cfg,
		}, nil
	}

	return &Sinker{
		wr:      logger,
		encoder: json.NewEncoder(logger),
		cfg:     cfg,
	}, nil
}

func (s *Sinker) Name() string {
	return Name
}

func (s *Sinker) Sink(record *common.Record) error {
	if s.cfg.Timestamp {
		type R struct {
			IngestedAt int64          `json:"ingestedAt"`
			Row        *common.Record `json:"row"`
		}
		return s.encoder.Encode(R{
			IngestedAt: fasttime.UnixTimestamp(),
			Row:        record,
		})
	}
	return s.encoder.Encode(record)
}

func (s *Sinker) Close() error {
	return s.wr.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// stacked 依序关闭多层 writer 压缩层必须先于落盘层关闭
type stacked struct {
	closers []io.Closer
}

func (st *stacked) Close() error {
	var first error
	for _, c := range st.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
