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

package exporter

import (
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	JSONL    JSONLConfig    `config:"jsonl"`
	CSVFile  CSVFileConfig  `config:"csvfile"`
	MongoDB  MongoDBConfig  `config:"mongodb"`
	Postgres PostgresConfig `config:"postgres"`
}

type JSONLConfig struct {
	Enabled    bool   `config:"enabled"`
	Console    bool   `config:"console"`
	Filename   string `config:"filename"`
	MaxSize    int    `config:"maxSize"`
	MaxBackups int    `config:"maxBackups"`
	MaxAge     int    `config:"maxAge"`

	// Snappy 落盘时使用 snappy 帧格式压缩 与 Console 互斥
	Snappy bool `config:"snappy"`

	// Timestamp 为每条记录附加 ingestedAt 秒级时间戳
	Timestamp bool `config:"timestamp"`
}

func (c *JSONLConfig) Validate() error {
	if c.Filename == "" {
		c.Filename = "csvd.records"
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 100
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 7
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 10
	}
	if c.Console && c.Snappy {
		return errors.New("exporter: jsonl snappy output requires a file")
	}
	return nil
}

type CSVFileConfig struct {
	Enabled  bool   `config:"enabled"`
	Console  bool   `config:"console"`
	Filename string `config:"filename"`

	// CRLF 使用 \r\n 作为行终结符
	CRLF bool `config:"crlf"`
}

func (c *CSVFileConfig) Validate() error {
	if !c.Console && c.Filename == "" {
		return errors.New("exporter: csvfile filename required")
	}
	return nil
}

type MongoDBConfig struct {
	Enabled    bool          `config:"enabled"`
	URI        string        `config:"uri"`
	Database   string        `config:"database"`
	Collection string        `config:"collection"`
	Batch      int           `config:"batch"`
	Timeout    time.Duration `config:"timeout"`
}

func (c *MongoDBConfig) Validate() error {
	if c.URI == "" {
		return errors.New("exporter: mongodb uri required")
	}
	if c.Database == "" || c.Collection == "" {
		return errors.New("exporter: mongodb database/collection required")
	}
	if c.Batch <= 0 {
		c.Batch = 500
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}

type PostgresConfig struct {
	Enabled bool          `config:"enabled"`
	DSN     string        `config:"dsn"`
	Table   string        `config:"table"`
	Batch   int           `config:"batch"`
	Timeout time.Duration `config:"timeout"`
}

func (c *PostgresConfig) Validate() error {
	if c.DSN == "" {
		return errors.New("exporter: postgres dsn required")
	}
	if c.Table == "" {
		return errors.New("exporter: postgres table required")
	}
	if c.Batch <= 0 {
		c.Batch = 500
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}
