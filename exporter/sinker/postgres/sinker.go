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

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/exporter"
)

func init() {
	exporter.Register(Name, New)
}

const Name = "postgres"

// Sinker 将记录批量 CopyFrom 至 Postgres 表
//
// 列名取首条记录的字段名 目标表需要预先建好同名 text 列
// CopyFrom 按 Batch 条一次提交 远快于逐条 INSERT
type Sinker struct {
	pool *pgxpool.Pool
	cfg  *exporter.PostgresConfig

	columns []string
	pending [][]any
}

func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := &conf.Postgres
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}

	return &Sinker{
		pool: pool,
		cfg:  cfg,
	}, nil
}

func (s *Sinker) Name() string {
	return Name
}

func (s *Sinker) Sink(record *common.Record) error {
	if s.columns == nil {
		s.columns = record.Names()
	}

	row := make([]any, 0, len(s.columns))
	for _, name := range s.columns {
		// 缺席字段写入 NULL 与 Record 的 `缺列不补默认值` 语义对应
		if v, ok := record.Get(name); ok {
			row = append(row, v)
		} else {
			row = append(row, nil)
		}
	}

	s.pending = append(s.pending, row)
	if len(s.pending) < s.cfg.Batch {
		return nil
	}
	return s.flush()
}

func (s *Sinker) Close() error {
	err := s.flush()
	s.pool.Close()
	return err
}

func (s *Sinker) flush() error {
	if len(s.pending) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	_, err := s.pool.CopyFrom(
		ctx,
		pgx.Identifier{s.cfg.Table},
		s.columns,
		pgx.CopyFromRows(s.pending),
	)
	s.pending = s.pending[:0]
	return err
}
