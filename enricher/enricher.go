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

// Package enricher 对接外部行清洗服务（如基于 AI 的字段清洗）
//
// 协议为 HTTP JSON 批量接口 请求携带一批按 header 顺序序列化的记录
// 响应逐条返回替换字段或失败标记 清洗失败的记录保留原始字段值
package enricher

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/confengine"
	"github.com/csvd/csvd/internal/json"
	"github.com/csvd/csvd/internal/rescue"
	"github.com/csvd/csvd/logger"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	Enabled  bool              `config:"enabled"`
	Endpoint string            `config:"endpoint"`
	Header   map[string]string `config:"header"`
	Batch    int               `config:"batch"`
	Workers  int               `config:"workers"`
	Timeout  time.Duration     `config:"timeout"`
}

func (c *Config) Validate() error {
	if _, err := url.Parse(c.Endpoint); err != nil {
		return err
	}
	if c.Endpoint == "" {
		return errors.New("enricher: endpoint required")
	}

	if c.Batch <= 0 {
		c.Batch = 100
	}
	if c.Workers <= 0 {
		c.Workers = common.Concurrency()
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}

// Enricher 批量调用外部清洗服务的客户端
type Enricher struct {
	cfg Config
	cli *http.Client
}

// New 创建并返回 Enricher 实例
//
// 未启用时返回空指针 调用方需先判断
func New(conf *confengine.Config) (*Enricher, error) {
	var cfg Config
	if err := conf.UnpackChild("enricher", &cfg); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Enricher{
		cfg: cfg,
		cli: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type request struct {
	BatchID string           `json:"batchId"`
	Rows    []*common.Record `json:"rows"`
}

type responseRow struct {
	Fields map[string]string `json:"fields"`
	Error  string            `json:"error"`
}

type response struct {
	Rows []responseRow `json:"rows"`
}

// Enrich 清洗一批记录 原地改写字段值 返回清洗失败的记录数
//
// 一批记录按 Batch 拆分为多个子批 由有界 worker 并发发送
// 改写均为原地值替换 记录切片顺序不变 产出顺序与行序保持一致
// 任何请求层面的失败只影响所属子批 对应记录保留原值
func (e *Enricher) Enrich(ctx context.Context, records []*common.Record) int {
	if len(records) == 0 {
		return 0
	}

	var failed atomic.Int64
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.cfg.Workers)

	for start := 0; start < len(records); start += e.cfg.Batch {
		end := start + e.cfg.Batch
		if end > len(records) {
			end = len(records)
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(batch []*common.Record) {
			defer wg.Done()
			defer func() { <-sem }()
			defer rescue.HandleCrash()

			n, err := e.enrichBatch(ctx, batch)
			if err != nil {
				logger.Warnf("enrich batch failed, keep %d records untouched: %v", len(batch), err)
				failed.Add(int64(len(batch)))
				return
			}
			failed.Add(int64(n))
		}(records[start:end])
	}

	wg.Wait()
	return int(failed.Load())
}

func (e *Enricher) enrichBatch(ctx context.Context, batch []*common.Record) (int, error) {
	body, err := json.Marshal(request{
		BatchID: uuid.New().String(),
		Rows:    batch,
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range e.cfg.Header {
		req.Header.Set(k, v)
	}

	rsp, err := e.cli.Do(req)
	if err != nil {
		return 0, err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("unexpected status code %d", rsp.StatusCode)
	}

	var result response
	if err := json.NewDecoder(rsp.Body).Decode(&result); err != nil {
		return 0, err
	}
	if len(result.Rows) != len(batch) {
		return 0, errors.Errorf("row count mismatch: sent %d, got %d", len(batch), len(result.Rows))
	}

	var failed int
	for i, row := range result.Rows {
		if row.Error != "" {
			failed++
			continue
		}
		for name, value := range row.Fields {
			// 未知字段名直接忽略 记录的字段集合由 header 决定 不做追加
			batch[i].Set(name, value)
		}
	}
	return failed, nil
}
