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

package controller

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/pkg/errors"

	"github.com/csvd/csvd/assembler"
	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/confengine"
	"github.com/csvd/csvd/enricher"
	"github.com/csvd/csvd/exporter"
	"github.com/csvd/csvd/internal/rescue"
	"github.com/csvd/csvd/logger"
	"github.com/csvd/csvd/pipeline"
	"github.com/csvd/csvd/server"
	"github.com/csvd/csvd/source"
)

// Controller 负责组装并驱动整条解析链路
//
// source -> assembler -> pipeline -> enricher -> exporter
// 解析主线严格串行 chunk N+1 一定在 chunk N 的行与 remainder 处理完之后
// 并发只存在于 enricher 的批量请求内部
type Controller struct {
	ctx       context.Context
	cancel    context.CancelFunc
	cfg       Config
	buildInfo common.BuildInfo

	src source.Source
	pl  *pipeline.Pipeline
	enr *enricher.Enricher
	exp *exporter.Exporter
	svr *server.Server

	mut  sync.Mutex
	asm  *assembler.Assembler
	done chan struct{}
	err  error
}

func setupLogger(conf *confengine.Config) error {
	var opts logger.Options
	if err := conf.UnpackChild("logger", &opts); err != nil {
		return err
	}

	if opts.Filename == "" {
		opts.Filename = "csvd.log"
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 10
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 7
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = 100
	}

	logger.SetOptions(opts)
	return nil
}

func New(conf *confengine.Config, buildInfo common.BuildInfo) (*Controller, error) {
	if err := setupLogger(conf); err != nil {
		return nil, err
	}

	src, err := source.New(conf)
	if err != nil {
		return nil, err
	}

	pl, err := pipeline.New(conf)
	if err != nil {
		return nil, err
	}

	enr, err := enricher.New(conf)
	if err != nil {
		return nil, err
	}

	exp, err := exporter.New(conf)
	if err != nil {
		return nil, err
	}

	svr, err := server.New(conf)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := conf.UnpackChild("controller", &cfg); err != nil {
		return nil, err
	}
	cfg.Validate()

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		buildInfo: buildInfo,
		src:       src,
		pl:        pl,
		enr:       enr,
		exp:       exp,
		svr:       svr,
		asm:       assembler.New(assembler.Options{MaxRemainder: cfg.MaxRemainder}),
		done:      make(chan struct{}),
	}, nil
}

func (c *Controller) Start() error {
	c.setupServer()

	if c.svr != nil {
		go func() {
			err := c.svr.ListenAndServe()
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("failed to start server: %v", err)
			}
		}()
	}

	go func() {
		defer close(c.done)
		defer rescue.HandleCrash()
		c.err = c.drive()
	}()
	return nil
}

// Done 解析流程结束（排空或致命失败）时关闭
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Err 返回致命错误 只有 Done 关闭后结果才有意义
func (c *Controller) Err() error {
	<-c.done
	return c.err
}

// Stop 取消流程并释放资源 可在任意时刻调用
//
// 取消只会发生在 chunk 边界之间 既有 remainder 不会被当作完整记录发出
func (c *Controller) Stop() {
	c.cancel()
	<-c.done

	if err := c.exp.Close(); err != nil {
		logger.Errorf("failed to close exporter: %v", err)
	}
	c.pl.Clean()
	if c.svr != nil {
		c.svr.Close()
	}
}

func (c *Controller) drive() error {
	defer c.src.Close()

	for {
		select {
		case <-c.ctx.Done():
			logger.Infof("parse canceled at chunk boundary")
			return nil
		default:
		}

		chunk, err := c.src.Next(c.ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return c.drain()
			}
			// SourceReadError 属于致命错误 不做重试 直接中止
			return errors.Wrapf(err, "source (%s)", c.src.Name())
		}

		records, err := c.push(chunk)
		if err != nil {
			return err
		}
		if err := c.dispatch(records); err != nil {
			return err
		}
	}
}

func (c *Controller) push(chunk []byte) ([]*common.Record, error) {
	c.mut.Lock()
	defer c.mut.Unlock()

	before := c.asm.Stats()
	records, err := c.asm.Push(chunk)
	if err != nil {
		return nil, err
	}

	after := c.asm.Stats()
	chunksTotal.Inc()
	linesTotal.Add(float64(after.Lines - before.Lines))
	recordsTotal.Add(float64(after.Records - before.Records))
	malformedLinesTotal.Add(float64(after.Malformed - before.Malformed))
	return records, nil
}

func (c *Controller) drain() error {
	c.mut.Lock()
	before := c.asm.Stats()
	records, err := c.asm.Flush()
	after := c.asm.Stats()
	if err == nil {
		linesTotal.Add(float64(after.Lines - before.Lines))
		recordsTotal.Add(float64(after.Records - before.Records))
		malformedLinesTotal.Add(float64(after.Malformed - before.Malformed))
		if after.UnterminatedQuote {
			logger.Warnf("unterminated quote at end of stream, emitted remainder as final line")
		}
	}
	c.mut.Unlock()
	if err != nil {
		return err
	}

	if err := c.dispatch(records); err != nil {
		return err
	}

	c.mut.Lock()
	stats := c.asm.Stats()
	quality := c.asm.Err()
	c.mut.Unlock()

	if quality != nil {
		logger.Warnf("data quality issues: %v", quality)
	}
	logger.Infof("stream drained: %d chunks, %d lines, %d records, %d malformed",
		stats.Chunks, stats.Lines, stats.Records, stats.Malformed)
	return nil
}

// dispatch 将一批已组装记录送入 pipeline/enricher/exporter
//
// enricher 以批为单位同步等待 天然形成背压 内存占用与消费端延迟无关
func (c *Controller) dispatch(records []*common.Record) error {
	if len(records) == 0 {
		return nil
	}

	kept := make([]*common.Record, 0, len(records))
	for _, record := range records {
		if r := c.pl.Apply(record); r != nil {
			kept = append(kept, r)
			continue
		}
		filteredTotal.Inc()
	}

	if c.enr != nil {
		failed := c.enr.Enrich(c.ctx, kept)
		enrichFailedTotal.Add(float64(failed))
	}

	for _, record := range kept {
		if err := c.exp.Export(record); err != nil {
			sinkFailedTotal.Inc()
			logger.Errorf("failed to export record %d: %v", record.Seq, err)
		}
	}
	return nil
}
