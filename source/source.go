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

// Package source 负责向解析主线提供有序的字节分块
package source

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/confengine"
)

// Config source 配置项
type Config struct {
	// Path 数据源路径 `-` 代表 stdin
	Path string `config:"path"`

	// ChunkSize 单次读取的分块大小 单位 bytes
	ChunkSize int `config:"chunkSize"`
}

func (c *Config) Validate() error {
	if c.Path == "" {
		return errors.New("source: path required")
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = common.DefaultChunkSize
	}
	return nil
}

// Source 字节数据源
//
// 实现方保证分块有序且不重叠 分块大小由 Source 自行决定
// 下游的切割正确性与分块大小无关
type Source interface {
	// Name 数据源名称 用于日志与错误上下文
	Name() string

	// Next 返回下一个分块 流结束时返回 io.EOF
	//
	// 返回的切片只在下一次 Next 调用前有效 需要留存时请自行拷贝
	Next(ctx context.Context) ([]byte, error)

	// Close 关闭数据源并释放资源
	Close() error
}

// New 根据配置创建 Source 实例
func New(conf *confengine.Config) (Source, error) {
	var cfg Config
	if err := conf.UnpackChild("source", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Path == "-" {
		return NewReader("stdin", os.Stdin, cfg.ChunkSize), nil
	}
	return NewFile(cfg.Path, cfg.ChunkSize)
}

type readerSource struct {
	name   string
	r      io.Reader
	closer io.Closer
	buf    []byte
}

// NewReader 将任意 io.Reader 包装为 Source 读取缓冲会被复用
func NewReader(name string, r io.Reader, chunkSize int) Source {
	if chunkSize <= 0 {
		chunkSize = common.DefaultChunkSize
	}
	rs := &readerSource{
		name: name,
		r:    r,
		buf:  make([]byte, chunkSize),
	}
	if closer, ok := r.(io.Closer); ok {
		rs.closer = closer
	}
	return rs
}

// NewFile 创建文件数据源
func NewFile(path string, chunkSize int) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "source: open %s", path)
	}
	return NewReader(path, f, chunkSize), nil
}

func (rs *readerSource) Name() string {
	return rs.name
}

func (rs *readerSource) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for {
		n, err := rs.r.Read(rs.buf)
		if n > 0 {
			return rs.buf[:n], nil
		}
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, errors.Wrapf(err, "source: read %s", rs.name)
		}
	}
}

func (rs *readerSource) Close() error {
	if rs.closer == nil {
		return nil
	}
	return rs.closer.Close()
}
