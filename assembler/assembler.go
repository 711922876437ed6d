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

// Package assembler 将有序字节分块组装为 header 对齐的记录流
package assembler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/splitcsv"
)

// State Assembler 的运行状态 单向推进 不允许回退
type State int8

const (
	// StateAwaitingHeader 等待整个流的首个逻辑行作为 header
	StateAwaitingHeader State = iota

	// StateStreaming header 已就位 后续逻辑行逐条组装为记录
	StateStreaming

	// StateDrained 流已结束 终态
	StateDrained
)

func (s State) String() string {
	switch s {
	case StateAwaitingHeader:
		return "awaitingHeader"
	case StateStreaming:
		return "streaming"
	case StateDrained:
		return "drained"
	}
	return "unknown"
}

// ErrRemainderOverflow remainder 超出上限 视为数据损坏（如永不闭合的引号字段）
var ErrRemainderOverflow = errors.New("assembler: remainder exceeds limit")

// ErrDrained 流已结束后继续喂数
var ErrDrained = errors.New("assembler: already drained")

// MalformedLineError 行级数据质量问题 不中断整个流
type MalformedLineError struct {
	Line   int64
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed line %d: %s", e.Line, e.Reason)
}

// Options Assembler 配置项
type Options struct {
	// MaxRemainder remainder 长度上限 <=0 时使用默认值
	MaxRemainder int
}

// Stats 组装过程的累计计数
type Stats struct {
	Chunks    int64
	Lines     int64
	Records   int64
	Malformed int64

	// UnterminatedQuote 流结束时 remainder 仍处于引号打开状态
	UnterminatedQuote bool
}

// Assembler 按 AwaitingHeader -> Streaming -> Drained 推进的组装器
//
// 跨分块状态只有 remainder 与 header 两份 均由 Assembler 独占
// 切割本身委托给 splitcsv 的纯函数 保证任意分块边界下结果一致
type Assembler struct {
	opts  Options
	state State

	header    []string
	remainder []byte

	offset int64 // 已消费的流内字节偏移
	lineNo int64 // 逻辑行号 从 1 开始 header 占第 1 行
	seq    int64 // 数据记录序号 从 1 开始

	stats Stats
	errs  *multierror.Error
}

func New(opts Options) *Assembler {
	if opts.MaxRemainder <= 0 {
		opts.MaxRemainder = common.DefaultMaxRemainder
	}
	return &Assembler{
		opts:  opts,
		state: StateAwaitingHeader,
	}
}

// Push 处理下一个分块 返回该分块内完结的记录
//
// 分块必须按流内顺序喂入 remainder 是串行依赖 不存在并行喂数的余地
// 返回 error 仅代表致命问题（remainder 超限 / 流已结束）
// 行级问题见 Err 汇总
func (a *Assembler) Push(chunk []byte) ([]*common.Record, error) {
	if a.state == StateDrained {
		return nil, ErrDrained
	}

	buf := append(a.remainder, chunk...)
	lines, remainder := splitcsv.SplitLines(buf)
	a.remainder = remainder
	a.stats.Chunks++
	a.offset += int64(len(chunk))

	if len(a.remainder) > a.opts.MaxRemainder {
		return nil, errors.Wrapf(ErrRemainderOverflow,
			"chunk %d, stream offset %d, remainder %d bytes", a.stats.Chunks, a.offset, len(a.remainder))
	}
	return a.consume(lines), nil
}

// Flush 声明流已结束
//
// 残余的非空 remainder 作为最后一个逻辑行处理（无结尾换行的常规情况）
// 若此时引号仍未闭合 记录仍按现有内容尽力组装 并在 Stats 中标记警告
func (a *Assembler) Flush() ([]*common.Record, error) {
	if a.state == StateDrained {
		return nil, ErrDrained
	}

	var records []*common.Record
	if len(a.remainder) > 0 {
		if splitcsv.OpenQuote(a.remainder) {
			a.stats.UnterminatedQuote = true
			a.errs = multierror.Append(a.errs, &MalformedLineError{
				Line:   a.lineNo + 1,
				Reason: "unterminated quote at end of stream",
			})
		}
		records = a.consume([]string{string(a.remainder)})
		a.remainder = nil
	}
	a.state = StateDrained
	return records, nil
}

func (a *Assembler) consume(lines []string) []*common.Record {
	var records []*common.Record
	for _, line := range lines {
		a.lineNo++
		a.stats.Lines++

		if !utf8.ValidString(line) {
			// 解码问题属于数据质量而非结构问题 净化后继续 不中断流
			line = strings.ToValidUTF8(line, string(utf8.RuneError))
			a.stats.Malformed++
			a.errs = multierror.Append(a.errs, &MalformedLineError{
				Line:   a.lineNo,
				Reason: "invalid UTF-8 sequence",
			})
		}

		fields := splitcsv.SplitFields(line)
		if a.state == StateAwaitingHeader {
			a.header = fields
			a.state = StateStreaming
			continue
		}

		a.seq++
		a.stats.Records++
		records = append(records, common.NewRecord(a.seq, a.header, fields))
	}
	return records
}

// Header 返回已解析的 header 未解析到时返回 nil
func (a *Assembler) Header() []string {
	return a.header
}

func (a *Assembler) State() State {
	return a.state
}

func (a *Assembler) Stats() Stats {
	return a.stats
}

// Err 返回行级问题的汇总 不包含致命错误
func (a *Assembler) Err() error {
	return a.errs.ErrorOrNil()
}
