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

package dedupe

import (
	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/internal/rowhash"
	"github.com/csvd/csvd/processor"
)

func init() {
	processor.Register(Name, New)
}

const Name = "dedupe"

const defaultMaxCached = 1 << 20

// dedupe 按字段指纹丢弃重复记录
//
// 解析主线严格串行 无需加锁
type dedupe struct {
	maxCached int
	seen      map[uint64]struct{}
}

func New(opts common.Options) (processor.Processor, error) {
	// maxCached 指纹缓存上限 超限后清空重计 宁可漏去重也不无界占用内存
	maxCached, err := opts.GetInt("maxCached")
	if err != nil || maxCached <= 0 {
		maxCached = defaultMaxCached
	}
	return &dedupe{
		maxCached: maxCached,
		seen:      make(map[uint64]struct{}),
	}, nil
}

func (d *dedupe) Name() string {
	return Name
}

func (d *dedupe) Process(record *common.Record) (*common.Record, error) {
	h := rowhash.Sum(record)
	if _, ok := d.seen[h]; ok {
		return nil, nil
	}

	if len(d.seen) >= d.maxCached {
		d.seen = make(map[uint64]struct{})
	}
	d.seen[h] = struct{}{}
	return record, nil
}

func (d *dedupe) Clean() {
	d.seen = nil
}
