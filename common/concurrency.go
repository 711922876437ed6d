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

package common

import (
	"runtime"
	"time"
)

var coreNums = runtime.NumCPU()

// Concurrency 返回建议的并发 worker 数
//
// 解析主线是严格串行的 并发只发生在外部写入场景（enrich 请求 / sinker 落盘）
// 这类场景以 IO 等待为主 所以不必随核数线性放大
func Concurrency() int {
	if coreNums < 2 {
		return 2
	}
	return coreNums
}

var started = time.Now().Unix()

// Started 返回进程启动时间戳
func Started() int64 {
	return started
}
