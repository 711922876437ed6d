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
	"github.com/csvd/csvd/common"
)

type Config struct {
	// MaxRemainder remainder 长度上限 单位 bytes
	MaxRemainder int `config:"maxRemainder"`
}

func (c *Config) Validate() {
	if c.MaxRemainder <= 0 {
		c.MaxRemainder = common.DefaultMaxRemainder
	}
}
