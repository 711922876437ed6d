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
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/confengine"
)

// Exporter 将记录分发至所有启用的 sinker
type Exporter struct {
	conf    Config
	sinkers []Sinker
}

func New(conf *confengine.Config) (*Exporter, error) {
	var cfg Config
	if err := conf.UnpackChild("exporter", &cfg); err != nil {
		return nil, err
	}

	var sinkers []Sinker
	enabled := map[string]bool{
		"jsonl":    cfg.JSONL.Enabled,
		"csvfile":  cfg.CSVFile.Enabled,
		"mongodb":  cfg.MongoDB.Enabled,
		"postgres": cfg.Postgres.Enabled,
	}
	for _, name := range []string{"jsonl", "csvfile", "mongodb", "postgres"} {
		if !enabled[name] {
			continue
		}
		f := Get(name)
		if f == nil {
			return nil, errors.Errorf("exporter: sinker (%s) not registered", name)
		}
		sinker, err := f(cfg)
		if err != nil {
			return nil, err
		}
		sinkers = append(sinkers, sinker)
	}

	return &Exporter{
		conf:    cfg,
		sinkers: sinkers,
	}, nil
}

// Enabled 返回是否存在任何启用的 sinker
func (e *Exporter) Enabled() bool {
	return len(e.sinkers) > 0
}

// Export 将记录写入所有 sinker 单个 sinker 失败不阻断其余写入
func (e *Exporter) Export(record *common.Record) error {
	var errs *multierror.Error
	for _, sinker := range e.sinkers {
		if err := sinker.Sink(record); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "sink (%s)", sinker.Name()))
		}
	}
	return errs.ErrorOrNil()
}

// Close 依次关闭所有 sinker 返回冲刷阶段的错误汇总
func (e *Exporter) Close() error {
	var errs *multierror.Error
	for _, sinker := range e.sinkers {
		if err := sinker.Close(); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "close (%s)", sinker.Name()))
		}
	}
	return errs.ErrorOrNil()
}
