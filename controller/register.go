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
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/csvd/csvd/assembler"
	"github.com/csvd/csvd/common"
	"github.com/csvd/csvd/internal/fasttime"
	"github.com/csvd/csvd/internal/json"

	_ "github.com/csvd/csvd/exporter/sinker/csvfile"
	_ "github.com/csvd/csvd/exporter/sinker/jsonl"
	_ "github.com/csvd/csvd/exporter/sinker/mongodb"
	_ "github.com/csvd/csvd/exporter/sinker/postgres"
	_ "github.com/csvd/csvd/processor/dedupe"
	_ "github.com/csvd/csvd/processor/trimspace"
)

func (c *Controller) setupServer() {
	if c.svr == nil {
		return
	}

	c.svr.RegisterGetRoute("/metrics", promhttp.Handler().ServeHTTP)
	c.svr.RegisterGetRoute("/-/status", c.statusRoute)
}

type status struct {
	App     string           `json:"app"`
	Build   common.BuildInfo `json:"build"`
	Uptime  int64            `json:"uptime"`
	Source  string           `json:"source"`
	State   string           `json:"state"`
	Header  []string         `json:"header"`
	Stats   assembler.Stats  `json:"stats"`
	Quality string           `json:"quality,omitempty"`
}

func (c *Controller) statusRoute(w http.ResponseWriter, _ *http.Request) {
	c.mut.Lock()
	st := status{
		App:    common.App,
		Build:  c.buildInfo,
		Uptime: fasttime.UnixTimestamp() - common.Started(),
		Source: c.src.Name(),
		State:  c.asm.State().String(),
		Header: c.asm.Header(),
		Stats:  c.asm.Stats(),
	}
	if err := c.asm.Err(); err != nil {
		st.Quality = err.Error()
	}
	c.mut.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
