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

package cmd

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/spf13/cobra"

	"github.com/csvd/csvd/confengine"
	"github.com/csvd/csvd/controller"
	"github.com/csvd/csvd/internal/sigs"
)

type convertCmdConfig struct {
	Source         string
	ChunkSize      int
	Console        bool
	Format         string
	Dest           string
	Snappy         bool
	Timestamp      bool
	CRLF           bool
	Trim           bool
	Dedupe         bool
	EnrichEndpoint string
	EnrichBatch    int
}

func (c *convertCmdConfig) processors() []string {
	var names []string
	if c.Trim {
		names = append(names, "trimspace")
	}
	if c.Dedupe {
		names = append(names, "dedupe")
	}
	return names
}

func (c *convertCmdConfig) Yaml() []byte {
	text := `
controller:
server:
logger:
  stdout: true

source:
  path: {{ .Source }}
  chunkSize: {{ .ChunkSize }}

processor:
{{ range .Processors }}
- name: {{ . }}
{{ end }}

pipeline:
- name: convert
  processors:
{{ range .Processors }}
  - {{ . }}
{{ end }}

enricher:
  enabled: {{ .EnrichEnabled }}
  endpoint: {{ .EnrichEndpoint }}
  batch: {{ .EnrichBatch }}

exporter:
  jsonl:
    enabled: {{ .JSONL }}
    console: {{ .Console }}
    filename: {{ .Dest }}
    snappy: {{ .Snappy }}
    timestamp: {{ .Timestamp }}
  csvfile:
    enabled: {{ .CSVFile }}
    console: {{ .Console }}
    filename: {{ .Dest }}
    crlf: {{ .CRLF }}
`
	tpl, err := template.New("Config").Parse(text)
	if err != nil {
		return nil
	}

	var buf bytes.Buffer
	err = tpl.Execute(&buf, map[string]interface{}{
		"Source":         c.Source,
		"ChunkSize":      c.ChunkSize,
		"Processors":     c.processors(),
		"EnrichEnabled":  c.EnrichEndpoint != "",
		"EnrichEndpoint": c.EnrichEndpoint,
		"EnrichBatch":    c.EnrichBatch,
		"JSONL":          c.Format == "jsonl",
		"CSVFile":        c.Format == "csv",
		"Console":        c.Console,
		"Dest":           c.Dest,
		"Snappy":         c.Snappy,
		"Timestamp":      c.Timestamp,
		"CRLF":           c.CRLF,
	})
	if err != nil {
		return nil
	}
	return buf.Bytes()
}

var convertConfig convertCmdConfig

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Parse a CSV source and convert records in one shot",
	Run: func(cmd *cobra.Command, args []string) {
		if convertConfig.Format != "jsonl" && convertConfig.Format != "csv" {
			fmt.Fprintf(os.Stderr, "unknown format %q, expected 'jsonl' or 'csv'\n", convertConfig.Format)
			os.Exit(1)
		}

		cfg, err := confengine.LoadContent(convertConfig.Yaml())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}

		ctr, err := controller.New(cfg, buildInfo())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create controller: %v\n", err)
			os.Exit(1)
		}
		if err := ctr.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to start controller: %v\n", err)
			os.Exit(1)
		}

		select {
		case <-sigs.Terminate():
		case <-ctr.Done():
		}
		ctr.Stop()

		if err := ctr.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "convert failed: %v\n", err)
			os.Exit(1)
		}
	},
	Example: "# csvd convert --source data.csv --format jsonl --console --trim",
}

func init() {
	convertCmd.Flags().StringVar(&convertConfig.Source, "source", "-", "CSV source path, '-' reads from stdin")
	convertCmd.Flags().IntVar(&convertConfig.ChunkSize, "chunk-size", 0, "Read chunk size in bytes, 0 uses the default")
	convertCmd.Flags().BoolVar(&convertConfig.Console, "console", false, "Write converted records to stdout")
	convertCmd.Flags().StringVar(&convertConfig.Format, "format", "jsonl", "Output format, 'jsonl' or 'csv'")
	convertCmd.Flags().StringVar(&convertConfig.Dest, "dest", "csvd.records", "Path to output file")
	convertCmd.Flags().BoolVar(&convertConfig.Snappy, "snappy", false, "Compress jsonl output with snappy frame format")
	convertCmd.Flags().BoolVar(&convertConfig.Timestamp, "timestamp", false, "Attach ingestedAt timestamp to each jsonl record")
	convertCmd.Flags().BoolVar(&convertConfig.CRLF, "crlf", false, "Terminate csv output lines with CRLF")
	convertCmd.Flags().BoolVar(&convertConfig.Trim, "trim", false, "Trim whitespace around every field value")
	convertCmd.Flags().BoolVar(&convertConfig.Dedupe, "dedupe", false, "Drop consecutive duplicated records")
	convertCmd.Flags().StringVar(&convertConfig.EnrichEndpoint, "enrich.endpoint", "", "Enrichment service endpoint, empty disables enrichment")
	convertCmd.Flags().IntVar(&convertConfig.EnrichBatch, "enrich.batch", 0, "Enrichment batch size, 0 uses the default")
	rootCmd.AddCommand(convertCmd)
}
