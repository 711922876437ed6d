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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/csvd/csvd/common"
)

// 以下变量由构建时 -ldflags 注入
var (
	version   string
	gitHash   string
	buildTime string
)

func buildInfo() common.BuildInfo {
	v := version
	if v == "" {
		v = common.Version
	}
	return common.BuildInfo{
		Version: v,
		GitHash: gitHash,
		Time:    buildTime,
	}
}

var rootCmd = &cobra.Command{
	Use:   "csvd",
	Short: "Streaming CSV parsing and enrichment agent",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build version information",
	Run: func(cmd *cobra.Command, args []string) {
		bi := buildInfo()
		fmt.Printf("%s %s (hash=%s, built=%s)\n", common.App, bi.Version, bi.GitHash, bi.Time)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
