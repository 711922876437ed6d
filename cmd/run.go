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

	"github.com/csvd/csvd/confengine"
	"github.com/csvd/csvd/controller"
	"github.com/csvd/csvd/internal/sigs"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run csvd with a configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := confengine.LoadConfigPath(configPath)
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
			fmt.Fprintf(os.Stderr, "parse failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var configPath string

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "csvd.yaml", "Configuration file path")
	rootCmd.AddCommand(runCmd)
}
