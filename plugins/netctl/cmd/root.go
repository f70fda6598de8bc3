// Copyright (c) 2019 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
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

	"github.com/knetsim/netsim/plugins/netctl/cmdimpl"
)

var (
	stateFile string
	port      uint16
	protocol  string
	namespace string
)

var cmdCanReach = &cobra.Command{
	Use:   "canreach <namespace/pod> <namespace/service>",
	Short: "Decide whether a pod can reach a service on a port",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdimpl.CanReach(stateFile, args[0], args[1], port, protocol)
	},
}

var cmdMatrix = &cobra.Command{
	Use:   "matrix",
	Short: "Print the pod-to-pod reachability table",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdimpl.Matrix(stateFile, namespace, port, protocol)
	},
}

var cmdEndpoints = &cobra.Command{
	Use:   "endpoints <namespace/service>",
	Short: "Print the current endpoints of a service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdimpl.Endpoints(stateFile, args[0])
	},
}

var cmdState = &cobra.Command{
	Use:   "state",
	Short: "Cluster state file operations",
}

var cmdStateValidate = &cobra.Command{
	Use:   "validate",
	Short: "Check that the state file passes admission",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdimpl.Validate(stateFile)
	},
}

// Execute runs the netsimctl command tree.
func Execute() {
	var rootCmd = &cobra.Command{Use: "netsimctl"}
	rootCmd.PersistentFlags().StringVarP(&stateFile, "state", "s",
		"cluster.yaml", "cluster state YAML file")
	rootCmd.PersistentFlags().Uint16VarP(&port, "port", "p", 80,
		"destination port")
	rootCmd.PersistentFlags().StringVar(&protocol, "protocol", "TCP",
		"protocol (TCP or UDP)")
	cmdMatrix.Flags().StringVarP(&namespace, "namespace", "n", "",
		"restrict the matrix to one namespace")
	cmdState.AddCommand(cmdStateValidate)
	rootCmd.AddCommand(cmdCanReach)
	rootCmd.AddCommand(cmdMatrix)
	rootCmd.AddCommand(cmdEndpoints)
	rootCmd.AddCommand(cmdState)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
