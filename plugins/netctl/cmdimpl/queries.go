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

package cmdimpl

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	epmodel "github.com/knetsim/netsim/model/endpoints"
	podmodel "github.com/knetsim/netsim/model/pod"
	svcmodel "github.com/knetsim/netsim/model/service"
)

// CanReach loads the state file and answers one CanReach query.
func CanReach(statePath, src, service string, port uint16, protocol string) error {
	srcID, err := parsePodRef(src)
	if err != nil {
		return err
	}
	svcNs, svcName, err := splitRef(service)
	if err != nil {
		return err
	}
	state, err := LoadState(statePath)
	if err != nil {
		return err
	}
	_, query, err := BuildStack(state)
	if err != nil {
		return err
	}

	result, err := query.CanReach(srcID,
		svcmodel.ID{Namespace: svcNs, Name: svcName},
		port, podmodel.Protocol(protocol))
	if err != nil {
		return err
	}

	if result.Allowed {
		fmt.Printf("ALLOW  %s -> %s :%d/%s\n",
			result.Source, result.Service, result.Port, result.Protocol)
	} else {
		fmt.Printf("DENY   %s -> %s :%d/%s (%s)\n",
			result.Source, result.Service, result.Port, result.Protocol,
			result.Reason)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	for _, bv := range result.Backends {
		verdict := "DENY"
		if bv.Verdict.Allowed {
			verdict = "ALLOW"
		}
		fmt.Fprintf(w, "  %s\t%s:%d/%s\t%s\n", verdict,
			bv.Backend.IP, bv.Backend.Port, bv.Backend.Protocol,
			bv.Backend.TargetPod.String())
	}
	return w.Flush()
}

// Matrix loads the state file and prints the pod-to-pod reachability table.
func Matrix(statePath, namespace string, port uint16, protocol string) error {
	state, err := LoadState(statePath)
	if err != nil {
		return err
	}
	_, query, err := BuildStack(state)
	if err != nil {
		return err
	}

	matrix, err := query.Matrix(context.Background(), namespace, port,
		podmodel.Protocol(protocol))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "SOURCE\tDESTINATION\tVERDICT\n")
	for _, pair := range matrix.Pairs {
		verdict := "DENY"
		if pair.Allowed {
			verdict = "ALLOW"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", pair.Source, pair.Destination, verdict)
	}
	return w.Flush()
}

// Endpoints loads the state file and prints the endpoints of one service.
func Endpoints(statePath, service string) error {
	svcNs, svcName, err := splitRef(service)
	if err != nil {
		return err
	}
	state, err := LoadState(statePath)
	if err != nil {
		return err
	}
	clusterCache, _, err := BuildStack(state)
	if err != nil {
		return err
	}

	found, eps := clusterCache.LookupEndpoints(
		epmodel.ID{Namespace: svcNs, Name: svcName})
	if !found {
		fmt.Printf("no endpoints for %s\n", service)
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "IP\tPORT\tPROTOCOL\tPORT NAME\tTARGET POD\n")
	for _, b := range eps.Backends {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			b.IP, b.Port, b.Protocol, b.PortName, b.TargetPod.String())
	}
	return w.Flush()
}

// Validate loads the state file into a fresh stack, reporting the first
// admission error, if any.
func Validate(statePath string) error {
	state, err := LoadState(statePath)
	if err != nil {
		return err
	}
	if _, _, err := BuildStack(state); err != nil {
		return err
	}
	fmt.Printf("%s: %d namespaces, %d pods, %d services, %d policies - OK\n",
		statePath, len(state.Namespaces), len(state.Pods), len(state.Services),
		len(state.Policies))
	return nil
}

func parsePodRef(ref string) (podmodel.ID, error) {
	ns, name, err := splitRef(ref)
	if err != nil {
		return podmodel.ID{}, err
	}
	return podmodel.ID{Namespace: ns, Name: name}, nil
}

func splitRef(ref string) (namespace, name string, err error) {
	parts := strings.SplitN(ref, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("expected <namespace>/<name>, got %q", ref)
	}
	return parts[0], parts[1], nil
}
