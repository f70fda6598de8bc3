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

// Package reachability answers reachability queries over the simulated
// cluster: can a pod reach a service, and which pod-to-pod paths does the
// policy set leave open. Queries are pure reads; they never mutate the
// cluster cache.
package reachability

import (
	"context"

	epmodel "github.com/knetsim/netsim/model/endpoints"
	podmodel "github.com/knetsim/netsim/model/pod"
	svcmodel "github.com/knetsim/netsim/model/service"
	"github.com/knetsim/netsim/plugins/policy"
)

// Reasons of a negative CanReach result.
const (
	// ReasonNoEndpoints - the service has no backends at all.
	ReasonNoEndpoints = "no endpoints"
	// ReasonNoServicePort - the service does not expose the queried port.
	ReasonNoServicePort = "no matching service port"
	// ReasonDenied - backends exist but policies deny every one of them.
	ReasonDenied = "all endpoints denied by policy"
)

// ReachabilityQueryAPI answers reachability queries.
type ReachabilityQueryAPI interface {
	// CanReach resolves the service to its current endpoints and evaluates
	// the policy engine per backend. The result is allowed iff at least one
	// backend is reachable - traffic to a service succeeds as long as any
	// backing pod accepts it. Returns NotFound for a missing source pod or
	// service.
	CanReach(src podmodel.ID, service svcmodel.ID, port uint16,
		protocol podmodel.Protocol) (*Result, error)

	// Matrix computes direct pod-to-pod verdicts for every ordered pair of
	// running and ready pods of the namespace (of the whole cluster when the
	// namespace is empty), ignoring services. Honors ctx cancellation.
	Matrix(ctx context.Context, namespace string, port uint16,
		protocol podmodel.Protocol) (*Matrix, error)
}

// Result of one CanReach query.
type Result struct {
	Source   podmodel.ID       `json:"source"`
	Service  svcmodel.ID       `json:"service"`
	Port     uint16            `json:"port"`
	Protocol podmodel.Protocol `json:"protocol"`
	Allowed  bool              `json:"allowed"`
	Reason   string            `json:"reason,omitempty"`
	Backends []*BackendVerdict `json:"backends,omitempty"`
}

// BackendVerdict is the per-endpoint detail of a CanReach result.
type BackendVerdict struct {
	Backend *epmodel.Backend `json:"backend"`
	Verdict *policy.Verdict  `json:"verdict"`
}

// Matrix is the full pod-to-pod reachability table for one (port, protocol).
type Matrix struct {
	Namespace string            `json:"namespace,omitempty"`
	Port      uint16            `json:"port"`
	Protocol  podmodel.Protocol `json:"protocol"`
	Pods      []podmodel.ID     `json:"pods"`
	Pairs     []*MatrixEntry    `json:"pairs,omitempty"`
}

// MatrixEntry is one ordered pod pair of the matrix.
type MatrixEntry struct {
	Source      podmodel.ID `json:"source"`
	Destination podmodel.ID `json:"destination"`
	Allowed     bool        `json:"allowed"`
}
