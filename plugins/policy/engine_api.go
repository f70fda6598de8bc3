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

// Package policy implements the network policy engine: the pure decision
// function telling whether traffic between two peers on a given port and
// protocol is allowed by the configured network policies.
package policy

import (
	podmodel "github.com/knetsim/netsim/model/pod"
	policymodel "github.com/knetsim/netsim/model/policy"
)

// PolicyEngineAPI evaluates network policies over the cluster cache content.
// The engine is total: admitted input never produces an error, only a
// verdict.
type PolicyEngineAPI interface {
	// Evaluate decides whether traffic from src to dst on (port, protocol)
	// is allowed. The final verdict is the conjunction of the egress rules
	// applicable at the source and the ingress rules applicable at the
	// destination; a side with no policy selecting it is open by default.
	Evaluate(src, dst Peer, port uint16, protocol podmodel.Protocol) *Verdict
}

// Peer is one side of an evaluated connection: a pod of the cluster or an
// external IP address.
type Peer struct {
	Pod podmodel.ID `json:"pod,omitempty"`
	IP  string      `json:"ip,omitempty"`
}

// PodPeer wraps a pod ID as a connection peer.
func PodPeer(pod podmodel.ID) Peer {
	return Peer{Pod: pod}
}

// IPPeer wraps an external IP address as a connection peer.
func IPPeer(ip string) Peer {
	return Peer{IP: ip}
}

// IsPod tells whether the peer is a pod of the cluster.
func (p Peer) IsPod() bool {
	return p.Pod.Name != ""
}

// String returns the pod ID or the external IP, whichever the peer carries.
func (p Peer) String() string {
	if p.IsPod() {
		return p.Pod.String()
	}
	return p.IP
}

// Verdict is the outcome of one policy evaluation, with per-direction
// results and the policies that isolated each side, for diagnostics.
type Verdict struct {
	Allowed        bool `json:"allowed"`
	IngressAllowed bool `json:"ingressAllowed"`
	EgressAllowed  bool `json:"egressAllowed"`

	// policies isolating the destination for Ingress / the source for Egress
	IngressPolicies []policymodel.ID `json:"ingressPolicies,omitempty"`
	EgressPolicies  []policymodel.ID `json:"egressPolicies,omitempty"`
}
