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

package policy

import (
	"github.com/knetsim/netsim/model/pod"
	"github.com/knetsim/netsim/model/selector"
)

// PolicyKeyword identifies network policy data in watcher notifications,
// stats and state dumps.
const PolicyKeyword = "policy"

// PolicyType is one traffic direction a policy isolates the selected pods
// for.
type PolicyType string

const (
	// PolicyIngress isolates the selected pods for incoming traffic.
	PolicyIngress PolicyType = "Ingress"
	// PolicyEgress isolates the selected pods for outgoing traffic.
	PolicyEgress PolicyType = "Egress"
)

// Policy represents a single K8s NetworkPolicy. The pod selector is always
// evaluated within the policy's own namespace; an empty pod selector applies
// the policy to every pod in the namespace. A policy with a PolicyType but
// no rules for it isolates the selected pods completely for that direction.
type Policy struct {
	Name        string                  `json:"name"`
	Namespace   string                  `json:"namespace"`
	PodSelector *selector.LabelSelector `json:"podSelector,omitempty"`
	PolicyTypes []PolicyType            `json:"policyTypes"`
	Ingress     []*IngressRule          `json:"ingress,omitempty"`
	Egress      []*EgressRule           `json:"egress,omitempty"`
}

// IngressRule allows traffic from the listed peers on the listed ports.
// An empty From list allows traffic from anything; an empty Ports list
// allows traffic on all ports.
type IngressRule struct {
	From  []*Peer `json:"from,omitempty"`
	Ports []*Port `json:"ports,omitempty"`
}

// EgressRule allows traffic to the listed peers on the listed ports.
// An empty To list allows traffic to anything; an empty Ports list allows
// traffic on all ports.
type EgressRule struct {
	To    []*Peer `json:"to,omitempty"`
	Ports []*Port `json:"ports,omitempty"`
}

// Peer selects the traffic counterparts of a rule. At most one of IPBlock
// or the selector pair may be set. With only Pods set, pods are matched in
// the policy's own namespace; with Namespaces set, pods of all matching
// namespaces are considered; with both set the pod must satisfy the two
// selectors at once.
type Peer struct {
	Pods       *selector.LabelSelector `json:"pods,omitempty"`
	Namespaces *selector.LabelSelector `json:"namespaces,omitempty"`
	IPBlock    *IPBlock                `json:"ipBlock,omitempty"`
}

// IPBlock matches peers by IP address: anything inside CIDR except the
// addresses covered by the Except CIDRs.
type IPBlock struct {
	CIDR   string   `json:"cidr"`
	Except []string `json:"except,omitempty"`
}

// Port is one allowed (port, protocol) pair of a rule. A zero protocol
// defaults to TCP, mirroring the K8s API.
type Port struct {
	Protocol pod.Protocol `json:"protocol,omitempty"`
	Port     uint16       `json:"port"`
}

// Copy returns a deep copy of the policy.
func (p *Policy) Copy() *Policy {
	if p == nil {
		return nil
	}
	c := &Policy{
		Name:        p.Name,
		Namespace:   p.Namespace,
		PodSelector: p.PodSelector.Copy(),
	}
	c.PolicyTypes = append(c.PolicyTypes, p.PolicyTypes...)
	for _, rule := range p.Ingress {
		ruleCopy := &IngressRule{}
		for _, peer := range rule.From {
			ruleCopy.From = append(ruleCopy.From, peer.Copy())
		}
		for _, port := range rule.Ports {
			portCopy := *port
			ruleCopy.Ports = append(ruleCopy.Ports, &portCopy)
		}
		c.Ingress = append(c.Ingress, ruleCopy)
	}
	for _, rule := range p.Egress {
		ruleCopy := &EgressRule{}
		for _, peer := range rule.To {
			ruleCopy.To = append(ruleCopy.To, peer.Copy())
		}
		for _, port := range rule.Ports {
			portCopy := *port
			ruleCopy.Ports = append(ruleCopy.Ports, &portCopy)
		}
		c.Egress = append(c.Egress, ruleCopy)
	}
	return c
}

// Copy returns a deep copy of the peer.
func (p *Peer) Copy() *Peer {
	if p == nil {
		return nil
	}
	c := &Peer{
		Pods:       p.Pods.Copy(),
		Namespaces: p.Namespaces.Copy(),
	}
	if p.IPBlock != nil {
		ipb := &IPBlock{CIDR: p.IPBlock.CIDR}
		ipb.Except = append(ipb.Except, p.IPBlock.Except...)
		c.IPBlock = ipb
	}
	return c
}

// HasType returns true if the policy isolates the selected pods for the
// given direction.
func (p *Policy) HasType(t PolicyType) bool {
	for _, pt := range p.PolicyTypes {
		if pt == t {
			return true
		}
	}
	return false
}
