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
	"github.com/ligato/cn-infra/logging"

	podmodel "github.com/knetsim/netsim/model/pod"
	policymodel "github.com/knetsim/netsim/model/policy"
	"github.com/knetsim/netsim/plugins/cache"
)

// PolicyEngine implements PolicyEngineAPI on top of the cluster cache.
type PolicyEngine struct {
	Deps
}

// Deps lists dependencies of the policy engine.
type Deps struct {
	Log   logging.Logger
	Cache cache.ClusterCacheAPI
}

// Init is a NOOP - the engine is stateless.
func (pe *PolicyEngine) Init() error {
	return nil
}

// Evaluate decides whether traffic from src to dst on (port, protocol) is
// allowed. Kubernetes isolation semantics: a pod is isolated for a direction
// only when at least one policy with that policy type selects it; an
// isolated pod accepts traffic matched by at least one rule of at least one
// selecting policy. The two directions are independent.
func (pe *PolicyEngine) Evaluate(src, dst Peer, port uint16,
	protocol podmodel.Protocol) *Verdict {

	if protocol == "" {
		protocol = podmodel.TCP
	}
	verdict := &Verdict{IngressAllowed: true, EgressAllowed: true}

	if dst.IsPod() {
		policies := pe.applicablePolicies(dst.Pod, policymodel.PolicyIngress)
		verdict.IngressPolicies = policyIDList(policies)
		if len(policies) > 0 {
			verdict.IngressAllowed = pe.someRuleAllows(policies,
				policymodel.PolicyIngress, src, port, protocol)
		}
	}
	if src.IsPod() {
		policies := pe.applicablePolicies(src.Pod, policymodel.PolicyEgress)
		verdict.EgressPolicies = policyIDList(policies)
		if len(policies) > 0 {
			verdict.EgressAllowed = pe.someRuleAllows(policies,
				policymodel.PolicyEgress, dst, port, protocol)
		}
	}

	verdict.Allowed = verdict.IngressAllowed && verdict.EgressAllowed
	return verdict
}

// applicablePolicies returns the policies selecting the pod for the given
// direction.
func (pe *PolicyEngine) applicablePolicies(pod podmodel.ID,
	direction policymodel.PolicyType) []*policymodel.Policy {

	var applicable []*policymodel.Policy
	for _, policyID := range pe.Cache.LookupPoliciesByPod(pod) {
		found, policyData := pe.Cache.LookupPolicy(policyID)
		if !found {
			continue
		}
		if policyData.HasType(direction) {
			applicable = append(applicable, policyData)
		}
	}
	return applicable
}

// someRuleAllows tells whether at least one rule of at least one policy
// matches the peer on the given port. A policy with the direction in its
// types but no rules for it contributes nothing, i.e. isolates completely.
func (pe *PolicyEngine) someRuleAllows(policies []*policymodel.Policy,
	direction policymodel.PolicyType, peer Peer, port uint16,
	protocol podmodel.Protocol) bool {

	for _, policyData := range policies {
		if direction == policymodel.PolicyIngress {
			for _, rule := range policyData.Ingress {
				if pe.peerMatches(rule.From, policyData.Namespace, peer) &&
					portMatches(rule.Ports, port, protocol) {
					return true
				}
			}
		} else {
			for _, rule := range policyData.Egress {
				if pe.peerMatches(rule.To, policyData.Namespace, peer) &&
					portMatches(rule.Ports, port, protocol) {
					return true
				}
			}
		}
	}
	return false
}

// peerMatches tells whether the rule's peer list matches the given peer.
// An empty list matches anything.
func (pe *PolicyEngine) peerMatches(rulePeers []*policymodel.Peer,
	policyNamespace string, peer Peer) bool {

	if len(rulePeers) == 0 {
		return true
	}
	for _, rulePeer := range rulePeers {
		if rulePeer.IPBlock != nil {
			if ipBlockMatches(rulePeer.IPBlock, pe.peerIP(peer)) {
				return true
			}
			continue
		}
		if pe.selectorsMatch(rulePeer, policyNamespace, peer) {
			return true
		}
	}
	return false
}

// selectorsMatch evaluates the selector pair of a rule peer against a pod
// peer. Without a namespace selector, the pod selector is scoped to the
// policy's own namespace; with one, the pod's namespace labels must match it
// first. External IPs never match selectors.
func (pe *PolicyEngine) selectorsMatch(rulePeer *policymodel.Peer,
	policyNamespace string, peer Peer) bool {

	if !peer.IsPod() {
		return false
	}
	found, podData := pe.Cache.LookupPod(peer.Pod)
	if !found {
		return false
	}

	if rulePeer.Namespaces == nil {
		if podData.Namespace != policyNamespace {
			return false
		}
	} else {
		nsFound, nsData := pe.Cache.LookupNamespace(nsID(podData.Namespace))
		if !nsFound {
			// unlabeled scope degrades to no match, never to a fault
			return false
		}
		if !rulePeer.Namespaces.Matches(nsData.Labels) {
			return false
		}
	}
	return rulePeer.Pods.Matches(podData.Labels)
}

// peerIP returns the IP address of the peer: the external IP as-is, or the
// pod's allocated address.
func (pe *PolicyEngine) peerIP(peer Peer) string {
	if !peer.IsPod() {
		return peer.IP
	}
	found, podData := pe.Cache.LookupPod(peer.Pod)
	if !found {
		return ""
	}
	return podData.IPAddress
}

func policyIDList(policies []*policymodel.Policy) []policymodel.ID {
	var ids []policymodel.ID
	for _, policyData := range policies {
		ids = append(ids, policymodel.GetID(policyData))
	}
	return ids
}
