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

package cache

import (
	"fmt"
	"net"

	epmodel "github.com/knetsim/netsim/model/endpoints"
	nsmodel "github.com/knetsim/netsim/model/namespace"
	podmodel "github.com/knetsim/netsim/model/pod"
	policymodel "github.com/knetsim/netsim/model/policy"
	svcmodel "github.com/knetsim/netsim/model/service"
)

// Admission rules. Every Put* validates its object completely before taking
// the write lock; a rejected object leaves the cache untouched.

func validateNamespace(ns *nsmodel.Namespace) error {
	if ns == nil || ns.Name == "" {
		return NewInvalidObject(nsmodel.NamespaceKeyword, "", "", "empty name")
	}
	return nil
}

func validatePod(pod *podmodel.Pod) error {
	if pod == nil || pod.Name == "" || pod.Namespace == "" {
		return NewInvalidObject(podmodel.PodKeyword,
			getNamespace(pod), getName(pod), "empty name or namespace")
	}
	reject := func(reason string) error {
		return NewInvalidObject(podmodel.PodKeyword, pod.Namespace, pod.Name, reason)
	}
	switch pod.Phase {
	case "", podmodel.Pending, podmodel.Running, podmodel.Succeeded,
		podmodel.Failed, podmodel.Unknown:
	default:
		return reject(fmt.Sprintf("unknown phase %q", pod.Phase))
	}
	if pod.IPAddress != "" && net.ParseIP(pod.IPAddress) == nil {
		return reject(fmt.Sprintf("unparsable IP address %q", pod.IPAddress))
	}
	names := map[string]bool{}
	for _, port := range pod.Ports {
		if port.Port == 0 {
			return reject("container port 0")
		}
		if !validProtocol(port.Protocol) {
			return reject(fmt.Sprintf("unknown protocol %q", port.Protocol))
		}
		if port.Name != "" {
			if names[port.Name] {
				return reject(fmt.Sprintf("duplicate container port name %q", port.Name))
			}
			names[port.Name] = true
		}
	}
	return nil
}

func validateService(service *svcmodel.Service) error {
	if service == nil || service.Name == "" || service.Namespace == "" {
		return NewInvalidObject(svcmodel.ServiceKeyword,
			getNamespace(service), getName(service), "empty name or namespace")
	}
	reject := func(reason string) error {
		return NewInvalidObject(svcmodel.ServiceKeyword, service.Namespace,
			service.Name, reason)
	}
	switch service.Type {
	case "", svcmodel.ClusterIP, svcmodel.NodePort, svcmodel.LoadBalancer,
		svcmodel.Headless:
	case svcmodel.ExternalName:
		if service.ExternalName == "" {
			return reject("ExternalName service without an external name")
		}
		if service.HasSelector() {
			return reject("ExternalName service with a selector")
		}
	default:
		return reject(fmt.Sprintf("unknown service type %q", service.Type))
	}
	if err := service.Selector.Validate(); err != nil {
		return reject(err.Error())
	}
	if service.ClusterIP != "" && net.ParseIP(service.ClusterIP) == nil {
		return reject(fmt.Sprintf("unparsable cluster IP %q", service.ClusterIP))
	}
	names := map[string]bool{}
	for _, sp := range service.Ports {
		if sp.Port == 0 {
			return reject("service port 0")
		}
		if !validProtocol(sp.Protocol) {
			return reject(fmt.Sprintf("unknown protocol %q", sp.Protocol))
		}
		if sp.Name != "" {
			if names[sp.Name] {
				return reject(fmt.Sprintf("duplicate service port name %q", sp.Name))
			}
			names[sp.Name] = true
		}
	}
	if len(service.Ports) > 1 {
		for _, sp := range service.Ports {
			if sp.Name == "" {
				return reject("multiple service ports require names")
			}
		}
	}
	return nil
}

func validateEndpoints(eps *epmodel.Endpoints) error {
	if eps == nil || eps.Name == "" || eps.Namespace == "" {
		return NewInvalidObject(epmodel.EndpointsKeyword,
			getNamespace(eps), getName(eps), "empty name or namespace")
	}
	reject := func(reason string) error {
		return NewInvalidObject(epmodel.EndpointsKeyword, eps.Namespace, eps.Name,
			reason)
	}
	for _, b := range eps.Backends {
		if net.ParseIP(b.IP) == nil {
			return reject(fmt.Sprintf("unparsable backend IP %q", b.IP))
		}
		if b.Port == 0 {
			return reject("backend port 0")
		}
		if !validProtocol(b.Protocol) {
			return reject(fmt.Sprintf("unknown protocol %q", b.Protocol))
		}
	}
	return nil
}

func validatePolicy(policy *policymodel.Policy) error {
	if policy == nil || policy.Name == "" || policy.Namespace == "" {
		return NewInvalidObject(policymodel.PolicyKeyword,
			getNamespace(policy), getName(policy), "empty name or namespace")
	}
	reject := func(reason string) error {
		return NewInvalidObject(policymodel.PolicyKeyword, policy.Namespace,
			policy.Name, reason)
	}
	if len(policy.PolicyTypes) == 0 {
		return reject("empty policy types")
	}
	for _, pt := range policy.PolicyTypes {
		if pt != policymodel.PolicyIngress && pt != policymodel.PolicyEgress {
			return reject(fmt.Sprintf("unknown policy type %q", pt))
		}
	}
	if err := policy.PodSelector.Validate(); err != nil {
		return reject(err.Error())
	}
	for _, rule := range policy.Ingress {
		if err := validatePeers(rule.From); err != nil {
			return reject(err.Error())
		}
		if err := validateRulePorts(rule.Ports); err != nil {
			return reject(err.Error())
		}
	}
	for _, rule := range policy.Egress {
		if err := validatePeers(rule.To); err != nil {
			return reject(err.Error())
		}
		if err := validateRulePorts(rule.Ports); err != nil {
			return reject(err.Error())
		}
	}
	return nil
}

func validatePeers(peers []*policymodel.Peer) error {
	for _, peer := range peers {
		hasSelectors := !peer.Pods.IsEmpty() || !peer.Namespaces.IsEmpty()
		if peer.IPBlock != nil && hasSelectors {
			return fmt.Errorf("peer combines an IP block with selectors")
		}
		if peer.IPBlock == nil && peer.Pods == nil && peer.Namespaces == nil {
			return fmt.Errorf("empty peer")
		}
		if err := peer.Pods.Validate(); err != nil {
			return err
		}
		if err := peer.Namespaces.Validate(); err != nil {
			return err
		}
		if peer.IPBlock != nil {
			if _, _, err := net.ParseCIDR(peer.IPBlock.CIDR); err != nil {
				return fmt.Errorf("unparsable IP block CIDR %q", peer.IPBlock.CIDR)
			}
			for _, except := range peer.IPBlock.Except {
				if _, _, err := net.ParseCIDR(except); err != nil {
					return fmt.Errorf("unparsable IP block exception %q", except)
				}
			}
		}
	}
	return nil
}

// validateRulePorts checks the allowed ports of a rule. Port 0 stands for
// "any port of the protocol" and is permitted.
func validateRulePorts(ports []*policymodel.Port) error {
	for _, port := range ports {
		if !validProtocol(port.Protocol) {
			return fmt.Errorf("unknown protocol %q", port.Protocol)
		}
	}
	return nil
}

func validProtocol(protocol podmodel.Protocol) bool {
	return protocol == "" || protocol == podmodel.TCP || protocol == podmodel.UDP
}

func getNamespace(obj interface{}) string {
	switch o := obj.(type) {
	case *podmodel.Pod:
		if o != nil {
			return o.Namespace
		}
	case *svcmodel.Service:
		if o != nil {
			return o.Namespace
		}
	case *epmodel.Endpoints:
		if o != nil {
			return o.Namespace
		}
	case *policymodel.Policy:
		if o != nil {
			return o.Namespace
		}
	}
	return ""
}

func getName(obj interface{}) string {
	switch o := obj.(type) {
	case *podmodel.Pod:
		if o != nil {
			return o.Name
		}
	case *svcmodel.Service:
		if o != nil {
			return o.Name
		}
	case *epmodel.Endpoints:
		if o != nil {
			return o.Name
		}
	case *policymodel.Policy:
		if o != nil {
			return o.Name
		}
	}
	return ""
}
