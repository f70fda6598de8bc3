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
	"sort"

	epmodel "github.com/knetsim/netsim/model/endpoints"
	nsmodel "github.com/knetsim/netsim/model/namespace"
	podmodel "github.com/knetsim/netsim/model/pod"
	policymodel "github.com/knetsim/netsim/model/policy"
	svcmodel "github.com/knetsim/netsim/model/service"
)

// Export dumps the full declared cluster state in a deterministic order.
// Loading the dump into a fresh instance via Resync reproduces the same
// endpoints and the same reachability results.
func (cc *ClusterCache) Export() *ClusterState {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.exportLocked()
}

func (cc *ClusterCache) exportLocked() *ClusterState {
	state := &ClusterState{}

	nsIDs := cc.configuredNamespaces.ListAll()
	sort.Strings(nsIDs)
	for _, id := range nsIDs {
		if found, ns := cc.configuredNamespaces.LookupNamespace(id); found {
			state.Namespaces = append(state.Namespaces, ns.Copy())
		}
	}

	podIDs := cc.configuredPods.ListAll()
	sort.Strings(podIDs)
	for _, id := range podIDs {
		if found, pod := cc.configuredPods.LookupPod(id); found {
			state.Pods = append(state.Pods, pod.Copy())
		}
	}

	svcIDs := cc.configuredServices.ListAll()
	sort.Strings(svcIDs)
	for _, id := range svcIDs {
		if found, svc := cc.configuredServices.LookupService(id); found {
			state.Services = append(state.Services, svc.Copy())
		}
	}

	epsIDs := make([]string, 0, len(cc.endpoints))
	for id := range cc.endpoints {
		epsIDs = append(epsIDs, id)
	}
	sort.Strings(epsIDs)
	for _, id := range epsIDs {
		state.Endpoints = append(state.Endpoints, cc.endpoints[id].Copy())
	}

	policyIDs := cc.configuredPolicies.ListAll()
	sort.Strings(policyIDs)
	for _, id := range policyIDs {
		if found, policy := cc.configuredPolicies.LookupPolicy(id); found {
			state.Policies = append(state.Policies, policy.Copy())
		}
	}
	return state
}

// Resync replaces the whole cache content with the given state. The state is
// validated up-front; on any validation error the cache stays untouched.
// Endpoints of selector-based services are re-derived rather than loaded,
// so a stale dump cannot smuggle in outdated backends.
func (cc *ClusterCache) Resync(state *ClusterState) error {
	selectorServices := map[string]bool{}
	for _, svc := range state.Services {
		if err := validateService(svc); err != nil {
			return err
		}
		if svc.HasSelector() {
			selectorServices[svcmodel.GetID(svc).String()] = true
		}
	}
	for _, ns := range state.Namespaces {
		if err := validateNamespace(ns); err != nil {
			return err
		}
	}
	for _, pod := range state.Pods {
		if err := validatePod(pod); err != nil {
			return err
		}
	}
	for _, eps := range state.Endpoints {
		if err := validateEndpoints(eps); err != nil {
			return err
		}
	}
	for _, policy := range state.Policies {
		if err := validatePolicy(policy); err != nil {
			return err
		}
	}

	cc.mu.Lock()
	cc.configuredNamespaces = nil
	if err := cc.Init(); err != nil {
		cc.mu.Unlock()
		return err
	}

	for _, ns := range state.Namespaces {
		cc.configuredNamespaces.RegisterNamespace(nsmodel.GetID(ns).String(), ns.Copy())
	}
	for _, pod := range state.Pods {
		data := pod.Copy()
		if data.Phase == "" {
			data.Phase = podmodel.Pending
		}
		if data.Phase == podmodel.Running && data.IPAddress == "" && cc.IPAM != nil {
			ip, err := cc.IPAM.AllocatePodIP(podmodel.GetID(pod))
			if err != nil {
				cc.mu.Unlock()
				return err
			}
			data.IPAddress = ip.String()
		}
		cc.configuredPods.RegisterPod(podmodel.GetID(pod).String(), data)
	}
	for _, svc := range state.Services {
		data := svc.Copy()
		if data.Type == "" {
			data.Type = svcmodel.ClusterIP
		}
		if data.HasClusterIP() && data.ClusterIP == "" && cc.IPAM != nil {
			ip, err := cc.IPAM.AllocateClusterIP(svcmodel.GetID(svc))
			if err != nil {
				cc.mu.Unlock()
				return err
			}
			data.ClusterIP = ip.String()
		}
		cc.configuredServices.RegisterService(svcmodel.GetID(svc).String(), data)
	}
	for _, policy := range state.Policies {
		cc.configuredPolicies.RegisterPolicy(policymodel.GetID(policy).String(),
			policy.Copy())
	}

	// manually authored endpoints are loaded; derived ones are recomputed
	for _, eps := range state.Endpoints {
		epsID := epmodel.GetID(eps).String()
		if selectorServices[epsID] {
			continue
		}
		cc.endpoints[epsID] = eps.Copy()
		cc.manualEndpoints[epsID] = true
	}
	for _, svcID := range cc.configuredServices.ListAll() {
		if found, svc := cc.configuredServices.LookupService(svcID); found {
			cc.reconcileServiceLocked(svc)
		}
	}

	snapshot := cc.exportLocked()
	cc.commit([]watchEvent{func(w ClusterCacheWatcher) error {
		return w.Resync(snapshot)
	}})
	return nil
}
