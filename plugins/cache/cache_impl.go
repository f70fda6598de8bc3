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

// Package cache implements the cluster cache - the single authoritative,
// serialized store of namespaces, pods, services, endpoints and network
// policies. Every mutation is admission-validated, diffed against the stored
// object, and cascaded into endpoint reconciliation before it commits, so a
// reader never observes a service whose endpoints are stale.
package cache

import (
	"sort"
	"sync"

	"github.com/ligato/cn-infra/infra"
	"github.com/ligato/cn-infra/logging"

	epmodel "github.com/knetsim/netsim/model/endpoints"
	nsmodel "github.com/knetsim/netsim/model/namespace"
	podmodel "github.com/knetsim/netsim/model/pod"
	policymodel "github.com/knetsim/netsim/model/policy"
	"github.com/knetsim/netsim/model/selector"
	svcmodel "github.com/knetsim/netsim/model/service"
	"github.com/knetsim/netsim/plugins/cache/namespaceidx"
	"github.com/knetsim/netsim/plugins/cache/podidx"
	"github.com/knetsim/netsim/plugins/cache/policyidx"
	"github.com/knetsim/netsim/plugins/cache/svcidx"
	"github.com/knetsim/netsim/plugins/cache/utils"
	"github.com/knetsim/netsim/plugins/endpoints"
	"github.com/knetsim/netsim/plugins/ipam"
)

// ClusterCache implements ClusterCacheAPI. A single RWMutex serializes all
// mutations; lookups run concurrently under the read lock.
type ClusterCache struct {
	Deps

	mu sync.RWMutex

	configuredNamespaces *namespaceidx.ConfigIndex
	configuredPods       *podidx.ConfigIndex
	configuredServices   *svcidx.ConfigIndex
	configuredPolicies   *policyidx.ConfigIndex

	// endpoints by "namespace/name"; manualEndpoints marks the hand-authored
	// subset (the rest is owned by the reconciler)
	endpoints       map[string]*epmodel.Endpoints
	manualEndpoints map[string]bool

	watchers []ClusterCacheWatcher
}

// Deps lists dependencies of the cluster cache.
type Deps struct {
	Log        logging.Logger
	PluginName infra.PluginName
	IPAM       ipam.API
	Reconciler *endpoints.Reconciler
}

// watchEvent is one committed change, replayed to every watcher after the
// mutation's critical section ends.
type watchEvent func(w ClusterCacheWatcher) error

// Init initializes the cluster cache indexes.
func (cc *ClusterCache) Init() error {
	owner := string(cc.PluginName)
	cc.configuredNamespaces = namespaceidx.NewConfigIndex(cc.Log, owner+"-namespaces")
	cc.configuredPods = podidx.NewConfigIndex(cc.Log, owner+"-pods")
	cc.configuredServices = svcidx.NewConfigIndex(cc.Log, owner+"-services")
	cc.configuredPolicies = policyidx.NewConfigIndex(cc.Log, owner+"-policies")
	cc.endpoints = make(map[string]*epmodel.Endpoints)
	cc.manualEndpoints = make(map[string]bool)
	return nil
}

// Close is a NOOP.
func (cc *ClusterCache) Close() error {
	return nil
}

// Watch subscribes a watcher for change notifications.
func (cc *ClusterCache) Watch(watcher ClusterCacheWatcher) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.watchers = append(cc.watchers, watcher)
}

// PutNamespace idempotently creates or updates a namespace.
func (cc *ClusterCache) PutNamespace(ns *nsmodel.Namespace) error {
	if err := validateNamespace(ns); err != nil {
		return err
	}

	cc.mu.Lock()
	nsID := nsmodel.GetID(ns).String()
	found, old := cc.configuredNamespaces.LookupNamespace(nsID)
	data := ns.Copy()
	if found && namespaceEqual(old, data) {
		cc.mu.Unlock()
		return nil
	}
	cc.configuredNamespaces.RegisterNamespace(nsID, data)
	var events []watchEvent
	if found {
		events = append(events, func(w ClusterCacheWatcher) error {
			return w.UpdateNamespace(old, data)
		})
	} else {
		events = append(events, func(w ClusterCacheWatcher) error {
			return w.AddNamespace(data)
		})
	}
	cc.commit(events)
	return nil
}

// PutPod idempotently creates or updates a pod. An IP address is assigned on
// the transition into the Running phase and stays stable until the pod is
// deleted. Services of the pod's namespace are re-reconciled before the
// mutation returns.
func (cc *ClusterCache) PutPod(pod *podmodel.Pod) error {
	if err := validatePod(pod); err != nil {
		return err
	}

	cc.mu.Lock()
	podID := podmodel.GetID(pod)
	found, old := cc.configuredPods.LookupPod(podID.String())
	data := pod.Copy()
	if data.Phase == "" {
		data.Phase = podmodel.Pending
	}
	if found && data.IPAddress == "" {
		data.IPAddress = old.IPAddress
	}
	if found && podEqual(old, data) {
		cc.mu.Unlock()
		return nil
	}
	if data.Phase == podmodel.Running && data.IPAddress == "" && cc.IPAM != nil {
		ip, err := cc.IPAM.AllocatePodIP(podID)
		if err != nil {
			cc.mu.Unlock()
			return err
		}
		data.IPAddress = ip.String()
	}
	cc.configuredPods.RegisterPod(podID.String(), data)

	var events []watchEvent
	if found {
		events = append(events, func(w ClusterCacheWatcher) error {
			return w.UpdatePod(old, data)
		})
	} else {
		events = append(events, func(w ClusterCacheWatcher) error {
			return w.AddPod(data)
		})
	}
	events = append(events, cc.reconcileNamespaceLocked(data.Namespace)...)
	cc.commit(events)
	return nil
}

// PutService idempotently creates or updates a service. A cluster IP is
// assigned on creation for the service types that carry one. For
// selector-based services the endpoints are re-derived before the mutation
// returns.
func (cc *ClusterCache) PutService(service *svcmodel.Service) error {
	if err := validateService(service); err != nil {
		return err
	}

	cc.mu.Lock()
	svcID := svcmodel.GetID(service)
	found, old := cc.configuredServices.LookupService(svcID.String())
	data := service.Copy()
	if data.Type == "" {
		data.Type = svcmodel.ClusterIP
	}

	if data.HasSelector() && cc.manualEndpoints[svcID.String()] {
		cc.mu.Unlock()
		return NewInvalidObject(svcmodel.ServiceKeyword, data.Namespace, data.Name,
			"selector conflicts with manually authored endpoints")
	}

	if found && data.ClusterIP == "" {
		data.ClusterIP = old.ClusterIP
	}
	if found && serviceEqual(old, data) {
		cc.mu.Unlock()
		return nil
	}
	if data.HasClusterIP() {
		if data.ClusterIP == "" && cc.IPAM != nil {
			ip, err := cc.IPAM.AllocateClusterIP(svcID)
			if err != nil {
				cc.mu.Unlock()
				return err
			}
			data.ClusterIP = ip.String()
		}
	} else {
		data.ClusterIP = ""
		if cc.IPAM != nil {
			cc.IPAM.ReleaseClusterIP(svcID)
		}
	}
	cc.configuredServices.RegisterService(svcID.String(), data)

	var events []watchEvent
	if found {
		events = append(events, func(w ClusterCacheWatcher) error {
			return w.UpdateService(old, data)
		})
	} else {
		events = append(events, func(w ClusterCacheWatcher) error {
			return w.AddService(data)
		})
	}
	events = append(events, cc.reconcileServiceLocked(data)...)
	cc.commit(events)
	return nil
}

// PutEndpoints idempotently creates or updates manually authored endpoints.
// Endpoints of a selector-based service are owned by the reconciler and are
// rejected here.
func (cc *ClusterCache) PutEndpoints(eps *epmodel.Endpoints) error {
	if err := validateEndpoints(eps); err != nil {
		return err
	}

	cc.mu.Lock()
	epsID := epmodel.GetID(eps).String()
	svcFound, svc := cc.configuredServices.LookupService(epsID)
	if svcFound && svc.HasSelector() {
		cc.mu.Unlock()
		return NewInvalidObject(epmodel.EndpointsKeyword, eps.Namespace, eps.Name,
			"endpoints of a selector-based service are derived, not authored")
	}

	data := eps.Copy()
	for _, b := range data.Backends {
		if b.Protocol == "" {
			b.Protocol = podmodel.TCP
		}
	}
	endpoints.SortBackends(data.Backends)

	old := cc.endpoints[epsID]
	if old != nil && endpoints.EqualEndpoints(old, data) {
		cc.mu.Unlock()
		return nil
	}
	cc.endpoints[epsID] = data
	cc.manualEndpoints[epsID] = true

	var events []watchEvent
	if old != nil {
		events = append(events, func(w ClusterCacheWatcher) error {
			return w.UpdateEndpoints(old, data)
		})
	} else {
		events = append(events, func(w ClusterCacheWatcher) error {
			return w.AddEndpoints(data)
		})
	}
	cc.commit(events)
	return nil
}

// PutPolicy idempotently creates or updates a network policy.
func (cc *ClusterCache) PutPolicy(policy *policymodel.Policy) error {
	if err := validatePolicy(policy); err != nil {
		return err
	}

	cc.mu.Lock()
	policyID := policymodel.GetID(policy).String()
	found, old := cc.configuredPolicies.LookupPolicy(policyID)
	data := policy.Copy()
	if found && policyEqual(old, data) {
		cc.mu.Unlock()
		return nil
	}
	cc.configuredPolicies.RegisterPolicy(policyID, data)

	var events []watchEvent
	if found {
		events = append(events, func(w ClusterCacheWatcher) error {
			return w.UpdatePolicy(old, data)
		})
	} else {
		events = append(events, func(w ClusterCacheWatcher) error {
			return w.AddPolicy(data)
		})
	}
	cc.commit(events)
	return nil
}

// DeleteNamespace removes a namespace. Objects inside the namespace are kept;
// the caller decides their fate.
func (cc *ClusterCache) DeleteNamespace(namespace nsmodel.ID) error {
	cc.mu.Lock()
	found, old := cc.configuredNamespaces.UnregisterNamespace(namespace.String())
	if !found {
		cc.mu.Unlock()
		return NewNotFound(nsmodel.NamespaceKeyword, "", namespace.String())
	}
	cc.commit([]watchEvent{func(w ClusterCacheWatcher) error {
		return w.DelNamespace(old)
	}})
	return nil
}

// DeletePod removes a pod, releases its IP and re-reconciles the services of
// its namespace before returning.
func (cc *ClusterCache) DeletePod(pod podmodel.ID) error {
	cc.mu.Lock()
	found, old := cc.configuredPods.UnregisterPod(pod.String())
	if !found {
		cc.mu.Unlock()
		return NewNotFound(podmodel.PodKeyword, pod.Namespace, pod.Name)
	}
	if cc.IPAM != nil {
		cc.IPAM.ReleasePodIP(pod)
	}
	events := []watchEvent{func(w ClusterCacheWatcher) error {
		return w.DelPod(old)
	}}
	events = append(events, cc.reconcileNamespaceLocked(old.Namespace)...)
	cc.commit(events)
	return nil
}

// DeleteService removes a service, releases its cluster IP and drops its
// derived endpoints. Manually authored endpoints outlive the service.
func (cc *ClusterCache) DeleteService(service svcmodel.ID) error {
	cc.mu.Lock()
	found, old := cc.configuredServices.UnregisterService(service.String())
	if !found {
		cc.mu.Unlock()
		return NewNotFound(svcmodel.ServiceKeyword, service.Namespace, service.Name)
	}
	if cc.IPAM != nil {
		cc.IPAM.ReleaseClusterIP(service)
	}
	events := []watchEvent{func(w ClusterCacheWatcher) error {
		return w.DelService(old)
	}}
	epsID := service.String()
	if eps, exists := cc.endpoints[epsID]; exists && !cc.manualEndpoints[epsID] {
		delete(cc.endpoints, epsID)
		events = append(events, func(w ClusterCacheWatcher) error {
			return w.DelEndpoints(eps)
		})
	}
	cc.commit(events)
	return nil
}

// DeleteEndpoints removes manually authored endpoints. Derived endpoints are
// owned by the reconciler and cannot be deleted directly.
func (cc *ClusterCache) DeleteEndpoints(eps epmodel.ID) error {
	cc.mu.Lock()
	epsID := eps.String()
	old, exists := cc.endpoints[epsID]
	if !exists {
		cc.mu.Unlock()
		return NewNotFound(epmodel.EndpointsKeyword, eps.Namespace, eps.Name)
	}
	if !cc.manualEndpoints[epsID] {
		cc.mu.Unlock()
		return NewInvalidObject(epmodel.EndpointsKeyword, eps.Namespace, eps.Name,
			"derived endpoints are owned by the reconciler")
	}
	delete(cc.endpoints, epsID)
	delete(cc.manualEndpoints, epsID)
	cc.commit([]watchEvent{func(w ClusterCacheWatcher) error {
		return w.DelEndpoints(old)
	}})
	return nil
}

// DeletePolicy removes a network policy.
func (cc *ClusterCache) DeletePolicy(policy policymodel.ID) error {
	cc.mu.Lock()
	found, old := cc.configuredPolicies.UnregisterPolicy(policy.String())
	if !found {
		cc.mu.Unlock()
		return NewNotFound(policymodel.PolicyKeyword, policy.Namespace, policy.Name)
	}
	cc.commit([]watchEvent{func(w ClusterCacheWatcher) error {
		return w.DelPolicy(old)
	}})
	return nil
}

// LookupNamespace returns data of a given namespace.
func (cc *ClusterCache) LookupNamespace(namespace nsmodel.ID) (found bool, data *nsmodel.Namespace) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.configuredNamespaces.LookupNamespace(namespace.String())
}

// LookupNamespacesByLabelSelector evaluates a label selector over all
// namespaces. An empty selector matches every namespace.
func (cc *ClusterCache) LookupNamespacesByLabelSelector(
	nsLabelSelector *selector.LabelSelector) (namespaces []nsmodel.ID) {

	cc.mu.RLock()
	defer cc.mu.RUnlock()

	var perTerm [][]string
	for key, val := range nsLabelSelector.GetMatchLabels() {
		perTerm = append(perTerm,
			cc.configuredNamespaces.LookupNamespacesByLabelSelector(key+"/"+val))
	}
	for _, expr := range nsLabelSelector.GetMatchExpressions() {
		// Exists and In both require the key to be present
		if expr.Operator == selector.Exists || expr.Operator == selector.In {
			perTerm = append(perTerm,
				cc.configuredNamespaces.LookupNamespacesByKey(expr.Key))
		}
	}
	var candidates []string
	if len(perTerm) > 0 {
		candidates = utils.Intersect(perTerm...)
	} else {
		candidates = cc.configuredNamespaces.ListAll()
	}
	sort.Strings(candidates)

	for _, nsID := range candidates {
		found, ns := cc.configuredNamespaces.LookupNamespace(nsID)
		if !found {
			continue
		}
		if matchExpressionsLocked(nsLabelSelector, ns.Labels) {
			namespaces = append(namespaces, nsmodel.ID(nsID))
		}
	}
	return namespaces
}

// ListAllNamespaces returns the IDs of all namespaces.
func (cc *ClusterCache) ListAllNamespaces() (namespaces []nsmodel.ID) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	ids := cc.configuredNamespaces.ListAll()
	sort.Strings(ids)
	for _, id := range ids {
		namespaces = append(namespaces, nsmodel.ID(id))
	}
	return namespaces
}

// LookupPod returns data of a given pod.
func (cc *ClusterCache) LookupPod(pod podmodel.ID) (found bool, data *podmodel.Pod) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.configuredPods.LookupPod(pod.String())
}

// LookupPodsByNamespace returns the IDs of all pods of a namespace.
func (cc *ClusterCache) LookupPodsByNamespace(namespace string) (pods []podmodel.ID) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return podIDs(cc.configuredPods.LookupPodsByNamespace(namespace))
}

// LookupPodsByNSLabelSelector evaluates a label selector over the pods of
// one namespace. An empty selector matches every pod of the namespace.
func (cc *ClusterCache) LookupPodsByNSLabelSelector(namespace string,
	podLabelSelector *selector.LabelSelector) (pods []podmodel.ID) {

	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return podIDs(cc.lookupPodsBySelectorLocked(namespace, podLabelSelector))
}

// ListAllPods returns the IDs of all pods.
func (cc *ClusterCache) ListAllPods() (pods []podmodel.ID) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return podIDs(cc.configuredPods.ListAll())
}

// LookupService returns data of a given service.
func (cc *ClusterCache) LookupService(service svcmodel.ID) (found bool, data *svcmodel.Service) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.configuredServices.LookupService(service.String())
}

// ListServicesByNamespace returns the IDs of all services of a namespace.
func (cc *ClusterCache) ListServicesByNamespace(namespace string) (services []svcmodel.ID) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return svcIDs(cc.configuredServices.LookupServicesByNamespace(namespace))
}

// ListAllServices returns the IDs of all services.
func (cc *ClusterCache) ListAllServices() (services []svcmodel.ID) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return svcIDs(cc.configuredServices.ListAll())
}

// LookupEndpoints returns the current endpoints of a service, derived or
// manually authored.
func (cc *ClusterCache) LookupEndpoints(eps epmodel.ID) (found bool, data *epmodel.Endpoints) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	data, found = cc.endpoints[eps.String()]
	return found, data
}

// LookupPolicy returns data of a given network policy.
func (cc *ClusterCache) LookupPolicy(policy policymodel.ID) (found bool, data *policymodel.Policy) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.configuredPolicies.LookupPolicy(policy.String())
}

// LookupPoliciesByPod returns the IDs of all policies whose pod selector
// selects the given pod.
func (cc *ClusterCache) LookupPoliciesByPod(pod podmodel.ID) (policies []policymodel.ID) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	found, podData := cc.configuredPods.LookupPod(pod.String())
	if !found {
		return nil
	}
	ids := cc.configuredPolicies.LookupPoliciesByNamespace(pod.Namespace)
	sort.Strings(ids)
	for _, policyID := range ids {
		found, policyData := cc.configuredPolicies.LookupPolicy(policyID)
		if !found {
			continue
		}
		if policyData.PodSelector.Matches(podData.Labels) {
			ns, name := utils.SplitID(policyID)
			policies = append(policies, policymodel.ID{Name: name, Namespace: ns})
		}
	}
	return policies
}

// ListPoliciesByNamespace returns the IDs of all policies of a namespace.
func (cc *ClusterCache) ListPoliciesByNamespace(namespace string) (policies []policymodel.ID) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return policyIDs(cc.configuredPolicies.LookupPoliciesByNamespace(namespace))
}

// ListAllPolicies returns the IDs of all policies.
func (cc *ClusterCache) ListAllPolicies() (policies []policymodel.ID) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return policyIDs(cc.configuredPolicies.ListAll())
}

// lookupPodsBySelectorLocked narrows the candidate set through the secondary
// label indexes first and evaluates the match expressions on what remains.
func (cc *ClusterCache) lookupPodsBySelectorLocked(namespace string,
	podLabelSelector *selector.LabelSelector) []string {

	var perTerm [][]string
	for key, val := range podLabelSelector.GetMatchLabels() {
		perTerm = append(perTerm,
			cc.configuredPods.LookupPodsByNSLabelSelector(namespace+"/"+key+"/"+val))
	}
	for _, expr := range podLabelSelector.GetMatchExpressions() {
		// Exists and In both require the key to be present
		if expr.Operator == selector.Exists || expr.Operator == selector.In {
			perTerm = append(perTerm,
				cc.configuredPods.LookupPodsByNSKey(namespace+"/"+expr.Key))
		}
	}
	var candidates []string
	if len(perTerm) > 0 {
		candidates = utils.Intersect(perTerm...)
	} else {
		candidates = cc.configuredPods.LookupPodsByNamespace(namespace)
	}
	sort.Strings(candidates)

	var matched []string
	for _, podID := range candidates {
		found, podData := cc.configuredPods.LookupPod(podID)
		if !found {
			continue
		}
		if matchExpressionsLocked(podLabelSelector, podData.Labels) {
			matched = append(matched, podID)
		}
	}
	return matched
}

// reconcileNamespaceLocked re-derives the endpoints of every service of the
// namespace. Must be called under the write lock.
func (cc *ClusterCache) reconcileNamespaceLocked(namespace string) []watchEvent {
	var events []watchEvent
	ids := cc.configuredServices.LookupServicesByNamespace(namespace)
	sort.Strings(ids)
	for _, svcID := range ids {
		found, svc := cc.configuredServices.LookupService(svcID)
		if !found {
			continue
		}
		events = append(events, cc.reconcileServiceLocked(svc)...)
	}
	return events
}

// reconcileServiceLocked re-derives the endpoints of one service from the
// pods of its namespace. Manually authored endpoints are never touched.
// Must be called under the write lock.
func (cc *ClusterCache) reconcileServiceLocked(svc *svcmodel.Service) []watchEvent {
	epsID := svcmodel.GetID(svc).String()
	if cc.manualEndpoints[epsID] {
		return nil
	}

	var pods []*podmodel.Pod
	ids := cc.configuredPods.LookupPodsByNamespace(svc.Namespace)
	sort.Strings(ids)
	for _, podID := range ids {
		found, podData := cc.configuredPods.LookupPod(podID)
		if found {
			pods = append(pods, podData)
		}
	}

	prev := cc.endpoints[epsID]
	eps, changed := cc.Reconciler.Reconcile(svc, pods, prev)
	if !changed {
		return nil
	}
	if eps == nil {
		delete(cc.endpoints, epsID)
		return []watchEvent{func(w ClusterCacheWatcher) error {
			return w.DelEndpoints(prev)
		}}
	}
	cc.endpoints[epsID] = eps
	if prev == nil {
		return []watchEvent{func(w ClusterCacheWatcher) error {
			return w.AddEndpoints(eps)
		}}
	}
	return []watchEvent{func(w ClusterCacheWatcher) error {
		return w.UpdateEndpoints(prev, eps)
	}}
}

// commit releases the write lock and replays the committed events to the
// watchers. Watcher errors are logged, never propagated to the mutator - the
// mutation has already committed.
func (cc *ClusterCache) commit(events []watchEvent) {
	watchers := make([]ClusterCacheWatcher, len(cc.watchers))
	copy(watchers, cc.watchers)
	cc.mu.Unlock()

	for _, watcher := range watchers {
		for _, event := range events {
			if err := event(watcher); err != nil {
				cc.Log.WithField("err", err).Warn("Cluster cache watcher failed")
			}
		}
	}
}

// matchExpressionsLocked evaluates only the match expressions of a selector
// (match labels were already narrowed through the secondary indexes).
func matchExpressionsLocked(sel *selector.LabelSelector, labels map[string]string) bool {
	if sel == nil {
		return true
	}
	for _, expr := range sel.MatchExpressions {
		if !expr.Matches(labels) {
			return false
		}
	}
	return true
}

func podIDs(ids []string) []podmodel.ID {
	sort.Strings(ids)
	var result []podmodel.ID
	for _, id := range ids {
		ns, name := utils.SplitID(id)
		result = append(result, podmodel.ID{Name: name, Namespace: ns})
	}
	return result
}

func svcIDs(ids []string) []svcmodel.ID {
	sort.Strings(ids)
	var result []svcmodel.ID
	for _, id := range ids {
		ns, name := utils.SplitID(id)
		result = append(result, svcmodel.ID{Name: name, Namespace: ns})
	}
	return result
}

func policyIDs(ids []string) []policymodel.ID {
	sort.Strings(ids)
	var result []policymodel.ID
	for _, id := range ids {
		ns, name := utils.SplitID(id)
		result = append(result, policymodel.ID{Name: name, Namespace: ns})
	}
	return result
}
