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
	epmodel "github.com/knetsim/netsim/model/endpoints"
	nsmodel "github.com/knetsim/netsim/model/namespace"
	podmodel "github.com/knetsim/netsim/model/pod"
	policymodel "github.com/knetsim/netsim/model/policy"
	"github.com/knetsim/netsim/model/selector"
	svcmodel "github.com/knetsim/netsim/model/service"
)

// ClusterCacheAPI is the single owner of the declared cluster state:
// namespaces, pods, services, endpoints and network policies. All mutations
// go through the Put*/Delete* methods, are admission-validated, serialized,
// and cascade into endpoint reconciliation before the mutation returns.
// Lookups never mutate; returned objects must be treated as read-only.
// Watchers subscribed via Watch() get notified about every effective change.
type ClusterCacheAPI interface {
	PutNamespace(ns *nsmodel.Namespace) error
	PutPod(pod *podmodel.Pod) error
	PutService(service *svcmodel.Service) error
	PutEndpoints(eps *epmodel.Endpoints) error
	PutPolicy(policy *policymodel.Policy) error

	DeleteNamespace(namespace nsmodel.ID) error
	DeletePod(pod podmodel.ID) error
	DeleteService(service svcmodel.ID) error
	DeleteEndpoints(eps epmodel.ID) error
	DeletePolicy(policy policymodel.ID) error

	Watch(watcher ClusterCacheWatcher)

	LookupNamespace(namespace nsmodel.ID) (found bool, data *nsmodel.Namespace)
	LookupNamespacesByLabelSelector(nsLabelSelector *selector.LabelSelector) (namespaces []nsmodel.ID)
	ListAllNamespaces() (namespaces []nsmodel.ID)

	LookupPod(pod podmodel.ID) (found bool, data *podmodel.Pod)
	LookupPodsByNamespace(namespace string) (pods []podmodel.ID)
	LookupPodsByNSLabelSelector(namespace string, podLabelSelector *selector.LabelSelector) (pods []podmodel.ID)
	ListAllPods() (pods []podmodel.ID)

	LookupService(service svcmodel.ID) (found bool, data *svcmodel.Service)
	ListServicesByNamespace(namespace string) (services []svcmodel.ID)
	ListAllServices() (services []svcmodel.ID)

	LookupEndpoints(eps epmodel.ID) (found bool, data *epmodel.Endpoints)

	LookupPolicy(policy policymodel.ID) (found bool, data *policymodel.Policy)
	LookupPoliciesByPod(pod podmodel.ID) (policies []policymodel.ID)
	ListPoliciesByNamespace(namespace string) (policies []policymodel.ID)
	ListAllPolicies() (policies []policymodel.ID)

	Export() *ClusterState
	Resync(state *ClusterState) error
}

// ClusterCacheWatcher watches the cluster cache for changes. Callbacks fire
// after the mutation and its cascaded endpoint reconciliation have been
// committed; no-op puts fire nothing.
type ClusterCacheWatcher interface {
	Resync(state *ClusterState) error

	AddNamespace(ns *nsmodel.Namespace) error
	DelNamespace(ns *nsmodel.Namespace) error
	UpdateNamespace(oldNs, newNs *nsmodel.Namespace) error

	AddPod(pod *podmodel.Pod) error
	DelPod(pod *podmodel.Pod) error
	UpdatePod(oldPod, newPod *podmodel.Pod) error

	AddService(service *svcmodel.Service) error
	DelService(service *svcmodel.Service) error
	UpdateService(oldService, newService *svcmodel.Service) error

	AddEndpoints(eps *epmodel.Endpoints) error
	DelEndpoints(eps *epmodel.Endpoints) error
	UpdateEndpoints(oldEps, newEps *epmodel.Endpoints) error

	AddPolicy(policy *policymodel.Policy) error
	DelPolicy(policy *policymodel.Policy) error
	UpdatePolicy(oldPolicy, newPolicy *policymodel.Policy) error
}

// ClusterState is a full dump of the declared cluster state. Endpoints of
// selector-based services are included for inspection but re-derived on
// Resync; only manually authored endpoints are loaded back.
type ClusterState struct {
	Namespaces []*nsmodel.Namespace  `json:"namespaces,omitempty"`
	Pods       []*podmodel.Pod       `json:"pods,omitempty"`
	Services   []*svcmodel.Service   `json:"services,omitempty"`
	Endpoints  []*epmodel.Endpoints  `json:"endpoints,omitempty"`
	Policies   []*policymodel.Policy `json:"policies,omitempty"`
}
