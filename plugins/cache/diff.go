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
	"reflect"

	nsmodel "github.com/knetsim/netsim/model/namespace"
	podmodel "github.com/knetsim/netsim/model/pod"
	policymodel "github.com/knetsim/netsim/model/policy"
	"github.com/knetsim/netsim/model/selector"
	svcmodel "github.com/knetsim/netsim/model/service"
)

// Field-level equality checks backing the idempotence of Put*: a put that
// changes nothing fires no watcher notification and no reconciliation.

func namespaceEqual(a, b *nsmodel.Namespace) bool {
	return a.Name == b.Name && labelsEqual(a.Labels, b.Labels)
}

func podEqual(a, b *podmodel.Pod) bool {
	if a.Name != b.Name || a.Namespace != b.Namespace ||
		a.Phase != b.Phase || a.Ready != b.Ready || a.IPAddress != b.IPAddress {
		return false
	}
	if !labelsEqual(a.Labels, b.Labels) {
		return false
	}
	if len(a.Ports) != len(b.Ports) {
		return false
	}
	for idx, port := range a.Ports {
		if *port != *b.Ports[idx] {
			return false
		}
	}
	return true
}

func serviceEqual(a, b *svcmodel.Service) bool {
	if a.Name != b.Name || a.Namespace != b.Namespace || a.Type != b.Type ||
		a.ClusterIP != b.ClusterIP || a.ExternalName != b.ExternalName {
		return false
	}
	if !selectorEqual(a.Selector, b.Selector) {
		return false
	}
	if len(a.Ports) != len(b.Ports) {
		return false
	}
	for idx, sp := range a.Ports {
		if *sp != *b.Ports[idx] {
			return false
		}
	}
	return true
}

func policyEqual(a, b *policymodel.Policy) bool {
	return reflect.DeepEqual(a, b)
}

func selectorEqual(a, b *selector.LabelSelector) bool {
	if a.IsEmpty() && b.IsEmpty() {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func labelsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
