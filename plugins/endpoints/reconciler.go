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

// Package endpoints derives the endpoints of selector-based services from
// the live pod set. The derivation is pure and deterministic: the same
// service and pod set always produce byte-identical output.
package endpoints

import (
	"sort"
	"sync/atomic"

	"github.com/ligato/cn-infra/logging"

	epmodel "github.com/knetsim/netsim/model/endpoints"
	podmodel "github.com/knetsim/netsim/model/pod"
	svcmodel "github.com/knetsim/netsim/model/service"
)

// Reconciler keeps each selector-based service's endpoints equal to the set
// of running & ready pods matching the service selector. It is invoked
// synchronously by the cluster cache on every relevant mutation.
type Reconciler struct {
	Deps

	runs    uint64
	changed uint64
}

// Deps lists dependencies of the Reconciler.
type Deps struct {
	Log logging.Logger
}

// Stats counts reconciliation runs and the subset of runs that produced a
// different endpoint set than the previous one.
type Stats struct {
	Runs    uint64 `json:"runs"`
	Changed uint64 `json:"changed"`
}

// Reconcile derives the endpoints of the given service from the supplied
// pods (the pods of the service's namespace). Pods that are not Running,
// not Ready, without an IP, or not matching the selector contribute nothing.
// A matching pod lacking a named target port contributes no entry for that
// port mapping - it is silently excluded, not an error.
// Returns the derived set and whether it differs from prev.
// Services without a selector and ExternalName services never get derived
// endpoints (nil result).
func (r *Reconciler) Reconcile(svc *svcmodel.Service, pods []*podmodel.Pod,
	prev *epmodel.Endpoints) (eps *epmodel.Endpoints, changed bool) {

	atomic.AddUint64(&r.runs, 1)

	if svc == nil || !svc.HasSelector() || svc.Type == svcmodel.ExternalName {
		if prev != nil {
			atomic.AddUint64(&r.changed, 1)
			return nil, true
		}
		return nil, false
	}

	eps = &epmodel.Endpoints{
		Name:      svc.Name,
		Namespace: svc.Namespace,
	}

	for _, p := range pods {
		if p.Phase != podmodel.Running || !p.Ready || p.IPAddress == "" {
			continue
		}
		if !svc.Selector.Matches(p.Labels) {
			continue
		}
		for _, sp := range svc.Ports {
			targetPort, ok := resolveTargetPort(sp, p)
			if !ok {
				continue
			}
			proto := sp.Protocol
			if proto == "" {
				proto = podmodel.TCP
			}
			eps.Backends = append(eps.Backends, &epmodel.Backend{
				IP:        p.IPAddress,
				Port:      targetPort,
				Protocol:  proto,
				PortName:  sp.Name,
				TargetPod: podmodel.GetID(p),
			})
		}
	}

	SortBackends(eps.Backends)

	if EqualEndpoints(prev, eps) {
		return eps, false
	}
	r.Log.WithFields(logging.Fields{
		"service":  svcmodel.GetID(svc),
		"backends": len(eps.Backends),
	}).Debug("Reconciled service endpoints")
	atomic.AddUint64(&r.changed, 1)
	return eps, true
}

// GetStats returns a snapshot of the reconciliation counters.
func (r *Reconciler) GetStats() Stats {
	return Stats{
		Runs:    atomic.LoadUint64(&r.runs),
		Changed: atomic.LoadUint64(&r.changed),
	}
}

// resolveTargetPort resolves the target port of one service port mapping
// against a pod. Named target ports resolve through the pod's declared
// container ports; numeric ones pass through; an unset target defaults to
// the exposed port itself.
func resolveTargetPort(sp *svcmodel.ServicePort, p *podmodel.Pod) (uint16, bool) {
	if sp.TargetPortName != "" {
		cp := p.GetPortByName(sp.TargetPortName)
		if cp == nil {
			return 0, false
		}
		proto := sp.Protocol
		if proto == "" {
			proto = podmodel.TCP
		}
		if cp.Protocol != "" && cp.Protocol != proto {
			return 0, false
		}
		return cp.Port, true
	}
	if sp.TargetPort != 0 {
		return sp.TargetPort, true
	}
	return sp.Port, true
}

// EqualEndpoints compares two endpoint sets for semantic equality. Backends
// are expected in the deterministic order produced by Reconcile.
func EqualEndpoints(a, b *epmodel.Endpoints) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Name != b.Name || a.Namespace != b.Namespace {
		return false
	}
	if len(a.Backends) != len(b.Backends) {
		return false
	}
	for idx, ba := range a.Backends {
		bb := b.Backends[idx]
		if *ba != *bb {
			return false
		}
	}
	return true
}

// SortBackends puts backends into the canonical order: by port name, then
// IP, then port. All stored endpoint sets keep this order so that equality
// checks are positional.
func SortBackends(backends []*epmodel.Backend) {
	sort.Slice(backends, func(i, j int) bool {
		if backends[i].PortName != backends[j].PortName {
			return backends[i].PortName < backends[j].PortName
		}
		if backends[i].IP != backends[j].IP {
			return backends[i].IP < backends[j].IP
		}
		return backends[i].Port < backends[j].Port
	})
}
