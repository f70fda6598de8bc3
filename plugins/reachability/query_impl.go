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

package reachability

import (
	"context"

	"github.com/ligato/cn-infra/logging"

	epmodel "github.com/knetsim/netsim/model/endpoints"
	podmodel "github.com/knetsim/netsim/model/pod"
	svcmodel "github.com/knetsim/netsim/model/service"
	"github.com/knetsim/netsim/plugins/cache"
	"github.com/knetsim/netsim/plugins/policy"
)

// ReachabilityQuery implements ReachabilityQueryAPI.
type ReachabilityQuery struct {
	Deps
}

// Deps lists dependencies of the reachability query service.
type Deps struct {
	Log    logging.Logger
	Cache  cache.ClusterCacheAPI
	Policy policy.PolicyEngineAPI
}

// Init is a NOOP - the query service is stateless.
func (rq *ReachabilityQuery) Init() error {
	return nil
}

// CanReach resolves the service to its current endpoints and evaluates the
// policy engine per backend on the backend's target port.
func (rq *ReachabilityQuery) CanReach(src podmodel.ID, service svcmodel.ID,
	port uint16, protocol podmodel.Protocol) (*Result, error) {

	if protocol == "" {
		protocol = podmodel.TCP
	}
	result := &Result{
		Source:   src,
		Service:  service,
		Port:     port,
		Protocol: protocol,
	}

	found, _ := rq.Cache.LookupPod(src)
	if !found {
		return nil, cache.NewNotFound(podmodel.PodKeyword, src.Namespace, src.Name)
	}
	svcFound, svc := rq.Cache.LookupService(service)
	if !svcFound {
		return nil, cache.NewNotFound(svcmodel.ServiceKeyword, service.Namespace,
			service.Name)
	}

	sp := svc.GetPort(port, protocol)
	if sp == nil {
		result.Reason = ReasonNoServicePort
		return result, nil
	}

	epsFound, eps := rq.Cache.LookupEndpoints(
		epmodel.ID{Name: service.Name, Namespace: service.Namespace})
	var backends []*epmodel.Backend
	if epsFound {
		backends = eps.BackendsForPort(sp.Name)
	}
	if len(backends) == 0 {
		result.Reason = ReasonNoEndpoints
		return result, nil
	}

	for _, backend := range backends {
		dst := policy.IPPeer(backend.IP)
		if backend.TargetPod.Name != "" {
			dst = policy.PodPeer(backend.TargetPod)
		}
		verdict := rq.Policy.Evaluate(policy.PodPeer(src), dst,
			backend.Port, backend.Protocol)
		result.Backends = append(result.Backends, &BackendVerdict{
			Backend: backend,
			Verdict: verdict,
		})
		if verdict.Allowed {
			result.Allowed = true
		}
	}
	if !result.Allowed {
		result.Reason = ReasonDenied
	}
	rq.Log.WithFields(logging.Fields{
		"src":     src,
		"service": service,
		"allowed": result.Allowed,
	}).Debug("Evaluated CanReach query")
	return result, nil
}

// Matrix computes direct pod-to-pod verdicts for every ordered pair of
// running and ready pods in scope. Cancellation is checked between rows.
func (rq *ReachabilityQuery) Matrix(ctx context.Context, namespace string,
	port uint16, protocol podmodel.Protocol) (*Matrix, error) {

	if protocol == "" {
		protocol = podmodel.TCP
	}
	matrix := &Matrix{
		Namespace: namespace,
		Port:      port,
		Protocol:  protocol,
	}

	var candidates []podmodel.ID
	if namespace == "" {
		candidates = rq.Cache.ListAllPods()
	} else {
		candidates = rq.Cache.LookupPodsByNamespace(namespace)
	}
	for _, podID := range candidates {
		found, podData := rq.Cache.LookupPod(podID)
		if !found || podData.Phase != podmodel.Running || !podData.Ready {
			continue
		}
		matrix.Pods = append(matrix.Pods, podID)
	}

	for _, src := range matrix.Pods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, dst := range matrix.Pods {
			if src == dst {
				continue
			}
			verdict := rq.Policy.Evaluate(policy.PodPeer(src),
				policy.PodPeer(dst), port, protocol)
			matrix.Pairs = append(matrix.Pairs, &MatrixEntry{
				Source:      src,
				Destination: dst,
				Allowed:     verdict.Allowed,
			})
		}
	}
	return matrix, nil
}
