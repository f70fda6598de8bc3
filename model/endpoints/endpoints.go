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

package endpoints

import (
	"github.com/knetsim/netsim/model/pod"
)

// EndpointsKeyword identifies endpoints data in watcher notifications,
// stats and state dumps.
const EndpointsKeyword = "endpoints"

// Endpoints is the set of (IP, port) pairs currently backing a service.
// For selector-based services the set is derived by the reconciler and is
// never hand-edited; for selector-less services it is authored by the caller.
type Endpoints struct {
	Name      string     `json:"name"`
	Namespace string     `json:"namespace"`
	Backends  []*Backend `json:"backends,omitempty"`
}

// Backend is one endpoint entry. PortName ties the entry to the service
// port mapping it resolves; TargetPod is empty for manually authored
// backends that point outside the pod fleet.
type Backend struct {
	IP        string       `json:"ip"`
	Port      uint16       `json:"port"`
	Protocol  pod.Protocol `json:"protocol,omitempty"`
	PortName  string       `json:"portName,omitempty"`
	TargetPod pod.ID       `json:"targetPod,omitempty"`
}

// Copy returns a deep copy of the endpoints.
func (e *Endpoints) Copy() *Endpoints {
	if e == nil {
		return nil
	}
	c := &Endpoints{Name: e.Name, Namespace: e.Namespace}
	for _, b := range e.Backends {
		bCopy := *b
		c.Backends = append(c.Backends, &bCopy)
	}
	return c
}

// BackendsForPort returns the backends resolving the service port mapping
// with the given name (empty name matches unnamed mappings).
func (e *Endpoints) BackendsForPort(portName string) []*Backend {
	var backends []*Backend
	for _, b := range e.Backends {
		if b.PortName == portName {
			backends = append(backends, b)
		}
	}
	return backends
}
