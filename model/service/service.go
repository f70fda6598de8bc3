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

package service

import (
	"github.com/knetsim/netsim/model/pod"
	"github.com/knetsim/netsim/model/selector"
)

// ServiceKeyword identifies service data in watcher notifications, stats
// and state dumps.
const ServiceKeyword = "service"

// Type of a service, deciding how the service is exposed.
type Type string

const (
	// ClusterIP exposes the service on a cluster-internal virtual IP.
	ClusterIP Type = "ClusterIP"
	// NodePort exposes the service on a static port of every node,
	// in addition to the cluster IP.
	NodePort Type = "NodePort"
	// LoadBalancer exposes the service via an externally provisioned
	// load-balancer, in addition to the cluster IP.
	LoadBalancer Type = "LoadBalancer"
	// Headless services get no cluster IP; clients talk to the backends
	// directly.
	Headless Type = "Headless"
	// ExternalName services resolve to an externally managed DNS name.
	// They never have selectors nor derived endpoints.
	ExternalName Type = "ExternalName"
)

// Service represents the declared state of a single K8s service.
// Exactly one of {non-empty Selector with derived endpoints} or
// {manually authored endpoints} may hold for any service.
type Service struct {
	Name         string                  `json:"name"`
	Namespace    string                  `json:"namespace"`
	Type         Type                    `json:"type,omitempty"`
	Selector     *selector.LabelSelector `json:"selector,omitempty"`
	ClusterIP    string                  `json:"clusterIp,omitempty"`
	ExternalName string                  `json:"externalName,omitempty"`
	Ports        []*ServicePort          `json:"ports,omitempty"`
}

// ServicePort maps one exposed service port onto a target port of the
// backing pods. TargetPortName takes precedence over TargetPort when set;
// it is resolved against the declared container ports of each matching pod.
type ServicePort struct {
	Name           string       `json:"name,omitempty"`
	Protocol       pod.Protocol `json:"protocol,omitempty"`
	Port           uint16       `json:"port"`
	TargetPort     uint16       `json:"targetPort,omitempty"`
	TargetPortName string       `json:"targetPortName,omitempty"`
	NodePort       uint16       `json:"nodePort,omitempty"`
}

// Copy returns a deep copy of the service.
func (s *Service) Copy() *Service {
	if s == nil {
		return nil
	}
	c := &Service{
		Name:         s.Name,
		Namespace:    s.Namespace,
		Type:         s.Type,
		Selector:     s.Selector.Copy(),
		ClusterIP:    s.ClusterIP,
		ExternalName: s.ExternalName,
	}
	for _, sp := range s.Ports {
		spCopy := *sp
		c.Ports = append(c.Ports, &spCopy)
	}
	return c
}

// HasSelector returns true if the service selects its backends by labels,
// i.e. its endpoints are derived, never hand-authored.
func (s *Service) HasSelector() bool {
	return s.Selector != nil && !s.Selector.IsEmpty()
}

// HasClusterIP returns true for service types that get a cluster-internal
// virtual IP assigned.
func (s *Service) HasClusterIP() bool {
	switch s.Type {
	case Headless, ExternalName:
		return false
	}
	return true
}

// GetPort returns the service port mapping with the given exposed port and
// protocol, or nil when the service does not expose it.
func (s *Service) GetPort(port uint16, protocol pod.Protocol) *ServicePort {
	for _, sp := range s.Ports {
		proto := sp.Protocol
		if proto == "" {
			proto = pod.TCP
		}
		if sp.Port == port && proto == protocol {
			return sp
		}
	}
	return nil
}
