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

package pod

// PodKeyword identifies pod data in watcher notifications, stats and state
// dumps.
const PodKeyword = "pod"

// Phase is the simplified lifecycle phase of a pod.
type Phase string

const (
	// Pending means the pod was accepted but is not running yet.
	Pending Phase = "Pending"
	// Running means the pod is scheduled and all containers were started.
	Running Phase = "Running"
	// Succeeded means all containers terminated with success.
	Succeeded Phase = "Succeeded"
	// Failed means at least one container terminated with failure.
	Failed Phase = "Failed"
	// Unknown means the pod state could not be obtained.
	Unknown Phase = "Unknown"
)

// Protocol is the transport protocol of a declared container port.
type Protocol string

const (
	// TCP protocol.
	TCP Protocol = "TCP"
	// UDP protocol.
	UDP Protocol = "UDP"
)

// Pod represents the declared and observed state of a single simulated pod.
// Only pods with Phase=Running and Ready=true are eligible service backends.
// IPAddress is assigned by IPAM on the transition into Running and stays
// stable until the pod object is deleted.
type Pod struct {
	Name      string            `json:"name"`
	Namespace string            `json:"namespace"`
	Labels    map[string]string `json:"labels,omitempty"`
	Phase     Phase             `json:"phase,omitempty"`
	Ready     bool              `json:"ready,omitempty"`
	IPAddress string            `json:"ipAddress,omitempty"`
	Ports     []*ContainerPort  `json:"ports,omitempty"`
}

// ContainerPort is one port declared by a pod's container.
type ContainerPort struct {
	Name     string   `json:"name,omitempty"`
	Port     uint16   `json:"port"`
	Protocol Protocol `json:"protocol,omitempty"`
}

// Copy returns a deep copy of the pod.
func (p *Pod) Copy() *Pod {
	if p == nil {
		return nil
	}
	c := &Pod{
		Name:      p.Name,
		Namespace: p.Namespace,
		Phase:     p.Phase,
		Ready:     p.Ready,
		IPAddress: p.IPAddress,
	}
	if p.Labels != nil {
		c.Labels = make(map[string]string, len(p.Labels))
		for k, v := range p.Labels {
			c.Labels[k] = v
		}
	}
	for _, port := range p.Ports {
		portCopy := *port
		c.Ports = append(c.Ports, &portCopy)
	}
	return c
}

// GetPortByName returns the declared container port with the given name,
// or nil if the pod does not declare it.
func (p *Pod) GetPortByName(name string) *ContainerPort {
	for _, port := range p.Ports {
		if port.Name == name {
			return port
		}
	}
	return nil
}
