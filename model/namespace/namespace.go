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

package namespace

// NamespaceKeyword identifies namespace data in watcher notifications,
// stats and state dumps.
const NamespaceKeyword = "namespace"

// Namespace represents a single K8s namespace together with the labels
// attached to it. Namespace labels are what NamespaceSelector-s of network
// policies are evaluated against.
type Namespace struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
}

// Copy returns a deep copy of the namespace.
func (n *Namespace) Copy() *Namespace {
	if n == nil {
		return nil
	}
	c := &Namespace{Name: n.Name}
	if n.Labels != nil {
		c.Labels = make(map[string]string, len(n.Labels))
		for k, v := range n.Labels {
			c.Labels[k] = v
		}
	}
	return c
}
