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

package policyidx

import (
	"github.com/ligato/cn-infra/idxmap"
	"github.com/ligato/cn-infra/idxmap/mem"
	"github.com/ligato/cn-infra/logging"

	policymodel "github.com/knetsim/netsim/model/policy"
)

const namespaceKey = "namespaceKey"

// ConfigIndex implements a cache for configured network policies. Primary
// index is the policy ID in the "namespace/name" form.
type ConfigIndex struct {
	mapping idxmap.NamedMappingRW
}

// NewConfigIndex creates new instance of ConfigIndex.
func NewConfigIndex(logger logging.Logger, title string) *ConfigIndex {
	return &ConfigIndex{mapping: mem.NewNamedMapping(logger, title, IndexFunction)}
}

// RegisterPolicy adds a new policy entry into the mapping.
func (ci *ConfigIndex) RegisterPolicy(policyID string, data *policymodel.Policy) {
	ci.mapping.Put(policyID, data)
}

// UnregisterPolicy removes a policy entry from the mapping.
func (ci *ConfigIndex) UnregisterPolicy(policyID string) (found bool, data *policymodel.Policy) {
	d, found := ci.mapping.Delete(policyID)
	if found {
		if data, ok := d.(*policymodel.Policy); ok {
			return found, data
		}
	}
	return false, nil
}

// LookupPolicy looks up a policy entry given a policy ID.
func (ci *ConfigIndex) LookupPolicy(policyID string) (found bool, data *policymodel.Policy) {
	d, found := ci.mapping.GetValue(policyID)
	if found {
		if data, ok := d.(*policymodel.Policy); ok {
			return found, data
		}
	}
	return false, nil
}

// LookupPoliciesByNamespace performs lookup based on the secondary index
// namespace.
func (ci *ConfigIndex) LookupPoliciesByNamespace(namespace string) (policyIDs []string) {
	return ci.mapping.ListNames(namespaceKey, namespace)
}

// ListAll returns all registered policy IDs in the mapping.
func (ci *ConfigIndex) ListAll() (policyIDs []string) {
	return ci.mapping.ListAllNames()
}

// IndexFunction creates the namespace secondary index.
func IndexFunction(data interface{}) map[string][]string {
	res := map[string][]string{}
	if config, ok := data.(*policymodel.Policy); ok && config != nil {
		res[namespaceKey] = []string{config.Namespace}
	}
	return res
}
