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

package svcidx

import (
	"github.com/ligato/cn-infra/idxmap"
	"github.com/ligato/cn-infra/idxmap/mem"
	"github.com/ligato/cn-infra/logging"

	svcmodel "github.com/knetsim/netsim/model/service"
)

const namespaceKey = "namespaceKey"

// ConfigIndex implements a cache for configured services. Primary index is
// the service ID in the "namespace/name" form.
type ConfigIndex struct {
	mapping idxmap.NamedMappingRW
}

// NewConfigIndex creates new instance of ConfigIndex.
func NewConfigIndex(logger logging.Logger, title string) *ConfigIndex {
	return &ConfigIndex{mapping: mem.NewNamedMapping(logger, title, IndexFunction)}
}

// RegisterService adds a new service entry into the mapping.
func (ci *ConfigIndex) RegisterService(svcID string, data *svcmodel.Service) {
	ci.mapping.Put(svcID, data)
}

// UnregisterService removes a service entry from the mapping.
func (ci *ConfigIndex) UnregisterService(svcID string) (found bool, data *svcmodel.Service) {
	d, found := ci.mapping.Delete(svcID)
	if found {
		if data, ok := d.(*svcmodel.Service); ok {
			return found, data
		}
	}
	return false, nil
}

// LookupService looks up a service entry given a service ID.
func (ci *ConfigIndex) LookupService(svcID string) (found bool, data *svcmodel.Service) {
	d, found := ci.mapping.GetValue(svcID)
	if found {
		if data, ok := d.(*svcmodel.Service); ok {
			return found, data
		}
	}
	return false, nil
}

// LookupServicesByNamespace performs lookup based on the secondary index
// namespace.
func (ci *ConfigIndex) LookupServicesByNamespace(namespace string) (svcIDs []string) {
	return ci.mapping.ListNames(namespaceKey, namespace)
}

// ListAll returns all registered service IDs in the mapping.
func (ci *ConfigIndex) ListAll() (svcIDs []string) {
	return ci.mapping.ListAllNames()
}

// IndexFunction creates the namespace secondary index.
func IndexFunction(data interface{}) map[string][]string {
	res := map[string][]string{}
	if config, ok := data.(*svcmodel.Service); ok && config != nil {
		res[namespaceKey] = []string{config.Namespace}
	}
	return res
}
