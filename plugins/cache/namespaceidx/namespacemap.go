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

package namespaceidx

import (
	"github.com/ligato/cn-infra/idxmap"
	"github.com/ligato/cn-infra/idxmap/mem"
	"github.com/ligato/cn-infra/logging"

	namespacemodel "github.com/knetsim/netsim/model/namespace"
)

const (
	labelSelectorKey = "labelSelectorKey"
	keySelectorKey   = "keySelectorKey"
)

// ConfigIndex implements a cache for configured namespaces. Primary index
// is the namespace name.
type ConfigIndex struct {
	mapping idxmap.NamedMappingRW
}

// NewConfigIndex creates new instance of ConfigIndex.
func NewConfigIndex(logger logging.Logger, title string) *ConfigIndex {
	return &ConfigIndex{mapping: mem.NewNamedMapping(logger, title, IndexFunction)}
}

// RegisterNamespace adds a new namespace entry into the mapping.
func (ci *ConfigIndex) RegisterNamespace(namespaceID string, data *namespacemodel.Namespace) {
	ci.mapping.Put(namespaceID, data)
}

// UnregisterNamespace removes a namespace entry from the mapping.
func (ci *ConfigIndex) UnregisterNamespace(namespaceID string) (found bool, data *namespacemodel.Namespace) {
	d, found := ci.mapping.Delete(namespaceID)
	if found {
		if data, ok := d.(*namespacemodel.Namespace); ok {
			return found, data
		}
	}
	return false, nil
}

// LookupNamespace looks up a namespace entry given its name.
func (ci *ConfigIndex) LookupNamespace(namespaceID string) (found bool, data *namespacemodel.Namespace) {
	d, found := ci.mapping.GetValue(namespaceID)
	if found {
		if data, ok := d.(*namespacemodel.Namespace); ok {
			return found, data
		}
	}
	return false, nil
}

// LookupNamespacesByLabelSelector performs lookup based on the secondary
// index labelKey/labelValue.
func (ci *ConfigIndex) LookupNamespacesByLabelSelector(labelSelector string) (namespaceIDs []string) {
	return ci.mapping.ListNames(labelSelectorKey, labelSelector)
}

// LookupNamespacesByKey performs lookup based on the secondary index
// labelKey.
func (ci *ConfigIndex) LookupNamespacesByKey(keySelector string) (namespaceIDs []string) {
	return ci.mapping.ListNames(keySelectorKey, keySelector)
}

// ListAll returns all registered namespaces in the mapping.
func (ci *ConfigIndex) ListAll() (namespaceIDs []string) {
	return ci.mapping.ListAllNames()
}

// IndexFunction creates secondary indexes: per-label key/value selectors
// and label key presence selectors.
func IndexFunction(data interface{}) map[string][]string {
	res := map[string][]string{}
	labels := []string{}
	keys := []string{}
	if config, ok := data.(*namespacemodel.Namespace); ok && config != nil {
		for key, val := range config.Labels {
			labels = append(labels, key+"/"+val)
			keys = append(keys, key)
		}
		res[labelSelectorKey] = labels
		res[keySelectorKey] = keys
	}
	return res
}
