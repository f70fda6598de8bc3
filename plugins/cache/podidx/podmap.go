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

package podidx

import (
	"github.com/ligato/cn-infra/idxmap"
	"github.com/ligato/cn-infra/idxmap/mem"
	"github.com/ligato/cn-infra/logging"

	podmodel "github.com/knetsim/netsim/model/pod"
)

const (
	namespaceKey       = "namespaceKey"
	nsLabelSelectorKey = "nsLabelSelectorKey"
	nsKeySelectorKey   = "nsKeySelectorKey"
)

// ConfigIndex implements a cache for configured pods. Primary index is the
// pod ID in the "namespace/name" form.
type ConfigIndex struct {
	mapping idxmap.NamedMappingRW
}

// NewConfigIndex creates new instance of ConfigIndex.
func NewConfigIndex(logger logging.Logger, title string) *ConfigIndex {
	return &ConfigIndex{mapping: mem.NewNamedMapping(logger, title, IndexFunction)}
}

// RegisterPod adds a new pod entry into the mapping.
func (ci *ConfigIndex) RegisterPod(podID string, data *podmodel.Pod) {
	ci.mapping.Put(podID, data)
}

// UnregisterPod removes a pod entry from the mapping.
func (ci *ConfigIndex) UnregisterPod(podID string) (found bool, data *podmodel.Pod) {
	d, found := ci.mapping.Delete(podID)
	if found {
		if data, ok := d.(*podmodel.Pod); ok {
			return found, data
		}
	}
	return false, nil
}

// LookupPod looks up an entry in the pod map given a pod ID.
func (ci *ConfigIndex) LookupPod(podID string) (found bool, data *podmodel.Pod) {
	d, found := ci.mapping.GetValue(podID)
	if found {
		if data, ok := d.(*podmodel.Pod); ok {
			return found, data
		}
	}
	return false, nil
}

// LookupPodsByNamespace performs lookup based on the secondary index
// namespace.
func (ci *ConfigIndex) LookupPodsByNamespace(namespace string) (podIDs []string) {
	return ci.mapping.ListNames(namespaceKey, namespace)
}

// LookupPodsByNSLabelSelector performs lookup based on the secondary index
// namespace/labelKey/labelValue.
func (ci *ConfigIndex) LookupPodsByNSLabelSelector(nsLabelSelector string) (podIDs []string) {
	return ci.mapping.ListNames(nsLabelSelectorKey, nsLabelSelector)
}

// LookupPodsByNSKey performs lookup based on the secondary index
// namespace/labelKey.
func (ci *ConfigIndex) LookupPodsByNSKey(nsKeySelector string) (podIDs []string) {
	return ci.mapping.ListNames(nsKeySelectorKey, nsKeySelector)
}

// ListAll returns all registered pod IDs in the mapping.
func (ci *ConfigIndex) ListAll() (podIDs []string) {
	return ci.mapping.ListAllNames()
}

// IndexFunction creates secondary indexes: pod namespace, per-label
// namespace/key/value selectors and namespace/key presence selectors.
func IndexFunction(data interface{}) map[string][]string {
	res := map[string][]string{}
	labels := []string{}
	keys := []string{}
	if config, ok := data.(*podmodel.Pod); ok && config != nil {
		for key, val := range config.Labels {
			labels = append(labels, config.Namespace+"/"+key+"/"+val)
			keys = append(keys, config.Namespace+"/"+key)
		}
		res[namespaceKey] = []string{config.Namespace}
		res[nsLabelSelectorKey] = labels
		res[nsKeySelectorKey] = keys
	}
	return res
}
