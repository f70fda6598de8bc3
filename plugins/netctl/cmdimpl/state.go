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

// Package cmdimpl implements the netsimctl commands: each one loads a
// cluster-state YAML file into a fresh in-memory stack and runs a query
// against it.
package cmdimpl

import (
	"io/ioutil"

	"github.com/ghodss/yaml"
	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	"github.com/pkg/errors"

	"github.com/knetsim/netsim/plugins/cache"
	"github.com/knetsim/netsim/plugins/endpoints"
	"github.com/knetsim/netsim/plugins/ipam"
	"github.com/knetsim/netsim/plugins/policy"
	"github.com/knetsim/netsim/plugins/reachability"
)

// LoadState decodes a cluster-state YAML file.
func LoadState(path string) (*cache.ClusterState, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read state file %s", path)
	}
	state := &cache.ClusterState{}
	if err := yaml.Unmarshal(raw, state); err != nil {
		return nil, errors.Wrapf(err, "failed to decode state file %s", path)
	}
	return state, nil
}

// BuildStack assembles ipam, reconciler, cache, policy engine and query
// service around the given state.
func BuildStack(state *cache.ClusterState) (cache.ClusterCacheAPI,
	reachability.ReachabilityQueryAPI, error) {

	log := logrus.DefaultLogger()
	log.SetLevel(logging.WarnLevel)

	addressAllocator := &ipam.IPAM{Deps: ipam.Deps{Log: log}}
	if err := addressAllocator.Init(ipam.DefaultConfig()); err != nil {
		return nil, nil, err
	}
	reconciler := &endpoints.Reconciler{Deps: endpoints.Deps{Log: log}}
	clusterCache := &cache.ClusterCache{Deps: cache.Deps{
		Log:        log,
		PluginName: "netsimctl",
		IPAM:       addressAllocator,
		Reconciler: reconciler,
	}}
	if err := clusterCache.Init(); err != nil {
		return nil, nil, err
	}
	if err := clusterCache.Resync(state); err != nil {
		return nil, nil, err
	}

	engine := &policy.PolicyEngine{Deps: policy.Deps{Log: log, Cache: clusterCache}}
	query := &reachability.ReachabilityQuery{Deps: reachability.Deps{
		Log:    log,
		Cache:  clusterCache,
		Policy: engine,
	}}
	return clusterCache, query, nil
}
