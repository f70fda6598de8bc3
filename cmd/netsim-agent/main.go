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

// netsim-agent hosts the cluster simulator behind a REST API: it assembles
// ipam, the cluster cache, the policy engine, the reachability query service
// and the stats collector, optionally loads an initial cluster state, and
// serves the query endpoints together with /stats.
package main

import (
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/ghodss/yaml"
	"github.com/gorilla/mux"
	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	"github.com/namsral/flag"

	"github.com/knetsim/netsim/plugins/cache"
	"github.com/knetsim/netsim/plugins/endpoints"
	"github.com/knetsim/netsim/plugins/ipam"
	"github.com/knetsim/netsim/plugins/policy"
	"github.com/knetsim/netsim/plugins/reachability"
	"github.com/knetsim/netsim/plugins/stats"
)

var (
	httpPort    = flag.Int("http-port", 9500, "port of the REST API")
	stateFile   = flag.String("state", "", "initial cluster state YAML file")
	podCIDR     = flag.String("pod-cidr", "10.1.0.0/16", "subnet for pod IPs")
	serviceCIDR = flag.String("service-cidr", "10.96.0.0/12", "subnet for service cluster IPs")
	logLevel    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	log := logrus.DefaultLogger()
	log.SetLevel(parseLogLevel(*logLevel))

	addressAllocator := &ipam.IPAM{Deps: ipam.Deps{Log: log}}
	if err := addressAllocator.Init(&ipam.Config{
		PodSubnetCIDR: *podCIDR,
		ServiceCIDR:   *serviceCIDR,
	}); err != nil {
		log.Fatal(err)
	}

	reconciler := &endpoints.Reconciler{Deps: endpoints.Deps{Log: log}}
	clusterCache := &cache.ClusterCache{Deps: cache.Deps{
		Log:        log,
		PluginName: "netsim-agent",
		IPAM:       addressAllocator,
		Reconciler: reconciler,
	}}
	if err := clusterCache.Init(); err != nil {
		log.Fatal(err)
	}

	collector := &stats.Collector{Deps: stats.Deps{Log: log, Reconciler: reconciler}}
	if err := collector.Init(); err != nil {
		log.Fatal(err)
	}
	clusterCache.Watch(collector)

	if *stateFile != "" {
		state, err := loadState(*stateFile)
		if err != nil {
			log.Fatal(err)
		}
		if err := clusterCache.Resync(state); err != nil {
			log.Fatal(err)
		}
		log.WithField("state", *stateFile).Info("Loaded initial cluster state")
	}

	engine := &policy.PolicyEngine{Deps: policy.Deps{Log: log, Cache: clusterCache}}
	query := &reachability.ReachabilityQuery{Deps: reachability.Deps{
		Log:    log,
		Cache:  clusterCache,
		Policy: engine,
	}}

	router := mux.NewRouter()
	reachability.NewRestAPI(log, clusterCache, query).RegisterHandlers(router)
	router.Handle(stats.PrometheusStatsPath, collector.Handler())

	addr := fmt.Sprintf(":%d", *httpPort)
	log.WithField("addr", addr).Info("Serving the simulator REST API")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal(err)
	}
}

func loadState(path string) (*cache.ClusterState, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	state := &cache.ClusterState{}
	if err := yaml.Unmarshal(raw, state); err != nil {
		return nil, err
	}
	return state, nil
}

func parseLogLevel(level string) logging.LogLevel {
	switch level {
	case "debug":
		return logging.DebugLevel
	case "warn":
		return logging.WarnLevel
	case "error":
		return logging.ErrorLevel
	default:
		return logging.InfoLevel
	}
}
