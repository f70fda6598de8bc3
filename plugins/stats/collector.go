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

// Package stats collects per-resource mutation counters and reconciler
// counters into a Prometheus registry. The collector subscribes to the
// cluster cache as a watcher; every committed change moves a gauge.
package stats

import (
	"net/http"

	"github.com/ligato/cn-infra/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	epmodel "github.com/knetsim/netsim/model/endpoints"
	nsmodel "github.com/knetsim/netsim/model/namespace"
	podmodel "github.com/knetsim/netsim/model/pod"
	policymodel "github.com/knetsim/netsim/model/policy"
	svcmodel "github.com/knetsim/netsim/model/service"
	"github.com/knetsim/netsim/plugins/cache"
	"github.com/knetsim/netsim/plugins/endpoints"
)

// PrometheusStatsPath is where the gauges are exposed.
const PrometheusStatsPath = "/stats"

const (
	resourceLabel = "resource"

	addsMetric    = "netsim_adds"
	updatesMetric = "netsim_updates"
	deletesMetric = "netsim_deletes"
	objectsMetric = "netsim_objects"
	resyncsMetric = "netsim_resyncs"

	reconcilerRunsMetric    = "netsim_reconciler_runs"
	reconcilerChangedMetric = "netsim_reconciler_changed"
)

// Collector implements cache.ClusterCacheWatcher and feeds the mutation
// stream into Prometheus gauges.
type Collector struct {
	Deps

	registry *prometheus.Registry

	adds    *prometheus.GaugeVec
	updates *prometheus.GaugeVec
	deletes *prometheus.GaugeVec
	objects *prometheus.GaugeVec
	resyncs prometheus.Gauge
}

// Deps lists dependencies of the stats collector.
type Deps struct {
	Log        logging.Logger
	Reconciler *endpoints.Reconciler
}

// Init builds the registry and registers the gauges.
func (c *Collector) Init() error {
	c.registry = prometheus.NewRegistry()

	newVec := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: name,
			Help: help,
		}, []string{resourceLabel})
	}
	c.adds = newVec(addsMetric, "Number of object creations per resource")
	c.updates = newVec(updatesMetric, "Number of object updates per resource")
	c.deletes = newVec(deletesMetric, "Number of object deletions per resource")
	c.objects = newVec(objectsMetric, "Number of currently stored objects per resource")
	c.resyncs = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: resyncsMetric,
		Help: "Number of full state resyncs",
	})

	collectors := []prometheus.Collector{
		c.adds, c.updates, c.deletes, c.objects, c.resyncs,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: reconcilerRunsMetric,
			Help: "Number of endpoint reconciliation runs",
		}, func() float64 { return float64(c.Reconciler.GetStats().Runs) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: reconcilerChangedMetric,
			Help: "Number of endpoint reconciliation runs that changed the endpoints",
		}, func() float64 { return float64(c.Reconciler.GetStats().Changed) }),
	}
	for _, collector := range collectors {
		if err := c.registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// Handler returns the HTTP handler exposing the registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
		ErrorLog:      c.Log,
	})
}

// Resync resets the per-resource object gauges to the loaded state.
func (c *Collector) Resync(state *cache.ClusterState) error {
	c.resyncs.Inc()
	set := func(resource string, count int) {
		c.objects.With(prometheus.Labels{resourceLabel: resource}).Set(float64(count))
	}
	set(nsmodel.NamespaceKeyword, len(state.Namespaces))
	set(podmodel.PodKeyword, len(state.Pods))
	set(svcmodel.ServiceKeyword, len(state.Services))
	set(epmodel.EndpointsKeyword, len(state.Endpoints))
	set(policymodel.PolicyKeyword, len(state.Policies))
	return nil
}

// AddNamespace counts a namespace creation.
func (c *Collector) AddNamespace(ns *nsmodel.Namespace) error {
	return c.added(nsmodel.NamespaceKeyword)
}

// DelNamespace counts a namespace deletion.
func (c *Collector) DelNamespace(ns *nsmodel.Namespace) error {
	return c.deleted(nsmodel.NamespaceKeyword)
}

// UpdateNamespace counts a namespace update.
func (c *Collector) UpdateNamespace(oldNs, newNs *nsmodel.Namespace) error {
	return c.updated(nsmodel.NamespaceKeyword)
}

// AddPod counts a pod creation.
func (c *Collector) AddPod(pod *podmodel.Pod) error {
	return c.added(podmodel.PodKeyword)
}

// DelPod counts a pod deletion.
func (c *Collector) DelPod(pod *podmodel.Pod) error {
	return c.deleted(podmodel.PodKeyword)
}

// UpdatePod counts a pod update.
func (c *Collector) UpdatePod(oldPod, newPod *podmodel.Pod) error {
	return c.updated(podmodel.PodKeyword)
}

// AddService counts a service creation.
func (c *Collector) AddService(service *svcmodel.Service) error {
	return c.added(svcmodel.ServiceKeyword)
}

// DelService counts a service deletion.
func (c *Collector) DelService(service *svcmodel.Service) error {
	return c.deleted(svcmodel.ServiceKeyword)
}

// UpdateService counts a service update.
func (c *Collector) UpdateService(oldService, newService *svcmodel.Service) error {
	return c.updated(svcmodel.ServiceKeyword)
}

// AddEndpoints counts an endpoints creation, derived or authored.
func (c *Collector) AddEndpoints(eps *epmodel.Endpoints) error {
	return c.added(epmodel.EndpointsKeyword)
}

// DelEndpoints counts an endpoints deletion.
func (c *Collector) DelEndpoints(eps *epmodel.Endpoints) error {
	return c.deleted(epmodel.EndpointsKeyword)
}

// UpdateEndpoints counts an endpoints update.
func (c *Collector) UpdateEndpoints(oldEps, newEps *epmodel.Endpoints) error {
	return c.updated(epmodel.EndpointsKeyword)
}

// AddPolicy counts a policy creation.
func (c *Collector) AddPolicy(policy *policymodel.Policy) error {
	return c.added(policymodel.PolicyKeyword)
}

// DelPolicy counts a policy deletion.
func (c *Collector) DelPolicy(policy *policymodel.Policy) error {
	return c.deleted(policymodel.PolicyKeyword)
}

// UpdatePolicy counts a policy update.
func (c *Collector) UpdatePolicy(oldPolicy, newPolicy *policymodel.Policy) error {
	return c.updated(policymodel.PolicyKeyword)
}

func (c *Collector) added(resource string) error {
	c.adds.With(prometheus.Labels{resourceLabel: resource}).Inc()
	c.objects.With(prometheus.Labels{resourceLabel: resource}).Inc()
	return nil
}

func (c *Collector) updated(resource string) error {
	c.updates.With(prometheus.Labels{resourceLabel: resource}).Inc()
	return nil
}

func (c *Collector) deleted(resource string) error {
	c.deletes.With(prometheus.Labels{resourceLabel: resource}).Inc()
	c.objects.With(prometheus.Labels{resourceLabel: resource}).Dec()
	return nil
}
