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

package endpoints

import (
	"testing"

	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	. "github.com/onsi/gomega"

	podmodel "github.com/knetsim/netsim/model/pod"
	"github.com/knetsim/netsim/model/selector"
	svcmodel "github.com/knetsim/netsim/model/service"
)

func newReconciler() *Reconciler {
	logger := logrus.DefaultLogger()
	logger.SetLevel(logging.DebugLevel)
	return &Reconciler{Deps: Deps{Log: logger}}
}

func webService() *svcmodel.Service {
	return &svcmodel.Service{
		Name:      "websvc",
		Namespace: "default",
		Type:      svcmodel.ClusterIP,
		Selector: &selector.LabelSelector{
			MatchLabels: map[string]string{"app": "web"},
		},
		Ports: []*svcmodel.ServicePort{
			{Port: 80, TargetPort: 80, Protocol: podmodel.TCP},
		},
	}
}

func webPod(name, ip string) *podmodel.Pod {
	return &podmodel.Pod{
		Name:      name,
		Namespace: "default",
		Labels:    map[string]string{"app": "web"},
		Phase:     podmodel.Running,
		Ready:     true,
		IPAddress: ip,
		Ports: []*podmodel.ContainerPort{
			{Name: "http", Port: 80, Protocol: podmodel.TCP},
		},
	}
}

func TestReconcileMatchingPods(t *testing.T) {
	RegisterTestingT(t)
	reconciler := newReconciler()

	pods := []*podmodel.Pod{
		webPod("web1", "10.1.0.2"),
		webPod("web2", "10.1.0.3"),
	}
	eps, changed := reconciler.Reconcile(webService(), pods, nil)

	Expect(changed).To(BeTrue())
	Expect(eps.Backends).To(HaveLen(2))
	Expect(eps.Backends[0].IP).To(Equal("10.1.0.2"))
	Expect(eps.Backends[0].Port).To(Equal(uint16(80)))
	Expect(eps.Backends[0].TargetPod).To(Equal(podmodel.ID{Name: "web1", Namespace: "default"}))
	Expect(eps.Backends[1].IP).To(Equal("10.1.0.3"))
}

func TestReconcileSkipsNotRunningNotReady(t *testing.T) {
	RegisterTestingT(t)
	reconciler := newReconciler()

	pending := webPod("pending", "10.1.0.2")
	pending.Phase = podmodel.Pending
	notReady := webPod("notready", "10.1.0.3")
	notReady.Ready = false
	noIP := webPod("noip", "")
	otherLabels := webPod("other", "10.1.0.4")
	otherLabels.Labels = map[string]string{"app": "db"}

	eps, changed := reconciler.Reconcile(webService(),
		[]*podmodel.Pod{pending, notReady, noIP, otherLabels}, nil)

	// the empty set is still a newly derived endpoints object
	Expect(changed).To(BeTrue())
	Expect(eps.Backends).To(BeEmpty())

	_, changed = reconciler.Reconcile(webService(),
		[]*podmodel.Pod{pending, notReady, noIP, otherLabels}, eps)
	Expect(changed).To(BeFalse())
}

func TestReconcileNamedTargetPort(t *testing.T) {
	RegisterTestingT(t)
	reconciler := newReconciler()

	svc := webService()
	svc.Ports = []*svcmodel.ServicePort{
		{Name: "http", Port: 8080, TargetPortName: "http", Protocol: podmodel.TCP},
	}
	withPort := webPod("withport", "10.1.0.2")
	withoutPort := webPod("noport", "10.1.0.3")
	withoutPort.Ports = nil

	eps, changed := reconciler.Reconcile(svc,
		[]*podmodel.Pod{withPort, withoutPort}, nil)

	// the pod lacking the named port is silently excluded
	Expect(changed).To(BeTrue())
	Expect(eps.Backends).To(HaveLen(1))
	Expect(eps.Backends[0].IP).To(Equal("10.1.0.2"))
	Expect(eps.Backends[0].Port).To(Equal(uint16(80)))
	Expect(eps.Backends[0].PortName).To(Equal("http"))
}

func TestReconcileDeterministicOrder(t *testing.T) {
	RegisterTestingT(t)
	reconciler := newReconciler()

	pods := []*podmodel.Pod{
		webPod("b", "10.1.0.3"),
		webPod("a", "10.1.0.2"),
	}
	first, _ := reconciler.Reconcile(webService(), pods, nil)

	reversed := []*podmodel.Pod{pods[1], pods[0]}
	second, changed := reconciler.Reconcile(webService(), reversed, first)

	Expect(changed).To(BeFalse())
	Expect(EqualEndpoints(first, second)).To(BeTrue())
	Expect(first.Backends[0].IP).To(Equal("10.1.0.2"))
}

func TestReconcileUnchangedIsNotCounted(t *testing.T) {
	RegisterTestingT(t)
	reconciler := newReconciler()

	pods := []*podmodel.Pod{webPod("web1", "10.1.0.2")}
	eps, changed := reconciler.Reconcile(webService(), pods, nil)
	Expect(changed).To(BeTrue())

	_, changed = reconciler.Reconcile(webService(), pods, eps)
	Expect(changed).To(BeFalse())

	stats := reconciler.GetStats()
	Expect(stats.Runs).To(Equal(uint64(2)))
	Expect(stats.Changed).To(Equal(uint64(1)))
}

func TestReconcileSelectorlessAndExternalName(t *testing.T) {
	RegisterTestingT(t)
	reconciler := newReconciler()

	selectorless := webService()
	selectorless.Selector = nil
	eps, changed := reconciler.Reconcile(selectorless,
		[]*podmodel.Pod{webPod("web1", "10.1.0.2")}, nil)
	Expect(eps).To(BeNil())
	Expect(changed).To(BeFalse())

	external := webService()
	external.Type = svcmodel.ExternalName
	external.ExternalName = "db.example.com"
	eps, changed = reconciler.Reconcile(external,
		[]*podmodel.Pod{webPod("web1", "10.1.0.2")}, nil)
	Expect(eps).To(BeNil())
	Expect(changed).To(BeFalse())
}

func TestReconcileHeadlessService(t *testing.T) {
	RegisterTestingT(t)
	reconciler := newReconciler()

	headless := webService()
	headless.Type = svcmodel.Headless

	eps, changed := reconciler.Reconcile(headless,
		[]*podmodel.Pod{webPod("web1", "10.1.0.2")}, nil)
	Expect(changed).To(BeTrue())
	Expect(eps.Backends).To(HaveLen(1))
}
