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

package policy

import (
	"testing"

	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	. "github.com/onsi/gomega"

	nsmodel "github.com/knetsim/netsim/model/namespace"
	podmodel "github.com/knetsim/netsim/model/pod"
	policymodel "github.com/knetsim/netsim/model/policy"
	"github.com/knetsim/netsim/model/selector"
	"github.com/knetsim/netsim/plugins/cache"
	"github.com/knetsim/netsim/plugins/endpoints"
	"github.com/knetsim/netsim/plugins/ipam"
)

func newTestEngine() (*PolicyEngine, cache.ClusterCacheAPI) {
	logger := logrus.DefaultLogger()
	logger.SetLevel(logging.DebugLevel)

	allocator := &ipam.IPAM{Deps: ipam.Deps{Log: logger}}
	Expect(allocator.Init(nil)).To(Succeed())
	reconciler := &endpoints.Reconciler{Deps: endpoints.Deps{Log: logger}}
	clusterCache := &cache.ClusterCache{Deps: cache.Deps{
		Log:        logger,
		PluginName: "engine-test",
		IPAM:       allocator,
		Reconciler: reconciler,
	}}
	Expect(clusterCache.Init()).To(Succeed())

	engine := &PolicyEngine{Deps: Deps{Log: logger, Cache: clusterCache}}
	Expect(engine.Init()).To(Succeed())
	return engine, clusterCache
}

func addPod(cc cache.ClusterCacheAPI, name, namespace string, labels map[string]string) podmodel.ID {
	Expect(cc.PutPod(&podmodel.Pod{
		Name:      name,
		Namespace: namespace,
		Labels:    labels,
		Phase:     podmodel.Running,
		Ready:     true,
	})).To(Succeed())
	return podmodel.ID{Name: name, Namespace: namespace}
}

func TestDefaultOpen(t *testing.T) {
	RegisterTestingT(t)
	engine, cc := newTestEngine()

	client := addPod(cc, "client", "default", map[string]string{"role": "frontend"})
	db := addPod(cc, "db", "default", map[string]string{"app": "db"})

	verdict := engine.Evaluate(PodPeer(client), PodPeer(db), 5432, podmodel.TCP)
	Expect(verdict.Allowed).To(BeTrue())
	Expect(verdict.IngressAllowed).To(BeTrue())
	Expect(verdict.EgressAllowed).To(BeTrue())
	Expect(verdict.IngressPolicies).To(BeEmpty())
}

func TestDefaultDenyWhenSelectedWithNoRules(t *testing.T) {
	RegisterTestingT(t)
	engine, cc := newTestEngine()

	client := addPod(cc, "client", "default", map[string]string{"role": "frontend"})
	db := addPod(cc, "db", "default", map[string]string{"app": "db"})

	Expect(cc.PutPolicy(&policymodel.Policy{
		Name: "isolate-db", Namespace: "default",
		PodSelector: &selector.LabelSelector{MatchLabels: map[string]string{"app": "db"}},
		PolicyTypes: []policymodel.PolicyType{policymodel.PolicyIngress},
	})).To(Succeed())

	verdict := engine.Evaluate(PodPeer(client), PodPeer(db), 5432, podmodel.TCP)
	Expect(verdict.Allowed).To(BeFalse())
	Expect(verdict.IngressAllowed).To(BeFalse())
	Expect(verdict.EgressAllowed).To(BeTrue())
	Expect(verdict.IngressPolicies).To(HaveLen(1))

	// the isolated pod can still talk out - directions are independent
	reverse := engine.Evaluate(PodPeer(db), PodPeer(client), 8080, podmodel.TCP)
	Expect(reverse.Allowed).To(BeTrue())
}

func TestEmptyPeerListAllowsAll(t *testing.T) {
	RegisterTestingT(t)
	engine, cc := newTestEngine()

	client := addPod(cc, "client", "default", nil)
	db := addPod(cc, "db", "default", map[string]string{"app": "db"})

	Expect(cc.PutPolicy(&policymodel.Policy{
		Name: "allow-all-in", Namespace: "default",
		PodSelector: &selector.LabelSelector{MatchLabels: map[string]string{"app": "db"}},
		PolicyTypes: []policymodel.PolicyType{policymodel.PolicyIngress},
		Ingress:     []*policymodel.IngressRule{{}},
	})).To(Succeed())

	verdict := engine.Evaluate(PodPeer(client), PodPeer(db), 5432, podmodel.TCP)
	Expect(verdict.Allowed).To(BeTrue())
}

func TestPodSelectorPeer(t *testing.T) {
	RegisterTestingT(t)
	engine, cc := newTestEngine()

	frontend := addPod(cc, "client", "default", map[string]string{"role": "frontend"})
	other := addPod(cc, "other", "default", nil)
	db := addPod(cc, "db", "default", map[string]string{"app": "db"})

	Expect(cc.PutPolicy(&policymodel.Policy{
		Name: "db-from-frontend", Namespace: "default",
		PodSelector: &selector.LabelSelector{MatchLabels: map[string]string{"app": "db"}},
		PolicyTypes: []policymodel.PolicyType{policymodel.PolicyIngress},
		Ingress: []*policymodel.IngressRule{{
			From: []*policymodel.Peer{{
				Pods: &selector.LabelSelector{MatchLabels: map[string]string{"role": "frontend"}},
			}},
			Ports: []*policymodel.Port{{Port: 5432, Protocol: podmodel.TCP}},
		}},
	})).To(Succeed())

	Expect(engine.Evaluate(PodPeer(frontend), PodPeer(db), 5432, podmodel.TCP).Allowed).To(BeTrue())
	Expect(engine.Evaluate(PodPeer(other), PodPeer(db), 5432, podmodel.TCP).Allowed).To(BeFalse())
	// port outside the rule's list
	Expect(engine.Evaluate(PodPeer(frontend), PodPeer(db), 5433, podmodel.TCP).Allowed).To(BeFalse())
	// protocol mismatch
	Expect(engine.Evaluate(PodPeer(frontend), PodPeer(db), 5432, podmodel.UDP).Allowed).To(BeFalse())
}

func TestNamespaceSelectorPeer(t *testing.T) {
	RegisterTestingT(t)
	engine, cc := newTestEngine()

	Expect(cc.PutNamespace(&nsmodel.Namespace{
		Name: "prod-ns", Labels: map[string]string{"env": "prod"}})).To(Succeed())
	Expect(cc.PutNamespace(&nsmodel.Namespace{
		Name: "staging-ns", Labels: map[string]string{"env": "staging"}})).To(Succeed())
	Expect(cc.PutNamespace(&nsmodel.Namespace{Name: "app"})).To(Succeed())

	prodClient := addPod(cc, "client", "prod-ns", map[string]string{"role": "frontend"})
	stagingClient := addPod(cc, "client", "staging-ns", map[string]string{"role": "frontend"})
	db := addPod(cc, "db", "app", map[string]string{"app": "db"})

	Expect(cc.PutPolicy(&policymodel.Policy{
		Name: "db-from-prod", Namespace: "app",
		PodSelector: &selector.LabelSelector{MatchLabels: map[string]string{"app": "db"}},
		PolicyTypes: []policymodel.PolicyType{policymodel.PolicyIngress},
		Ingress: []*policymodel.IngressRule{{
			From: []*policymodel.Peer{{
				Namespaces: &selector.LabelSelector{MatchLabels: map[string]string{"env": "prod"}},
				Pods:       &selector.LabelSelector{MatchLabels: map[string]string{"role": "frontend"}},
			}},
		}},
	})).To(Succeed())

	Expect(engine.Evaluate(PodPeer(prodClient), PodPeer(db), 5432, podmodel.TCP).Allowed).To(BeTrue())
	// matching pod selector is not enough - the namespace selector fails first
	Expect(engine.Evaluate(PodPeer(stagingClient), PodPeer(db), 5432, podmodel.TCP).Allowed).To(BeFalse())
}

func TestPodSelectorScopedToPolicyNamespace(t *testing.T) {
	RegisterTestingT(t)
	engine, cc := newTestEngine()

	sameNs := addPod(cc, "client", "app", map[string]string{"role": "frontend"})
	otherNs := addPod(cc, "client", "elsewhere", map[string]string{"role": "frontend"})
	db := addPod(cc, "db", "app", map[string]string{"app": "db"})

	Expect(cc.PutPolicy(&policymodel.Policy{
		Name: "db-from-frontend", Namespace: "app",
		PodSelector: &selector.LabelSelector{MatchLabels: map[string]string{"app": "db"}},
		PolicyTypes: []policymodel.PolicyType{policymodel.PolicyIngress},
		Ingress: []*policymodel.IngressRule{{
			From: []*policymodel.Peer{{
				Pods: &selector.LabelSelector{MatchLabels: map[string]string{"role": "frontend"}},
			}},
		}},
	})).To(Succeed())

	Expect(engine.Evaluate(PodPeer(sameNs), PodPeer(db), 5432, podmodel.TCP).Allowed).To(BeTrue())
	// without a namespace selector the peer pod selector never crosses namespaces
	Expect(engine.Evaluate(PodPeer(otherNs), PodPeer(db), 5432, podmodel.TCP).Allowed).To(BeFalse())
}

func TestIPBlockPeer(t *testing.T) {
	RegisterTestingT(t)
	engine, cc := newTestEngine()

	db := addPod(cc, "db", "default", map[string]string{"app": "db"})

	Expect(cc.PutPolicy(&policymodel.Policy{
		Name: "db-from-block", Namespace: "default",
		PodSelector: &selector.LabelSelector{MatchLabels: map[string]string{"app": "db"}},
		PolicyTypes: []policymodel.PolicyType{policymodel.PolicyIngress},
		Ingress: []*policymodel.IngressRule{{
			From: []*policymodel.Peer{{
				IPBlock: &policymodel.IPBlock{
					CIDR:   "192.168.0.0/16",
					Except: []string{"192.168.13.0/24"},
				},
			}},
		}},
	})).To(Succeed())

	Expect(engine.Evaluate(IPPeer("192.168.1.10"), PodPeer(db), 5432, podmodel.TCP).Allowed).To(BeTrue())
	// inside an except CIDR
	Expect(engine.Evaluate(IPPeer("192.168.13.7"), PodPeer(db), 5432, podmodel.TCP).Allowed).To(BeFalse())
	// outside the block
	Expect(engine.Evaluate(IPPeer("10.0.0.1"), PodPeer(db), 5432, podmodel.TCP).Allowed).To(BeFalse())
}

func TestEgressIsolation(t *testing.T) {
	RegisterTestingT(t)
	engine, cc := newTestEngine()

	client := addPod(cc, "client", "default", map[string]string{"role": "frontend"})
	db := addPod(cc, "db", "default", map[string]string{"app": "db"})
	web := addPod(cc, "web", "default", map[string]string{"app": "web"})

	Expect(cc.PutPolicy(&policymodel.Policy{
		Name: "frontend-to-db-only", Namespace: "default",
		PodSelector: &selector.LabelSelector{MatchLabels: map[string]string{"role": "frontend"}},
		PolicyTypes: []policymodel.PolicyType{policymodel.PolicyEgress},
		Egress: []*policymodel.EgressRule{{
			To: []*policymodel.Peer{{
				Pods: &selector.LabelSelector{MatchLabels: map[string]string{"app": "db"}},
			}},
		}},
	})).To(Succeed())

	Expect(engine.Evaluate(PodPeer(client), PodPeer(db), 5432, podmodel.TCP).Allowed).To(BeTrue())
	Expect(engine.Evaluate(PodPeer(client), PodPeer(web), 80, podmodel.TCP).Allowed).To(BeFalse())
	// pods not selected by the egress policy stay open
	Expect(engine.Evaluate(PodPeer(web), PodPeer(db), 5432, podmodel.TCP).Allowed).To(BeTrue())
}

func TestAnyPortOfProtocol(t *testing.T) {
	RegisterTestingT(t)
	engine, cc := newTestEngine()

	client := addPod(cc, "client", "default", nil)
	db := addPod(cc, "db", "default", map[string]string{"app": "db"})

	Expect(cc.PutPolicy(&policymodel.Policy{
		Name: "db-udp-any", Namespace: "default",
		PodSelector: &selector.LabelSelector{MatchLabels: map[string]string{"app": "db"}},
		PolicyTypes: []policymodel.PolicyType{policymodel.PolicyIngress},
		Ingress: []*policymodel.IngressRule{{
			Ports: []*policymodel.Port{{Protocol: podmodel.UDP}},
		}},
	})).To(Succeed())

	Expect(engine.Evaluate(PodPeer(client), PodPeer(db), 53, podmodel.UDP).Allowed).To(BeTrue())
	Expect(engine.Evaluate(PodPeer(client), PodPeer(db), 53, podmodel.TCP).Allowed).To(BeFalse())
}
