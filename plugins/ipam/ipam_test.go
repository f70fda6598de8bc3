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

package ipam

import (
	"fmt"
	"testing"

	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	. "github.com/onsi/gomega"

	podmodel "github.com/knetsim/netsim/model/pod"
	svcmodel "github.com/knetsim/netsim/model/service"
)

func newIPAM(config *Config) *IPAM {
	logger := logrus.DefaultLogger()
	logger.SetLevel(logging.DebugLevel)
	allocator := &IPAM{Deps: Deps{Log: logger}}
	Expect(allocator.Init(config)).To(Succeed())
	return allocator
}

func TestPodIPStability(t *testing.T) {
	RegisterTestingT(t)
	allocator := newIPAM(nil)

	pod := podmodel.ID{Name: "web1", Namespace: "default"}
	first, err := allocator.AllocatePodIP(pod)
	Expect(err).To(BeNil())
	Expect(allocator.PodSubnet().Contains(first)).To(BeTrue())

	// repeated allocation returns the same address
	second, err := allocator.AllocatePodIP(pod)
	Expect(err).To(BeNil())
	Expect(second.Equal(first)).To(BeTrue())
}

func TestPodIPNoReuseWhileAllocated(t *testing.T) {
	RegisterTestingT(t)
	allocator := newIPAM(nil)

	first, err := allocator.AllocatePodIP(podmodel.ID{Name: "web1", Namespace: "default"})
	Expect(err).To(BeNil())
	second, err := allocator.AllocatePodIP(podmodel.ID{Name: "web2", Namespace: "default"})
	Expect(err).To(BeNil())
	Expect(second.Equal(first)).To(BeFalse())
}

func TestPodIPReleasedAfterDelete(t *testing.T) {
	RegisterTestingT(t)
	allocator := newIPAM(&Config{
		PodSubnetCIDR: "10.1.0.0/30", // one usable address besides the gateway
		ServiceCIDR:   "10.96.0.0/12",
	})

	pod1 := podmodel.ID{Name: "web1", Namespace: "default"}
	ip, err := allocator.AllocatePodIP(pod1)
	Expect(err).To(BeNil())

	_, err = allocator.AllocatePodIP(podmodel.ID{Name: "web2", Namespace: "default"})
	Expect(err).ToNot(BeNil())

	Expect(allocator.ReleasePodIP(pod1)).To(Succeed())
	reused, err := allocator.AllocatePodIP(podmodel.ID{Name: "web2", Namespace: "default"})
	Expect(err).To(BeNil())
	Expect(reused.Equal(ip)).To(BeTrue())
}

func TestPodSubnetExhaustion(t *testing.T) {
	RegisterTestingT(t)
	allocator := newIPAM(&Config{
		PodSubnetCIDR: "10.1.0.0/29", // 5 usable addresses besides the gateway
		ServiceCIDR:   "10.96.0.0/12",
	})

	for i := 0; i < 5; i++ {
		_, err := allocator.AllocatePodIP(podmodel.ID{
			Name: fmt.Sprintf("pod%d", i), Namespace: "default"})
		Expect(err).To(BeNil())
	}
	_, err := allocator.AllocatePodIP(podmodel.ID{Name: "one-too-many", Namespace: "default"})
	Expect(err).ToNot(BeNil())
}

func TestClusterIPAllocation(t *testing.T) {
	RegisterTestingT(t)
	allocator := newIPAM(nil)

	svc := svcmodel.ID{Name: "websvc", Namespace: "default"}
	first, err := allocator.AllocateClusterIP(svc)
	Expect(err).To(BeNil())
	Expect(allocator.ServiceCIDR().Contains(first)).To(BeTrue())

	second, err := allocator.AllocateClusterIP(svc)
	Expect(err).To(BeNil())
	Expect(second.Equal(first)).To(BeTrue())

	Expect(allocator.ReleaseClusterIP(svc)).To(Succeed())
}

func TestInvalidConfigRejected(t *testing.T) {
	RegisterTestingT(t)
	logger := logrus.DefaultLogger()
	allocator := &IPAM{Deps: Deps{Log: logger}}
	Expect(allocator.Init(&Config{
		PodSubnetCIDR: "not-a-cidr",
		ServiceCIDR:   "10.96.0.0/12",
	})).ToNot(Succeed())
}
