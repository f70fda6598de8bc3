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

// Package ipam implements simulated IP address management for the pod fleet
// and the service virtual IPs. Addresses are handed out sequentially from
// the configured subnets; an address returns to the pool only after its
// owner is deleted, so a live object keeps its IP for its whole lifetime.
package ipam

import (
	"net"
	"sync"

	"github.com/apparentlymart/go-cidr/cidr"
	"github.com/go-errors/errors"
	"github.com/ligato/cn-infra/logging"

	podmodel "github.com/knetsim/netsim/model/pod"
	svcmodel "github.com/knetsim/netsim/model/service"
)

const (
	// sequence ID reserved for the gateway in the pod subnet (never assigned
	// to any pod).
	podGatewaySeqID = 1

	// sequence ID reserved in the service range (mirrors the convention of
	// keeping the first address for the API itself).
	serviceReservedSeqID = 1
)

// API defines the address-allocation operations needed by the cluster cache.
type API interface {
	// AllocatePodIP returns the IP assigned to the pod, allocating a fresh
	// one on the first call for a given pod.
	AllocatePodIP(pod podmodel.ID) (net.IP, error)

	// ReleasePodIP returns the pod's IP to the pool. Releasing a pod
	// without an allocation is a no-op.
	ReleasePodIP(pod podmodel.ID) error

	// AllocateClusterIP returns the virtual IP assigned to the service,
	// allocating a fresh one on the first call for a given service.
	AllocateClusterIP(service svcmodel.ID) (net.IP, error)

	// ReleaseClusterIP returns the service's virtual IP to the pool.
	ReleaseClusterIP(service svcmodel.ID) error
}

// IPAM plugin implements simulated IP address allocation.
type IPAM struct {
	Deps

	mutex sync.Mutex

	podSubnet   *net.IPNet
	serviceCIDR *net.IPNet

	// pool of assigned pod IP addresses
	assignedPodIPs map[string]podmodel.ID
	// pod -> allocated IP address
	podToIP map[podmodel.ID]net.IP
	// counter denoting the last assigned pod sequence number
	lastPodSeqAssigned int

	assignedClusterIPs map[string]svcmodel.ID
	svcToIP            map[svcmodel.ID]net.IP
	lastSvcSeqAssigned int
}

// Deps lists dependencies of the IPAM plugin.
type Deps struct {
	Log logging.Logger
}

// Config holds the subnets the allocator hands addresses from.
type Config struct {
	// PodSubnetCIDR is the subnet used for allocating pod IPs.
	PodSubnetCIDR string `json:"podSubnetCidr"`

	// ServiceCIDR is the subnet used to allocate ClusterIPs for services.
	ServiceCIDR string `json:"serviceCidr"`
}

// DefaultConfig returns the configuration used when the host supplies none.
func DefaultConfig() *Config {
	return &Config{
		PodSubnetCIDR: "10.1.0.0/16",
		ServiceCIDR:   "10.96.0.0/12",
	}
}

// Init parses the configured subnets and prepares the allocation pools.
func (i *IPAM) Init(config *Config) error {
	if config == nil {
		config = DefaultConfig()
	}
	_, podSubnet, err := net.ParseCIDR(config.PodSubnetCIDR)
	if err != nil {
		return errors.Errorf("invalid pod subnet %q: %v", config.PodSubnetCIDR, err)
	}
	_, serviceCIDR, err := net.ParseCIDR(config.ServiceCIDR)
	if err != nil {
		return errors.Errorf("invalid service CIDR %q: %v", config.ServiceCIDR, err)
	}

	i.podSubnet = podSubnet
	i.serviceCIDR = serviceCIDR
	i.assignedPodIPs = make(map[string]podmodel.ID)
	i.podToIP = make(map[podmodel.ID]net.IP)
	i.lastPodSeqAssigned = podGatewaySeqID
	i.assignedClusterIPs = make(map[string]svcmodel.ID)
	i.svcToIP = make(map[svcmodel.ID]net.IP)
	i.lastSvcSeqAssigned = serviceReservedSeqID
	return nil
}

// PodSubnet returns the subnet pod IPs are allocated from.
func (i *IPAM) PodSubnet() *net.IPNet {
	return i.podSubnet
}

// ServiceCIDR returns the subnet ClusterIPs are allocated from.
func (i *IPAM) ServiceCIDR() *net.IPNet {
	return i.serviceCIDR
}

// AllocatePodIP returns the IP assigned to the pod, allocating a fresh one
// on the first call for a given pod.
func (i *IPAM) AllocatePodIP(pod podmodel.ID) (net.IP, error) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	if ip, allocated := i.podToIP[pod]; allocated {
		return ip, nil
	}

	ip, seq, err := i.allocate(i.podSubnet, i.lastPodSeqAssigned, podGatewaySeqID,
		func(ip string) bool { _, taken := i.assignedPodIPs[ip]; return taken })
	if err != nil {
		return nil, errors.Errorf("pod subnet %v exhausted", i.podSubnet)
	}
	i.lastPodSeqAssigned = seq
	i.assignedPodIPs[ip.String()] = pod
	i.podToIP[pod] = ip
	i.Log.WithFields(logging.Fields{
		"pod": pod,
		"ip":  ip,
	}).Debug("Allocated pod IP")
	return ip, nil
}

// ReleasePodIP returns the pod's IP to the pool.
func (i *IPAM) ReleasePodIP(pod podmodel.ID) error {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	ip, allocated := i.podToIP[pod]
	if !allocated {
		return nil
	}
	delete(i.assignedPodIPs, ip.String())
	delete(i.podToIP, pod)
	i.Log.WithFields(logging.Fields{
		"pod": pod,
		"ip":  ip,
	}).Debug("Released pod IP")
	return nil
}

// AllocateClusterIP returns the virtual IP assigned to the service,
// allocating a fresh one on the first call for a given service.
func (i *IPAM) AllocateClusterIP(service svcmodel.ID) (net.IP, error) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	if ip, allocated := i.svcToIP[service]; allocated {
		return ip, nil
	}

	ip, seq, err := i.allocate(i.serviceCIDR, i.lastSvcSeqAssigned, serviceReservedSeqID,
		func(ip string) bool { _, taken := i.assignedClusterIPs[ip]; return taken })
	if err != nil {
		return nil, errors.Errorf("service CIDR %v exhausted", i.serviceCIDR)
	}
	i.lastSvcSeqAssigned = seq
	i.assignedClusterIPs[ip.String()] = service
	i.svcToIP[service] = ip
	i.Log.WithFields(logging.Fields{
		"service": service,
		"ip":      ip,
	}).Debug("Allocated cluster IP")
	return ip, nil
}

// ReleaseClusterIP returns the service's virtual IP to the pool.
func (i *IPAM) ReleaseClusterIP(service svcmodel.ID) error {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	ip, allocated := i.svcToIP[service]
	if !allocated {
		return nil
	}
	delete(i.assignedClusterIPs, ip.String())
	delete(i.svcToIP, service)
	return nil
}

// allocate searches for a free sequence number in the subnet, starting just
// past the last assigned one and wrapping around. Reserved sequence IDs are
// skipped.
func (i *IPAM) allocate(subnet *net.IPNet, lastSeq int, reservedSeq int,
	taken func(ip string) bool) (net.IP, int, error) {

	ones, bits := subnet.Mask.Size()
	// exclude the network and broadcast addresses
	maxSeq := (1 << uint(bits-ones)) - 2

	for offset := 1; offset <= maxSeq; offset++ {
		seq := (lastSeq+offset-1)%maxSeq + 1
		if seq == reservedSeq {
			continue
		}
		ip, err := cidr.Host(subnet, seq)
		if err != nil {
			continue
		}
		if !taken(ip.String()) {
			return ip, seq, nil
		}
	}
	return nil, 0, errors.New("no free addresses left")
}
