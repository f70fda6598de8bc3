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
	"net"

	nsmodel "github.com/knetsim/netsim/model/namespace"
	podmodel "github.com/knetsim/netsim/model/pod"
	policymodel "github.com/knetsim/netsim/model/policy"
)

// ipBlockMatches tells whether the address falls inside the block's CIDR and
// outside all of its exceptions. Malformed CIDRs never pass admission, so a
// parse failure here simply yields no match.
func ipBlockMatches(block *policymodel.IPBlock, address string) bool {
	ip := net.ParseIP(address)
	if ip == nil {
		return false
	}
	_, cidr, err := net.ParseCIDR(block.CIDR)
	if err != nil || !cidr.Contains(ip) {
		return false
	}
	for _, except := range block.Except {
		_, exceptCidr, err := net.ParseCIDR(except)
		if err == nil && exceptCidr.Contains(ip) {
			return false
		}
	}
	return true
}

// portMatches tells whether the rule's port list admits (port, protocol).
// An empty list admits all ports; an entry with port 0 admits any port of
// its protocol.
func portMatches(rulePorts []*policymodel.Port, port uint16,
	protocol podmodel.Protocol) bool {

	if len(rulePorts) == 0 {
		return true
	}
	for _, rulePort := range rulePorts {
		ruleProto := rulePort.Protocol
		if ruleProto == "" {
			ruleProto = podmodel.TCP
		}
		if ruleProto != protocol {
			continue
		}
		if rulePort.Port == 0 || rulePort.Port == port {
			return true
		}
	}
	return false
}

func nsID(name string) nsmodel.ID {
	return nsmodel.ID(name)
}
