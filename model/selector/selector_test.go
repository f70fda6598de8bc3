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

package selector

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestEmptySelectorMatchesEverything(t *testing.T) {
	RegisterTestingT(t)

	var nilSelector *LabelSelector
	Expect(nilSelector.IsEmpty()).To(BeTrue())
	Expect(nilSelector.Matches(map[string]string{"app": "db"})).To(BeTrue())

	empty := &LabelSelector{}
	Expect(empty.IsEmpty()).To(BeTrue())
	Expect(empty.Matches(nil)).To(BeTrue())
	Expect(empty.Matches(map[string]string{"app": "db"})).To(BeTrue())
}

func TestMatchLabels(t *testing.T) {
	RegisterTestingT(t)

	sel := &LabelSelector{MatchLabels: map[string]string{"app": "db", "tier": "backend"}}
	Expect(sel.Matches(map[string]string{"app": "db", "tier": "backend"})).To(BeTrue())
	Expect(sel.Matches(map[string]string{"app": "db", "tier": "backend", "extra": "x"})).To(BeTrue())
	Expect(sel.Matches(map[string]string{"app": "db"})).To(BeFalse())
	Expect(sel.Matches(map[string]string{"app": "web", "tier": "backend"})).To(BeFalse())
	Expect(sel.Matches(nil)).To(BeFalse())
}

func TestMatchExpressionIn(t *testing.T) {
	RegisterTestingT(t)

	sel := &LabelSelector{MatchExpressions: []*Expression{
		{Key: "env", Operator: In, Values: []string{"prod", "staging"}},
	}}
	Expect(sel.Matches(map[string]string{"env": "prod"})).To(BeTrue())
	Expect(sel.Matches(map[string]string{"env": "staging"})).To(BeTrue())
	Expect(sel.Matches(map[string]string{"env": "dev"})).To(BeFalse())
	// In requires the key to exist
	Expect(sel.Matches(map[string]string{"other": "prod"})).To(BeFalse())
}

func TestMatchExpressionNotIn(t *testing.T) {
	RegisterTestingT(t)

	sel := &LabelSelector{MatchExpressions: []*Expression{
		{Key: "env", Operator: NotIn, Values: []string{"prod"}},
	}}
	Expect(sel.Matches(map[string]string{"env": "dev"})).To(BeTrue())
	Expect(sel.Matches(map[string]string{"env": "prod"})).To(BeFalse())
	// NotIn passes when the key is absent
	Expect(sel.Matches(map[string]string{})).To(BeTrue())
}

func TestMatchExpressionExists(t *testing.T) {
	RegisterTestingT(t)

	exists := &LabelSelector{MatchExpressions: []*Expression{
		{Key: "env", Operator: Exists},
	}}
	Expect(exists.Matches(map[string]string{"env": "whatever"})).To(BeTrue())
	Expect(exists.Matches(map[string]string{"other": "x"})).To(BeFalse())

	doesNot := &LabelSelector{MatchExpressions: []*Expression{
		{Key: "env", Operator: DoesNotExist},
	}}
	Expect(doesNot.Matches(map[string]string{"other": "x"})).To(BeTrue())
	Expect(doesNot.Matches(map[string]string{"env": "prod"})).To(BeFalse())
}

func TestLabelsAndExpressionsAreANDed(t *testing.T) {
	RegisterTestingT(t)

	sel := &LabelSelector{
		MatchLabels: map[string]string{"app": "db"},
		MatchExpressions: []*Expression{
			{Key: "env", Operator: In, Values: []string{"prod"}},
		},
	}
	Expect(sel.Matches(map[string]string{"app": "db", "env": "prod"})).To(BeTrue())
	Expect(sel.Matches(map[string]string{"app": "db", "env": "dev"})).To(BeFalse())
	Expect(sel.Matches(map[string]string{"app": "web", "env": "prod"})).To(BeFalse())
}

func TestValidate(t *testing.T) {
	RegisterTestingT(t)

	Expect((&LabelSelector{MatchExpressions: []*Expression{
		{Key: "", Operator: Exists},
	}}).Validate()).ToNot(Succeed())

	Expect((&LabelSelector{MatchExpressions: []*Expression{
		{Key: "env", Operator: In},
	}}).Validate()).ToNot(Succeed())

	Expect((&LabelSelector{MatchExpressions: []*Expression{
		{Key: "env", Operator: "Near"},
	}}).Validate()).ToNot(Succeed())

	Expect((&LabelSelector{MatchExpressions: []*Expression{
		{Key: "env", Operator: DoesNotExist},
	}}).Validate()).To(Succeed())

	var nilSelector *LabelSelector
	Expect(nilSelector.Validate()).To(Succeed())
}

func TestCopyIsDeep(t *testing.T) {
	RegisterTestingT(t)

	orig := &LabelSelector{
		MatchLabels: map[string]string{"app": "db"},
		MatchExpressions: []*Expression{
			{Key: "env", Operator: In, Values: []string{"prod"}},
		},
	}
	clone := orig.Copy()
	clone.MatchLabels["app"] = "web"
	clone.MatchExpressions[0].Values[0] = "dev"

	Expect(orig.MatchLabels["app"]).To(Equal("db"))
	Expect(orig.MatchExpressions[0].Values[0]).To(Equal("prod"))
}
