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

// Package selector implements label selectors - both the equality-based
// match labels and the set-based match expressions. A selector with no match
// labels and no match expressions matches every label set in its scope.
package selector

import "fmt"

// Operator of a set-based match expression.
type Operator string

const (
	// In matches label sets where the key is present and its value is one
	// of the supplied values.
	In Operator = "In"
	// NotIn matches label sets where the key is absent or its value is not
	// among the supplied values.
	NotIn Operator = "NotIn"
	// Exists matches label sets where the key is present, whatever the value.
	Exists Operator = "Exists"
	// DoesNotExist matches label sets where the key is absent.
	DoesNotExist Operator = "DoesNotExist"
)

// LabelSelector selects objects by their labels. MatchLabels and
// MatchExpressions are ANDed together.
type LabelSelector struct {
	MatchLabels      map[string]string `json:"matchLabels,omitempty"`
	MatchExpressions []*Expression     `json:"matchExpressions,omitempty"`
}

// Expression is a single set-based requirement against one label key.
type Expression struct {
	Key      string   `json:"key"`
	Operator Operator `json:"operator"`
	Values   []string `json:"values,omitempty"`
}

// GetMatchLabels returns the equality-based requirements, nil-safe.
func (s *LabelSelector) GetMatchLabels() map[string]string {
	if s == nil {
		return nil
	}
	return s.MatchLabels
}

// GetMatchExpressions returns the set-based requirements, nil-safe.
func (s *LabelSelector) GetMatchExpressions() []*Expression {
	if s == nil {
		return nil
	}
	return s.MatchExpressions
}

// IsEmpty returns true if the selector has neither match labels nor match
// expressions, i.e. it matches everything in its scope.
func (s *LabelSelector) IsEmpty() bool {
	return s == nil || (len(s.MatchLabels) == 0 && len(s.MatchExpressions) == 0)
}

// Matches evaluates the selector against a label set. It is pure and total:
// malformed selectors are rejected at admission time, never here.
func (s *LabelSelector) Matches(labels map[string]string) bool {
	if s.IsEmpty() {
		return true
	}
	for key, val := range s.MatchLabels {
		if labels[key] != val {
			return false
		}
	}
	for _, expr := range s.MatchExpressions {
		if !expr.Matches(labels) {
			return false
		}
	}
	return true
}

// Matches evaluates a single match expression against a label set.
func (e *Expression) Matches(labels map[string]string) bool {
	val, exists := labels[e.Key]
	switch e.Operator {
	case In:
		if !exists {
			return false
		}
		return containsValue(e.Values, val)
	case NotIn:
		if !exists {
			return true
		}
		return !containsValue(e.Values, val)
	case Exists:
		return exists
	case DoesNotExist:
		return !exists
	}
	// Unknown operators never pass admission.
	return false
}

// Validate checks the selector for rules that cannot be evaluated.
// Called by the cluster cache during object admission.
func (s *LabelSelector) Validate() error {
	if s == nil {
		return nil
	}
	for _, expr := range s.MatchExpressions {
		if expr.Key == "" {
			return fmt.Errorf("match expression with an empty key")
		}
		switch expr.Operator {
		case In, NotIn:
			if len(expr.Values) == 0 {
				return fmt.Errorf("match expression %s[%s] requires a non-empty value set",
					expr.Operator, expr.Key)
			}
		case Exists, DoesNotExist:
			// value set is ignored
		default:
			return fmt.Errorf("unknown match expression operator %q", expr.Operator)
		}
	}
	return nil
}

// Copy returns a deep copy of the selector.
func (s *LabelSelector) Copy() *LabelSelector {
	if s == nil {
		return nil
	}
	c := &LabelSelector{}
	if s.MatchLabels != nil {
		c.MatchLabels = make(map[string]string, len(s.MatchLabels))
		for k, v := range s.MatchLabels {
			c.MatchLabels[k] = v
		}
	}
	for _, expr := range s.MatchExpressions {
		exprCopy := &Expression{Key: expr.Key, Operator: expr.Operator}
		exprCopy.Values = append(exprCopy.Values, expr.Values...)
		c.MatchExpressions = append(c.MatchExpressions, exprCopy)
	}
	return c
}

func containsValue(values []string, val string) bool {
	for _, v := range values {
		if v == val {
			return true
		}
	}
	return false
}
