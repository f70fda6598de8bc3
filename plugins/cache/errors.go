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

package cache

import (
	"fmt"

	"github.com/pkg/errors"
)

// NotFoundError is returned by Delete and lookup-style operations that
// reference an absent (kind, namespace, name).
type NotFoundError struct {
	Kind      string
	Namespace string
	Name      string
}

func (e *NotFoundError) Error() string {
	if e.Namespace == "" {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Namespace+"/"+e.Name)
}

// NewNotFound constructs a NotFoundError.
func NewNotFound(kind, namespace, name string) error {
	return &NotFoundError{Kind: kind, Namespace: namespace, Name: name}
}

// IsNotFound tells whether the (possibly wrapped) error is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// InvalidObjectError is an admission-time validation failure. The object was
// rejected before any state mutation; the cache content is unchanged.
type InvalidObjectError struct {
	Kind      string
	Namespace string
	Name      string
	Reason    string
}

func (e *InvalidObjectError) Error() string {
	id := e.Name
	if e.Namespace != "" {
		id = e.Namespace + "/" + e.Name
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, id, e.Reason)
}

// NewInvalidObject constructs an InvalidObjectError.
func NewInvalidObject(kind, namespace, name, reason string) error {
	return &InvalidObjectError{Kind: kind, Namespace: namespace, Name: name, Reason: reason}
}

// IsInvalidObject tells whether the (possibly wrapped) error is an
// InvalidObjectError.
func IsInvalidObject(err error) bool {
	_, ok := errors.Cause(err).(*InvalidObjectError)
	return ok
}
