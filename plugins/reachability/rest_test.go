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

package reachability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/ligato/cn-infra/logging/logrus"
	. "github.com/onsi/gomega"

	epmodel "github.com/knetsim/netsim/model/endpoints"
	"github.com/knetsim/netsim/plugins/cache"
)

func newTestRouter() (*mux.Router, cache.ClusterCacheAPI) {
	query, cc := newTestQuery()
	router := mux.NewRouter()
	NewRestAPI(logrus.DefaultLogger(), cc, query).RegisterHandlers(router)
	return router, cc
}

func TestRestCanReach(t *testing.T) {
	RegisterTestingT(t)
	router, cc := newTestRouter()

	addPod(cc, "client", nil)
	addPod(cc, "db", map[string]string{"app": "db"})
	addService(cc, "dbsvc", map[string]string{"app": "db"}, 5432, 5432)

	req := httptest.NewRequest(http.MethodGet,
		"/netsim/v1/canreach?src=default/client&service=default/dbsvc&port=5432&protocol=TCP", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	Expect(resp.Code).To(Equal(http.StatusOK))
	result := &Result{}
	Expect(json.Unmarshal(resp.Body.Bytes(), result)).To(Succeed())
	Expect(result.Allowed).To(BeTrue())
}

func TestRestCanReachBadRequest(t *testing.T) {
	RegisterTestingT(t)
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet,
		"/netsim/v1/canreach?src=garbage&service=default/dbsvc&port=80", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	Expect(resp.Code).To(Equal(http.StatusBadRequest))
}

func TestRestCanReachNotFound(t *testing.T) {
	RegisterTestingT(t)
	router, cc := newTestRouter()

	addPod(cc, "client", nil)

	req := httptest.NewRequest(http.MethodGet,
		"/netsim/v1/canreach?src=default/client&service=default/ghost&port=80", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	Expect(resp.Code).To(Equal(http.StatusNotFound))
}

func TestRestEndpoints(t *testing.T) {
	RegisterTestingT(t)
	router, cc := newTestRouter()

	addPod(cc, "db", map[string]string{"app": "db"})
	addService(cc, "dbsvc", map[string]string{"app": "db"}, 5432, 5432)

	req := httptest.NewRequest(http.MethodGet, "/netsim/v1/endpoints/default/dbsvc", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	Expect(resp.Code).To(Equal(http.StatusOK))
	Expect(resp.Body.String()).To(ContainSubstring("targetPod"))
}

func TestRestStateRoundTrip(t *testing.T) {
	RegisterTestingT(t)
	router, cc := newTestRouter()

	addPod(cc, "db", map[string]string{"app": "db"})
	addService(cc, "dbsvc", map[string]string{"app": "db"}, 5432, 5432)

	dump := httptest.NewRecorder()
	router.ServeHTTP(dump, httptest.NewRequest(http.MethodGet, "/netsim/v1/state", nil))
	Expect(dump.Code).To(Equal(http.StatusOK))

	fresh, freshCache := newTestRouter()
	load := httptest.NewRecorder()
	fresh.ServeHTTP(load, httptest.NewRequest(http.MethodPost, "/netsim/v1/state",
		strings.NewReader(dump.Body.String())))
	Expect(load.Code).To(Equal(http.StatusOK))

	found, eps := freshCache.LookupEndpoints(
		epmodel.ID{Name: "dbsvc", Namespace: "default"})
	Expect(found).To(BeTrue())
	Expect(eps.Backends).To(HaveLen(1))
}

func TestRestMatrix(t *testing.T) {
	RegisterTestingT(t)
	router, cc := newTestRouter()

	addPod(cc, "a", nil)
	addPod(cc, "b", nil)

	req := httptest.NewRequest(http.MethodGet,
		"/netsim/v1/matrix?namespace=default&port=80&protocol=TCP", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	Expect(resp.Code).To(Equal(http.StatusOK))
	matrix := &Matrix{}
	Expect(json.Unmarshal(resp.Body.Bytes(), matrix)).To(Succeed())
	Expect(matrix.Pods).To(HaveLen(2))
	Expect(matrix.Pairs).To(HaveLen(2))
	for _, pair := range matrix.Pairs {
		Expect(pair.Allowed).To(BeTrue())
	}
}
