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
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/ligato/cn-infra/logging"
	"github.com/unrolled/render"

	epmodel "github.com/knetsim/netsim/model/endpoints"
	podmodel "github.com/knetsim/netsim/model/pod"
	svcmodel "github.com/knetsim/netsim/model/service"
	"github.com/knetsim/netsim/plugins/cache"
)

// REST API of the simulator.
const (
	restPrefix = "/netsim/v1"

	// RestURLCanReach answers a CanReach query:
	// GET /netsim/v1/canreach?src=<ns/name>&service=<ns/name>&port=<n>&protocol=<TCP|UDP>
	RestURLCanReach = restPrefix + "/canreach"

	// RestURLMatrix answers a Matrix query:
	// GET /netsim/v1/matrix?namespace=<ns>&port=<n>&protocol=<TCP|UDP>
	RestURLMatrix = restPrefix + "/matrix"

	// RestURLEndpoints dumps the current endpoints of one service:
	// GET /netsim/v1/endpoints/{namespace}/{name}
	RestURLEndpoints = restPrefix + "/endpoints/{namespace}/{name}"

	// RestURLState dumps (GET) or replaces (POST) the full cluster state.
	RestURLState = restPrefix + "/state"
)

// RestAPI exposes the query service and the cluster state over HTTP.
type RestAPI struct {
	Log       logging.Logger
	Cache     cache.ClusterCacheAPI
	Query     ReachabilityQueryAPI
	formatter *render.Render
}

// NewRestAPI creates the REST handler set.
func NewRestAPI(log logging.Logger, cc cache.ClusterCacheAPI,
	query ReachabilityQueryAPI) *RestAPI {
	return &RestAPI{
		Log:       log,
		Cache:     cc,
		Query:     query,
		formatter: render.New(render.Options{IndentJSON: true}),
	}
}

// RegisterHandlers wires the REST URLs into the router.
func (ra *RestAPI) RegisterHandlers(router *mux.Router) {
	router.HandleFunc(RestURLCanReach, ra.canReachHandler).Methods(http.MethodGet)
	router.HandleFunc(RestURLMatrix, ra.matrixHandler).Methods(http.MethodGet)
	router.HandleFunc(RestURLEndpoints, ra.endpointsHandler).Methods(http.MethodGet)
	router.HandleFunc(RestURLState, ra.stateDumpHandler).Methods(http.MethodGet)
	router.HandleFunc(RestURLState, ra.stateLoadHandler).Methods(http.MethodPost)
}

func (ra *RestAPI) canReachHandler(w http.ResponseWriter, req *http.Request) {
	src, err := parseRef(req.URL.Query().Get("src"))
	if err != nil {
		ra.badRequest(w, "query parameter src: "+err.Error())
		return
	}
	service, err := parseRef(req.URL.Query().Get("service"))
	if err != nil {
		ra.badRequest(w, "query parameter service: "+err.Error())
		return
	}
	port, protocol, err := parsePortProtocol(req)
	if err != nil {
		ra.badRequest(w, err.Error())
		return
	}

	result, err := ra.Query.CanReach(
		podmodel.ID{Namespace: src[0], Name: src[1]},
		svcmodel.ID{Namespace: service[0], Name: service[1]},
		port, protocol)
	if err != nil {
		ra.queryError(w, err)
		return
	}
	ra.formatter.JSON(w, http.StatusOK, result)
}

func (ra *RestAPI) matrixHandler(w http.ResponseWriter, req *http.Request) {
	port, protocol, err := parsePortProtocol(req)
	if err != nil {
		ra.badRequest(w, err.Error())
		return
	}
	matrix, err := ra.Query.Matrix(req.Context(),
		req.URL.Query().Get("namespace"), port, protocol)
	if err != nil {
		ra.queryError(w, err)
		return
	}
	ra.formatter.JSON(w, http.StatusOK, matrix)
}

func (ra *RestAPI) endpointsHandler(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	epsID := epmodel.ID{Namespace: vars["namespace"], Name: vars["name"]}
	found, eps := ra.Cache.LookupEndpoints(epsID)
	if !found {
		ra.formatter.JSON(w, http.StatusNotFound,
			errorResponse{Error: cache.NewNotFound(epmodel.EndpointsKeyword,
				epsID.Namespace, epsID.Name).Error()})
		return
	}
	ra.formatter.JSON(w, http.StatusOK, eps)
}

func (ra *RestAPI) stateDumpHandler(w http.ResponseWriter, req *http.Request) {
	ra.formatter.JSON(w, http.StatusOK, ra.Cache.Export())
}

func (ra *RestAPI) stateLoadHandler(w http.ResponseWriter, req *http.Request) {
	state := &cache.ClusterState{}
	if err := json.NewDecoder(req.Body).Decode(state); err != nil {
		ra.badRequest(w, "unparsable state: "+err.Error())
		return
	}
	if err := ra.Cache.Resync(state); err != nil {
		ra.queryError(w, err)
		return
	}
	ra.formatter.JSON(w, http.StatusOK, ra.Cache.Export())
}

func (ra *RestAPI) badRequest(w http.ResponseWriter, msg string) {
	ra.formatter.JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func (ra *RestAPI) queryError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if cache.IsNotFound(err) {
		status = http.StatusNotFound
	} else if cache.IsInvalidObject(err) {
		status = http.StatusBadRequest
	}
	ra.formatter.JSON(w, status, errorResponse{Error: err.Error()})
}

type errorResponse struct {
	Error string `json:"error"`
}

// parseRef parses a "namespace/name" object reference.
func parseRef(ref string) ([2]string, error) {
	parts := strings.SplitN(ref, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return [2]string{}, fmt.Errorf("expected <namespace>/<name>, got %q", ref)
	}
	return [2]string{parts[0], parts[1]}, nil
}

func parsePortProtocol(req *http.Request) (uint16, podmodel.Protocol, error) {
	port, err := strconv.ParseUint(req.URL.Query().Get("port"), 10, 16)
	if err != nil {
		return 0, "", fmt.Errorf("unparsable query parameter port %q",
			req.URL.Query().Get("port"))
	}
	protocol := podmodel.Protocol(req.URL.Query().Get("protocol"))
	switch protocol {
	case "", podmodel.TCP, podmodel.UDP:
	default:
		return 0, "", fmt.Errorf("unknown protocol %q", protocol)
	}
	return uint16(port), protocol, nil
}
