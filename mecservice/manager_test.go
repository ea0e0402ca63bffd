/*
 * Copyright 2021 Huawei Technologies Co., Ltd.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mecservice

import (
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rnis-manager/datastore"
	"rnis-manager/models"
	"rnis-manager/scheduler"
	"rnis-manager/util"
)

const (
	serviceId    = "svc-1"
	servicesPath = "/api/v1/services"
	fakeKind     = "FakeSubscription"
	subId1       = "sub-1"
	subId2       = "sub-2"
	fakeBody     = `{"subscriptionType":"FakeSubscription","callbackReference":"http://127.0.0.1:9000/notify"}`
)

type fakeDescriber struct{}

func (fakeDescriber) Describe(serviceId string, state string) models.ServiceDescriptor {
	return models.ServiceDescriptor{
		SerInstanceId: serviceId,
		SerName:       "Fake Service",
		SerCategory:   models.CategoryRef{Href: "/fake/v1/", ID: "fake", Name: "Fake Service", Version: "1.0"},
		Version:       util.ApiVersion,
		State:         state,
		Serializer:    "JSON",
	}
}

type fakeInstance struct {
	mu    sync.Mutex
	rec   *datastore.Record
	ticks int
}

func (f *fakeInstance) Record() *datastore.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rec.Clone()
}

func (f *fakeInstance) Tick(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks++
	return nil
}

func fakeFactory(rec *datastore.Record, env Env) (Instance, error) {
	var wrapper struct {
		Subscription map[string]interface{} `json:"subscription"`
	}
	if err := json.Unmarshal(rec.Params, &wrapper); err != nil {
		return nil, err
	}
	if _, ok := wrapper.Subscription["reject"]; ok {
		return nil, &util.UnsupportedSubjectKindError{Kind: "MSISDN"}
	}
	return &fakeInstance{rec: rec}, nil
}

type fakeScheduler struct {
	mu   sync.Mutex
	jobs map[string]time.Duration
}

func (s *fakeScheduler) Add(name string, every time.Duration, task scheduler.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.jobs == nil {
		s.jobs = make(map[string]time.Duration)
	}
	s.jobs[name] = every
	return nil
}

func (s *fakeScheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, name)
}

func (s *fakeScheduler) has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[name]
	return ok
}

func newTestManager(t *testing.T, registry string, client util.RestClient) (*Manager, *datastore.MemoryDB, *fakeScheduler) {
	store := &datastore.MemoryDB{}
	assert.Nil(t, store.Open())
	sched := &fakeScheduler{}
	if client == nil {
		client = util.NewHttpClient("", "")
	}
	m := NewManager(Options{
		ServiceId: serviceId,
		Name:      "fakemanager",
		Registry:  registry,
		Describer: fakeDescriber{},
		Kinds:     map[Kind]Factory{fakeKind: fakeFactory},
		Store:     store,
		Client:    client,
		Env:       Env{Store: store, Controller: client},
		Scheduler: sched,
		Params:    map[string]interface{}{"ctrl_host": "127.0.0.1"},
	})
	return m, store, sched
}

func TestRegistrationStateMachine(t *testing.T) {
	var mu sync.Mutex
	var states []string
	var paths []string
	status := http.StatusCreated
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := ioutil.ReadAll(r.Body)
		var desc models.ServiceDescriptor
		_ = json.Unmarshal(body, &desc)
		mu.Lock()
		states = append(states, desc.State)
		paths = append(paths, r.URL.Path)
		code := status
		mu.Unlock()
		w.WriteHeader(code)
	}))
	defer server.Close()

	m, _, _ := newTestManager(t, server.URL+servicesPath, nil)
	assert.Equal(t, util.StateUnregistered, m.State())

	t.Run("RegisteredOn201", func(t *testing.T) {
		assert.Nil(t, m.Register())
		assert.Equal(t, util.StateRegistered, m.State())

		assert.Nil(t, m.Register())
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{util.StateUnregistered, util.StateRegistered}, states)
		assert.Equal(t, servicesPath+"/"+serviceId, paths[0])
	})

	t.Run("UnregisteredOnOtherStatus", func(t *testing.T) {
		mu.Lock()
		status = http.StatusOK
		mu.Unlock()
		err := m.Register()
		var rejected *util.RemoteRejectedError
		assert.True(t, errors.As(err, &rejected))
		assert.Equal(t, util.StateUnregistered, m.State())
	})

	t.Run("TickSwallowsErrors", func(t *testing.T) {
		mu.Lock()
		status = http.StatusInternalServerError
		mu.Unlock()
		m.registrar.Tick(context.Background())
		assert.Equal(t, util.StateUnregistered, m.State())
	})
}

func TestRegistrationTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	registry := server.URL + servicesPath

	m, _, _ := newTestManager(t, registry, nil)
	assert.Nil(t, m.Register())
	assert.Equal(t, util.StateRegistered, m.State())

	server.Close()
	err := m.Register()
	var unavailable *util.RemoteUnavailableError
	assert.True(t, errors.As(err, &unavailable))
	assert.Equal(t, util.StateUnregistered, m.State())
}

func TestServiceFacade(t *testing.T) {
	m, _, sched := newTestManager(t, "http://127.0.0.1:8887"+servicesPath, nil)

	view := m.ToDict()
	assert.Equal(t, serviceId, view.ServiceId)
	assert.Equal(t, "fakemanager", view.Name)
	assert.Equal(t, "127.0.0.1", view.Params["ctrl_host"])
	assert.Equal(t, "http://127.0.0.1:8887"+servicesPath, view.Params["registry"])
	assert.Equal(t, serviceId, view.MecService.SerInstanceId)
	assert.Equal(t, util.StateUnregistered, view.MecService.State)
	assert.Equal(t, []Kind{fakeKind}, m.Kinds())

	assert.Nil(t, m.Start())
	assert.True(t, sched.has("service/"+serviceId))
	m.Stop()
	assert.False(t, sched.has("service/"+serviceId))
}
