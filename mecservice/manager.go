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
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"rnis-manager/datastore"
	"rnis-manager/models"
	"rnis-manager/scheduler"
	"rnis-manager/util"
)

// Kind is the subscription type tag, e.g. MeasRepUeSubscription
type Kind string

// Instance is a running subscription
type Instance interface {
	// Record - Snapshot of the subscription state
	Record() *datastore.Record

	// Tick - Advance the subscription once
	Tick(ctx context.Context) error
}

// Env is handed to the subscription factories
type Env struct {
	Store      datastore.DataStore
	Controller util.RestClient
}

// Factory builds the instance of one subscription kind, invalid parameters are rejected here
type Factory func(rec *datastore.Record, env Env) (Instance, error)

// Scheduler drives the periodic jobs
type Scheduler interface {
	Add(name string, every time.Duration, task scheduler.Task) error
	Remove(name string)
}

type Options struct {
	ServiceId         string
	Name              string
	Registry          string
	Every             time.Duration
	SubscriptionEvery time.Duration
	Params            map[string]interface{}
	Describer         Describer
	Kinds             map[Kind]Factory
	Store             datastore.DataStore
	Client            util.RestClient
	Env               Env
	Scheduler         Scheduler
}

// ServiceView is the json representation of the service
type ServiceView struct {
	ServiceId  string                   `json:"service_id"`
	Name       string                   `json:"name"`
	Params     map[string]interface{}   `json:"params"`
	MecService models.ServiceDescriptor `json:"mec_service"`
}

// Manager is the mec service: registration plus the subscriptions it serves
type Manager struct {
	opts      Options
	registrar *Registrar

	mu        sync.Mutex
	instances map[string]Instance
}

func NewManager(opts Options) *Manager {
	if opts.Every <= 0 {
		opts.Every = util.DefaultEvery
	}
	if opts.SubscriptionEvery <= 0 {
		opts.SubscriptionEvery = util.DefaultSubscriptionEvery
	}
	return &Manager{
		opts:      opts,
		registrar: NewRegistrar(opts.Registry, opts.ServiceId, opts.Client, opts.Describer),
		instances: make(map[string]Instance),
	}
}

// Start restores the stored subscriptions and schedules the registration
func (m *Manager) Start() error {
	if err := m.Restore(); err != nil {
		return err
	}
	if m.opts.Scheduler == nil {
		return nil
	}
	return m.opts.Scheduler.Add(m.jobName(), m.opts.Every, m.registrar.Tick)
}

// Stop unschedules every job, the stored subscriptions are kept for the next start
func (m *Manager) Stop() {
	if m.opts.Scheduler == nil {
		return
	}
	m.opts.Scheduler.Remove(m.jobName())
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.instances {
		m.opts.Scheduler.Remove(subscriptionJobName(id))
	}
}

// Destroy stops the service and removes all its subscriptions
func (m *Manager) Destroy() error {
	m.Stop()
	return m.RemoveSubscription("")
}

// ServiceId returns the mec service instance id
func (m *Manager) ServiceId() string {
	return m.opts.ServiceId
}

// State returns the registration state
func (m *Manager) State() string {
	return m.registrar.State()
}

// Register runs one registration attempt
func (m *Manager) Register() error {
	return m.registrar.Register()
}

// MecService returns the descriptor of the concrete service
func (m *Manager) MecService() models.ServiceDescriptor {
	return m.registrar.Descriptor()
}

// ToDict merges the base service fields with the mec service descriptor
func (m *Manager) ToDict() ServiceView {
	params := make(map[string]interface{}, len(m.opts.Params)+2)
	for k, v := range m.opts.Params {
		params[k] = v
	}
	params["registry"] = m.opts.Registry
	params["every"] = m.opts.Every.Milliseconds()
	return ServiceView{
		ServiceId:  m.opts.ServiceId,
		Name:       m.opts.Name,
		Params:     params,
		MecService: m.MecService(),
	}
}

// Kinds returns the subscription types served
func (m *Manager) Kinds() []Kind {
	kinds := make([]Kind, 0, len(m.opts.Kinds))
	for kind := range m.opts.Kinds {
		kinds = append(kinds, kind)
	}
	return kinds
}

func (m *Manager) href() string {
	return strings.TrimRight(m.MecService().SerCategory.Href, "/")
}

func (m *Manager) jobName() string {
	return "service/" + m.opts.ServiceId
}

func subscriptionJobName(id string) string {
	return "subscription/" + id
}

func (m *Manager) schedule(id string, inst Instance, every time.Duration) {
	if m.opts.Scheduler == nil {
		return
	}
	err := m.opts.Scheduler.Add(subscriptionJobName(id), every, func(ctx context.Context) {
		if err := inst.Tick(ctx); err != nil {
			log.WithFields(log.Fields{
				"subscription": id,
			}).Errorf("Subscription tick failed(%s).", err.Error())
		}
	})
	if err != nil {
		log.Errorf("Failed to schedule subscription %s(%s).", id, err.Error())
	}
}
