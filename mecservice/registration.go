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

// Package mecservice implements the mec service registration and its subscriptions
package mecservice

import (
	"context"
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"

	"rnis-manager/models"
	"rnis-manager/util"
)

// Describer is implemented by every concrete mec service to advertise itself
type Describer interface {
	Describe(serviceId string, state string) models.ServiceDescriptor
}

// Registrar keeps the service registered, the registration is asserted again on every tick
type Registrar struct {
	registry  string
	serviceId string
	client    util.RestClient
	describer Describer

	mu    sync.RWMutex
	state string
}

func NewRegistrar(registry string, serviceId string, client util.RestClient, describer Describer) *Registrar {
	return &Registrar{
		registry:  registry,
		serviceId: serviceId,
		client:    client,
		describer: describer,
		state:     util.StateUnregistered,
	}
}

// State returns UNREGISTERED or REGISTERED
func (r *Registrar) State() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Descriptor builds the descriptor from the current state
func (r *Registrar) Descriptor() models.ServiceDescriptor {
	return r.describer.Describe(r.serviceId, r.State())
}

// Register posts the descriptor to the registry, only a 201 answer counts as registered
func (r *Registrar) Register() error {
	url := r.registry + "/" + r.serviceId
	resp, err := r.client.Post(url, r.Descriptor())
	if err != nil {
		r.setState(util.StateUnregistered)
		return err
	}
	log.Infof("Sending periodic keep-alive, response %d.", resp.Code)
	if err = util.ExpectStatus(url, resp, http.StatusCreated); err != nil {
		r.setState(util.StateUnregistered)
		return err
	}
	r.setState(util.StateRegistered)
	return nil
}

// Tick is the periodic job, failures are logged and retried on the next tick
func (r *Registrar) Tick(ctx context.Context) {
	if err := r.Register(); err != nil {
		log.WithFields(log.Fields{
			"service": r.serviceId,
			"url":     r.registry,
		}).Errorf("Unable to register mec service(%s).", err.Error())
	}
}

func (r *Registrar) setState(state string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
}
