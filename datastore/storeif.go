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

// Package datastore keeps the subscriptions of the rnis manager
package datastore

import (
	"encoding/json"
	"errors"
	"time"
)

// Callback is a delivery target registered on a subscription
type Callback struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

// Record is the persisted state of one subscription
type Record struct {
	SubscriptionId    string              `json:"subscriptionId"`
	SubscriptionType  string              `json:"subscriptionType"`
	Params            json.RawMessage     `json:"params"`
	CallbackReference string              `json:"callbackReference,omitempty"`
	Every             time.Duration       `json:"every"`
	TenantId          string              `json:"tenantId,omitempty"`
	WorkerId          string              `json:"workerId,omitempty"`
	Callbacks         map[string]Callback `json:"callbacks,omitempty"`
}

// SetTenant assigns the resolved tenant, a worker started under another tenant is forgotten
func (r *Record) SetTenant(tenantId string) {
	if tenantId != r.TenantId {
		r.WorkerId = ""
	}
	r.TenantId = tenantId
}

// SetWorker assigns the started worker, the tenant must be resolved first
func (r *Record) SetWorker(workerId string) error {
	if len(workerId) != 0 && len(r.TenantId) == 0 {
		return errors.New("worker can not be set before the tenant")
	}
	r.WorkerId = workerId
	return nil
}

// AddCallback registers a delivery callback under the given name
func (r *Record) AddCallback(name string, callback Callback) {
	if r.Callbacks == nil {
		r.Callbacks = make(map[string]Callback)
	}
	r.Callbacks[name] = callback
}

// Clone returns a deep copy
func (r *Record) Clone() *Record {
	c := *r
	if r.Params != nil {
		c.Params = append(json.RawMessage(nil), r.Params...)
	}
	if r.Callbacks != nil {
		c.Callbacks = make(map[string]Callback, len(r.Callbacks))
		for name, cb := range r.Callbacks {
			c.Callbacks[name] = cb
		}
	}
	return &c
}

type DataStore interface {
	// Open - Initialize the store
	Open() error

	// Close - Cleanup the store
	Close() error

	// CreateSubscription - Add a record, fails if the id is already used
	CreateSubscription(rec *Record) error

	// GetSubscription - Get one record
	GetSubscription(subscriptionId string) (*Record, error)

	// ListSubscriptions - Get all the records
	ListSubscriptions() ([]*Record, error)

	// UpdateSubscription - Replace an existing record
	UpdateSubscription(rec *Record) error

	// DelSubscription - Delete one record
	DelSubscription(subscriptionId string) error
}
