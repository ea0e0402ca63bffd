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
	"errors"
	"fmt"
	"net/http"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"rnis-manager/datastore"
	"rnis-manager/models"
	"rnis-manager/util"
)

const subscriptionKey = "subscription"

// ListSubscriptions returns the active subscriptions of the types this service serves
func (m *Manager) ListSubscriptions() map[string]Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	subscriptions := make(map[string]Instance, len(m.instances))
	for id, inst := range m.instances {
		if _, ok := m.opts.Kinds[Kind(inst.Record().SubscriptionType)]; !ok {
			continue
		}
		subscriptions[id] = inst
	}
	return subscriptions
}

// GetSubscription returns one subscription
func (m *Manager) GetSubscription(id string) (Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[id]
	if !ok {
		return nil, &util.SubscriptionNotFoundError{SubscriptionId: id}
	}
	return inst, nil
}

// AddSubscription creates the subscription of the type named in params and schedules it
func (m *Manager) AddSubscription(id string, params []byte) (Instance, error) {
	if !gjson.ValidBytes(params) || !gjson.ParseBytes(params).IsObject() {
		return nil, &util.InvalidRequestError{Err: errors.New("subscription body is not a json object")}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.instances[id]; ok {
		return nil, &util.DuplicateSubscriptionError{SubscriptionId: id}
	}
	subType := gjson.GetBytes(params, "subscriptionType").String()
	factory, ok := m.opts.Kinds[Kind(subType)]
	if !ok {
		return nil, &util.UnknownSubscriptionTypeError{SubscriptionType: subType}
	}

	wrapped, err := sjson.SetRawBytes([]byte("{}"), subscriptionKey, params)
	if err != nil {
		return nil, &util.InvalidRequestError{Err: err}
	}
	rec := &datastore.Record{
		SubscriptionId:    id,
		SubscriptionType:  subType,
		Params:            wrapped,
		CallbackReference: gjson.GetBytes(params, "callbackReference").String(),
		Every:             m.opts.SubscriptionEvery,
	}
	if len(rec.CallbackReference) != 0 {
		rec.AddCallback(util.DefaultCallback, datastore.Callback{Kind: util.CallbackRest, URL: rec.CallbackReference})
	}

	inst, err := factory(rec, m.opts.Env)
	if err != nil {
		return nil, err
	}
	if err = m.opts.Store.CreateSubscription(rec); err != nil {
		return nil, err
	}
	m.instances[id] = inst
	m.schedule(id, inst, rec.Every)
	log.Infof("Subscription %s(%s) added.", id, subType)
	return inst, nil
}

// RemoveSubscription removes one subscription, or all of them when id is empty
func (m *Manager) RemoveSubscription(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(id) != 0 {
		if _, ok := m.instances[id]; !ok {
			return &util.SubscriptionNotFoundError{SubscriptionId: id}
		}
		return m.remove(id)
	}

	ids := make([]string, 0, len(m.instances))
	for subId := range m.instances {
		ids = append(ids, subId)
	}
	for _, subId := range ids {
		if err := m.remove(subId); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) remove(id string) error {
	if m.opts.Scheduler != nil {
		m.opts.Scheduler.Remove(subscriptionJobName(id))
	}
	delete(m.instances, id)
	err := m.opts.Store.DelSubscription(id)
	var notFound *util.SubscriptionNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return err
	}
	log.Infof("Subscription %s removed.", id)
	return nil
}

// SubscriptionHref returns the resource uri of a subscription
func (m *Manager) SubscriptionHref(id string) string {
	return fmt.Sprintf("%s/subscriptions/%s", m.href(), id)
}

// SubscriptionLinks builds the hyperlink document of the active subscriptions
func (m *Manager) SubscriptionLinks() models.SubscriptionLinkList {
	subscriptions := m.ListSubscriptions()
	ids := make([]string, 0, len(subscriptions))
	for id := range subscriptions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := models.SubscriptionLinkList{Links: models.SubscriptionLinks{
		Self:         models.Self{Href: m.href() + "/subscriptions"},
		Subscription: make([]models.SubscriptionLink, 0, len(ids)),
	}}
	for _, id := range ids {
		out.Links.Subscription = append(out.Links.Subscription, models.SubscriptionLink{
			Href:             m.SubscriptionHref(id),
			SubscriptionType: subscriptions[id].Record().SubscriptionType,
		})
	}
	return out
}

// DeliverEvent forwards an event received from a remote worker to the rest callbacks of the subscription
func (m *Manager) DeliverEvent(id string, payload []byte) error {
	inst, err := m.GetSubscription(id)
	if err != nil {
		return err
	}
	var firstErr error
	for name, callback := range inst.Record().Callbacks {
		if callback.Kind != util.CallbackRest {
			log.Warnf("Callback %s of subscription %s has unsupported kind %s.", name, id, callback.Kind)
			continue
		}
		resp, err := m.opts.Client.Forward(callback.URL, payload)
		if err == nil && (resp.Code < http.StatusOK || resp.Code >= http.StatusMultipleChoices) {
			err = &util.RemoteRejectedError{URL: callback.URL, Code: resp.Code}
		}
		if err != nil {
			log.WithFields(log.Fields{
				"subscription": id,
				"callback":     name,
			}).Errorf("Event delivery failed(%s).", err.Error())
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Restore instantiates the subscriptions found in the store
func (m *Manager) Restore() error {
	records, err := m.opts.Store.ListSubscriptions()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range records {
		if _, ok := m.instances[rec.SubscriptionId]; ok {
			continue
		}
		factory, ok := m.opts.Kinds[Kind(rec.SubscriptionType)]
		if !ok {
			log.Warnf("Stored subscription %s has unknown type %s.", rec.SubscriptionId, rec.SubscriptionType)
			continue
		}
		if rec.Every <= 0 {
			rec.Every = m.opts.SubscriptionEvery
		}
		inst, err := factory(rec, m.opts.Env)
		if err != nil {
			log.Errorf("Failed to restore subscription %s(%s).", rec.SubscriptionId, err.Error())
			continue
		}
		m.instances[rec.SubscriptionId] = inst
		m.schedule(rec.SubscriptionId, inst, rec.Every)
		log.Infof("Subscription %s restored.", rec.SubscriptionId)
	}
	return nil
}
