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

package datastore

import (
	"sync"

	"rnis-manager/util"
)

// MemoryDB keeps the records in process, they are lost on restart
type MemoryDB struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func (m *MemoryDB) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = make(map[string]*Record)
	}
	return nil
}

func (m *MemoryDB) Close() error {
	return nil
}

func (m *MemoryDB) CreateSubscription(rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.SubscriptionId]; ok {
		return &util.DuplicateSubscriptionError{SubscriptionId: rec.SubscriptionId}
	}
	m.records[rec.SubscriptionId] = rec.Clone()
	return nil
}

func (m *MemoryDB) GetSubscription(subscriptionId string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[subscriptionId]
	if !ok {
		return nil, &util.SubscriptionNotFoundError{SubscriptionId: subscriptionId}
	}
	return rec.Clone(), nil
}

func (m *MemoryDB) ListSubscriptions() ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := make([]*Record, 0, len(m.records))
	for _, rec := range m.records {
		records = append(records, rec.Clone())
	}
	return records, nil
}

func (m *MemoryDB) UpdateSubscription(rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.SubscriptionId]; !ok {
		return &util.SubscriptionNotFoundError{SubscriptionId: rec.SubscriptionId}
	}
	m.records[rec.SubscriptionId] = rec.Clone()
	return nil
}

func (m *MemoryDB) DelSubscription(subscriptionId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[subscriptionId]; !ok {
		return &util.SubscriptionNotFoundError{SubscriptionId: subscriptionId}
	}
	delete(m.records, subscriptionId)
	return nil
}
