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
	"encoding/json"
	"errors"
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rnis-manager/util"
)

const (
	subId1     = "sub-1"
	subId2     = "sub-2"
	tenantId   = "52313ecb-9d00-4b7d-b873-b55d3d9ada26"
	workerId   = "be1a1f7e-9bb6-4a28-b0c1-4c3b7c54a8c8"
	measRepUe  = "MeasRepUeSubscription"
	errCreate  = "Error in creating the record"
	errReading = "Error in reading the record"
)

func newRecord(id string) *Record {
	return &Record{
		SubscriptionId:   id,
		SubscriptionType: measRepUe,
		Params:           json.RawMessage(`{"subscription":{"subscriptionType":"MeasRepUeSubscription"}}`),
		Every:            5 * time.Second,
	}
}

func runStoreOperations(t *testing.T, store DataStore) {
	err := store.CreateSubscription(newRecord(subId1))
	assert.Nil(t, err, errCreate)

	t.Run("CreateDuplicate", func(t *testing.T) {
		err := store.CreateSubscription(newRecord(subId1))
		var dup *util.DuplicateSubscriptionError
		assert.True(t, errors.As(err, &dup))
		assert.Equal(t, subId1, dup.SubscriptionId)
	})

	t.Run("GetAndUpdate", func(t *testing.T) {
		rec, err := store.GetSubscription(subId1)
		assert.Nil(t, err, errReading)
		assert.Equal(t, measRepUe, rec.SubscriptionType)
		assert.Equal(t, 5*time.Second, rec.Every)
		assert.Equal(t, "", rec.TenantId)

		rec.SetTenant(tenantId)
		assert.Nil(t, rec.SetWorker(workerId))
		rec.AddCallback(util.DefaultCallback, Callback{Kind: util.CallbackRest, URL: "http://127.0.0.1:9000"})
		assert.Nil(t, store.UpdateSubscription(rec))

		stored, err := store.GetSubscription(subId1)
		assert.Nil(t, err, errReading)
		assert.Equal(t, tenantId, stored.TenantId)
		assert.Equal(t, workerId, stored.WorkerId)
		assert.Equal(t, util.CallbackRest, stored.Callbacks[util.DefaultCallback].Kind)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		err := store.UpdateSubscription(newRecord("missing"))
		var notFound *util.SubscriptionNotFoundError
		assert.True(t, errors.As(err, &notFound))
	})

	t.Run("ListAndDelete", func(t *testing.T) {
		assert.Nil(t, store.CreateSubscription(newRecord(subId2)), errCreate)
		records, err := store.ListSubscriptions()
		assert.Nil(t, err)
		assert.Equal(t, 2, len(records))

		assert.Nil(t, store.DelSubscription(subId1))
		assert.Nil(t, store.DelSubscription(subId2))

		err = store.DelSubscription(subId2)
		var notFound *util.SubscriptionNotFoundError
		assert.True(t, errors.As(err, &notFound))

		_, err = store.GetSubscription(subId1)
		assert.True(t, errors.As(err, &notFound))

		records, err = store.ListSubscriptions()
		assert.Nil(t, err)
		assert.Equal(t, 0, len(records))
	})
}

func TestBoltDBOperations(t *testing.T) {
	dir, err := ioutil.TempDir("", "rnisdb")
	assert.Nil(t, err)
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	store := &BoltDB{Dir: dir, FileName: "testdb"}
	err = store.Open()
	assert.Nil(t, err, "Error in opening the db")
	defer store.Close()

	runStoreOperations(t, store)
}

func TestMemoryDBOperations(t *testing.T) {
	store := &MemoryDB{}
	assert.Nil(t, store.Open())
	runStoreOperations(t, store)
}

func TestRecordInvariants(t *testing.T) {
	rec := newRecord(subId1)
	assert.NotNil(t, rec.SetWorker(workerId), "worker accepted without tenant")

	rec.SetTenant(tenantId)
	assert.Nil(t, rec.SetWorker(workerId))

	rec.SetTenant(tenantId)
	assert.Equal(t, workerId, rec.WorkerId, "same tenant must keep the worker")

	rec.SetTenant("another")
	assert.Equal(t, "", rec.WorkerId, "tenant change must forget the worker")

	rec.AddCallback(util.DefaultCallback, Callback{Kind: util.CallbackRest, URL: "http://a"})
	clone := rec.Clone()
	clone.Callbacks[util.DefaultCallback] = Callback{Kind: util.CallbackRest, URL: "http://b"}
	assert.Equal(t, "http://a", rec.Callbacks[util.DefaultCallback].URL)
}
