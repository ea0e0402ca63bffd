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
	"fmt"
	"os"
	"path"
	"time"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"rnis-manager/util"
)

const SubscriptionBucket = "subscription"

type BoltDB struct {
	Dir      string
	FileName string
	db       *bolt.DB
}

func (b *BoltDB) Open() error {
	var err error

	dir := b.Dir
	if len(dir) == 0 {
		dir = util.DefaultDbDir
	}
	_, err = os.Stat(dir)
	if os.IsNotExist(err) {
		err = os.MkdirAll(dir, 0700)
		if err != nil {
			log.Errorf("Data path(%s) does not exists and could not create a new one.", dir)
			return err
		}
	}

	b.db, err = bolt.Open(path.Join(dir, b.FileName), 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return err
	}

	err = b.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(SubscriptionBucket))
		if err != nil {
			log.Error("Failed to create the subscription bucket.")
			return fmt.Errorf("error creating subscription bucket: %s", err)
		}
		return nil
	})

	log.Debugf("Initialize bolt db(%s) success.", b.FileName)
	return err
}

func (b *BoltDB) Close() error {
	if b.db != nil {
		err := b.db.Close()
		if err != nil {
			log.Errorf("Failed to close the bolt db(%s).", b.FileName)
			return err
		}
	}
	log.Debugf("Closed bolt db(%s) as part of shutdown service.", b.FileName)
	return nil
}

func (b *BoltDB) CreateSubscription(rec *Record) error {
	recBytes, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("data store could not marshal subscription json")
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(SubscriptionBucket))
		if bkt.Get([]byte(rec.SubscriptionId)) != nil {
			return &util.DuplicateSubscriptionError{SubscriptionId: rec.SubscriptionId}
		}
		if err := bkt.Put([]byte(rec.SubscriptionId), recBytes); err != nil {
			return fmt.Errorf("saving subscription to data store failed")
		}
		return nil
	})
}

func (b *BoltDB) GetSubscription(subscriptionId string) (*Record, error) {
	rec := &Record{}
	err := b.db.View(func(tx *bolt.Tx) error {
		recBytes := tx.Bucket([]byte(SubscriptionBucket)).Get([]byte(subscriptionId))
		if recBytes == nil {
			return &util.SubscriptionNotFoundError{SubscriptionId: subscriptionId}
		}
		if err := json.Unmarshal(recBytes, rec); err != nil {
			return fmt.Errorf("parsing the subscription record failed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (b *BoltDB) ListSubscriptions() ([]*Record, error) {
	var records []*Record
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(SubscriptionBucket)).ForEach(func(k, v []byte) error {
			rec := &Record{}
			if err := json.Unmarshal(v, rec); err != nil {
				log.Warnf("Skipping unreadable subscription record(%s).", string(k))
				return nil
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reading subscriptions from data store failed")
	}
	return records, nil
}

func (b *BoltDB) UpdateSubscription(rec *Record) error {
	recBytes, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("data store could not marshal subscription json")
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(SubscriptionBucket))
		if bkt.Get([]byte(rec.SubscriptionId)) == nil {
			return &util.SubscriptionNotFoundError{SubscriptionId: rec.SubscriptionId}
		}
		if err := bkt.Put([]byte(rec.SubscriptionId), recBytes); err != nil {
			return fmt.Errorf("saving subscription to data store failed")
		}
		return nil
	})
}

func (b *BoltDB) DelSubscription(subscriptionId string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(SubscriptionBucket))
		if bkt.Get([]byte(subscriptionId)) == nil {
			return &util.SubscriptionNotFoundError{SubscriptionId: subscriptionId}
		}
		return bkt.Delete([]byte(subscriptionId))
	})
}
