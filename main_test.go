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

package main

import (
	"errors"
	"flag"
	"io/ioutil"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rnis-manager/config"
	"rnis-manager/datastore"
	"rnis-manager/util"
)

func newFlagSet(t *testing.T, args ...string) (*flag.FlagSet, *InputParameters) {
	fs := flag.NewFlagSet("rnis", flag.ContinueOnError)
	inParam := &InputParameters{}
	registerInputParameters(fs, inParam)
	assert.Nil(t, fs.Parse(args))
	return fs, inParam
}

func TestGenerateConfig(t *testing.T) {
	fs, inParam := newFlagSet(t, "-serviceId", "svc-1", "-ctrlPort", "9999", "-every", "1000")
	cfg, err := generateConfig(fs, inParam)
	assert.Nil(t, err)
	assert.Equal(t, "svc-1", cfg.ServiceId)
	assert.Equal(t, "http://127.0.0.1:9999/api/v1", cfg.ControllerURL())
	assert.Equal(t, time.Second, cfg.Every)
	assert.Equal(t, util.DefaultSubscriptionEvery, cfg.SubscriptionEvery)

	fs, inParam = newFlagSet(t, "-managementPort", "0")
	_, err = generateConfig(fs, inParam)
	assert.NotNil(t, err)
}

func TestGenerateConfigWithFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "rnis-main")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	fileName := filepath.Join(dir, "rnis.conf")
	assert.Nil(t, ioutil.WriteFile(fileName, []byte("service_id = svc-1\nctrl_host = 10.0.0.5\n"), 0600))

	fs, inParam := newFlagSet(t, "-config", fileName, "-ctrlPort", "9999")
	cfg, err := generateConfig(fs, inParam)
	assert.Nil(t, err)
	assert.Equal(t, "svc-1", cfg.ServiceId)
	assert.Equal(t, "http://10.0.0.5:9999/api/v1", cfg.ControllerURL())

	fs, inParam = newFlagSet(t, "-config", fileName, "-serviceId", "svc-2")
	_, err = generateConfig(fs, inParam)
	var immutable *util.ConfigImmutableError
	assert.True(t, errors.As(err, &immutable))
}

func TestServerRunStop(t *testing.T) {
	dir, err := ioutil.TempDir("", "rnis-db")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	cfg := &config.Config{
		ServiceId:         "svc-1",
		CtrlHost:          "127.0.0.1",
		CtrlPort:          util.DefaultCtrlPort,
		Registry:          "http://127.0.0.1:1/api/v1/services",
		Every:             time.Hour,
		SubscriptionEvery: time.Hour,
		URI:               util.DefaultURI,
		MgmtIP:            net.ParseIP("127.0.0.1"),
		MgmtPort:          18890,
		DbDir:             dir,
		DbName:            "test_db",
	}
	server := NewServer(cfg, &datastore.BoltDB{Dir: dir, FileName: cfg.DbName})
	assert.Nil(t, server.Run())

	assert.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:18890/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	server.Stop()
	_, err = os.Stat(filepath.Join(dir, cfg.DbName))
	assert.Nil(t, err)
}
