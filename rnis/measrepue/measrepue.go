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

// Package measrepue implements the measurement report UE subscription
package measrepue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"rnis-manager/datastore"
	"rnis-manager/mecservice"
	"rnis-manager/models"
	"rnis-manager/util"
)

// Kind is the subscription type served by this package
const Kind mecservice.Kind = "MeasRepUeSubscription"

// Worker started on the controller
const (
	WorkerName     = "empower.apps.uemeasurements.uemeasurements"
	WorkerMeasId   = 1
	WorkerInterval = "MS2048"
	WorkerAmount   = "INFINITY"
)

var validate = validator.New()

type Config struct {
	// ControllerURL is the controller api root, e.g. http://127.0.0.1:8888/api/v1
	ControllerURL string
	// URI is the base the remote worker delivers events to
	URI string
}

// MeasRepUe resolves the controller project serving the requested plmn, starts the
// measurement worker for the subscriber and attaches the delivery callback
type MeasRepUe struct {
	cfg    Config
	store  datastore.DataStore
	client util.RestClient
	sub    models.MeasRepUeSubscription
	plmnid models.PLMNID
	imsi   models.IMSI

	mu  sync.RWMutex
	rec *datastore.Record
}

// Factory returns the subscription factory bound to the controller
func Factory(cfg Config) mecservice.Factory {
	return func(rec *datastore.Record, env mecservice.Env) (mecservice.Instance, error) {
		return New(cfg, rec, env)
	}
}

func New(cfg Config, rec *datastore.Record, env mecservice.Env) (*MeasRepUe, error) {
	var wrapper struct {
		Subscription models.MeasRepUeSubscription `json:"subscription"`
	}
	if err := json.Unmarshal(rec.Params, &wrapper); err != nil {
		return nil, &util.InvalidRequestError{Err: err}
	}
	if err := validate.Struct(wrapper.Subscription); err != nil {
		return nil, &util.InvalidRequestError{Err: err}
	}
	filter := &wrapper.Subscription.FilterCriteriaAssocTri
	plmnid, err := models.ParsePLMNID(filter.Ecgi.Plmn.String())
	if err != nil {
		return nil, &util.InvalidRequestError{Err: err}
	}
	imsi, err := filter.SubjectIMSI()
	if err != nil {
		if _, ok := err.(*util.UnsupportedSubjectKindError); ok {
			return nil, err
		}
		return nil, &util.InvalidRequestError{Err: err}
	}
	return &MeasRepUe{
		cfg:    cfg,
		store:  env.Store,
		client: env.Controller,
		sub:    wrapper.Subscription,
		plmnid: plmnid,
		imsi:   imsi,
		rec:    rec,
	}, nil
}

// Record returns a snapshot of the subscription state
func (m *MeasRepUe) Record() *datastore.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rec.Clone()
}

// Tick runs the bootstrap once. Every step either completes or ends the tick, the next tick starts over.
func (m *MeasRepUe) Tick(ctx context.Context) error {
	rec := m.Record()

	// Both ids known, check the worker still delivers to us
	if len(rec.TenantId) != 0 && len(rec.WorkerId) != 0 {
		url := m.url("/projects/%s/apps/%s/callbacks/%s", rec.TenantId, rec.WorkerId, util.DefaultCallback)
		resp, err := m.client.Get(url)
		if err != nil {
			return err
		}
		if resp.Code == http.StatusOK {
			return nil
		}
		log.Infof("Callback of worker %s not found(status %d), resolving again.", rec.WorkerId, resp.Code)
	}

	tenantId, err := m.resolveTenant()
	if err != nil {
		return err
	}
	if err = m.setTenant(tenantId); err != nil {
		return err
	}

	workerId, err := m.startWorker(tenantId)
	if err != nil {
		return err
	}

	return m.addCallback(tenantId, workerId)
}

// resolveTenant returns the first project, in listing order, whose lte props carry the requested plmn
func (m *MeasRepUe) resolveTenant() (string, error) {
	url := m.url("/projects")
	resp, err := m.client.Get(url)
	if err != nil {
		return "", err
	}
	if err = util.ExpectStatus(url, resp, http.StatusOK); err != nil {
		log.Errorf("Unable to find PLMN %s.", m.plmnid)
		return "", err
	}

	tenantId := ""
	gjson.ParseBytes(resp.Body).ForEach(func(key, value gjson.Result) bool {
		var project models.Project
		if err := json.Unmarshal([]byte(value.Raw), &project); err != nil || project.LteProps == nil {
			return true
		}
		plmnid, err := models.ParsePLMNID(project.LteProps.Plmnid)
		if err != nil || !m.plmnid.Equal(plmnid) {
			return true
		}
		id, err := uuid.FromString(project.ProjectId)
		if err != nil {
			log.Warnf("Project with invalid id(%s) skipped.", project.ProjectId)
			return true
		}
		tenantId = id.String()
		return false
	})
	if len(tenantId) == 0 {
		log.Errorf("Unable to find PLMN %s.", m.plmnid)
		return "", fmt.Errorf("no project serves plmn %s", m.plmnid)
	}

	url = m.url("/projects/%s", tenantId)
	resp, err = m.client.Get(url)
	if err != nil {
		return "", err
	}
	if err = util.ExpectStatus(url, resp, http.StatusOK); err != nil {
		log.Errorf("Unable to find PLMN %s.", m.plmnid)
		return "", err
	}
	return tenantId, nil
}

// startWorker reuses the known worker when the controller still runs it, otherwise starts a new one
func (m *MeasRepUe) startWorker(tenantId string) (string, error) {
	rec := m.Record()
	if len(rec.WorkerId) != 0 {
		url := m.url("/projects/%s/apps/%s", tenantId, rec.WorkerId)
		resp, err := m.client.Get(url)
		if err != nil {
			return "", err
		}
		if resp.Code == http.StatusOK {
			return rec.WorkerId, nil
		}
		log.Infof("Worker %s no longer running(status %d).", rec.WorkerId, resp.Code)
	}

	data := models.WorkerRequest{
		Name: WorkerName,
		Params: models.WorkerParams{
			Imsi:     m.imsi.String(),
			MeasId:   WorkerMeasId,
			Interval: WorkerInterval,
			Amount:   WorkerAmount,
		},
	}
	url := m.url("/projects/%s/apps", tenantId)
	resp, err := m.client.Post(url, data)
	if err != nil {
		return "", err
	}
	if err = util.ExpectStatus(url, resp, http.StatusCreated); err != nil {
		log.Errorf("Unable to start worker, error %d.", resp.Code)
		return "", err
	}
	workerId := util.LastPathSegment(resp.Header.Get(util.Location))
	if len(workerId) == 0 {
		return "", fmt.Errorf("worker created without location")
	}
	if err = m.setWorker(workerId); err != nil {
		return "", err
	}
	return workerId, nil
}

func (m *MeasRepUe) addCallback(tenantId string, workerId string) error {
	data := models.CallbackRequest{
		Name:         util.DefaultCallback,
		Callback:     m.CallbackURL(),
		CallbackType: util.CallbackRest,
	}
	url := m.url("/projects/%s/apps/%s/callbacks", tenantId, workerId)
	resp, err := m.client.Post(url, data)
	if err != nil {
		return err
	}
	if err = util.ExpectStatus(url, resp, http.StatusCreated); err != nil {
		log.Errorf("Unable to add callback, error %d.", resp.Code)
		return err
	}
	log.Info("Remote worker successfully configured.")
	return nil
}

// CallbackURL is where the remote worker delivers the measurements of this subscription
func (m *MeasRepUe) CallbackURL() string {
	return fmt.Sprintf("%s/rni/v2/subscriptions/%s/ch", strings.TrimRight(m.cfg.URI, "/"), m.rec.SubscriptionId)
}

func (m *MeasRepUe) setTenant(tenantId string) error {
	m.mu.Lock()
	if m.rec.TenantId == tenantId {
		m.mu.Unlock()
		return nil
	}
	m.rec.SetTenant(tenantId)
	rec := m.rec.Clone()
	m.mu.Unlock()
	return m.store.UpdateSubscription(rec)
}

func (m *MeasRepUe) setWorker(workerId string) error {
	m.mu.Lock()
	if err := m.rec.SetWorker(workerId); err != nil {
		m.mu.Unlock()
		return err
	}
	rec := m.rec.Clone()
	m.mu.Unlock()
	return m.store.UpdateSubscription(rec)
}

func (m *MeasRepUe) url(format string, args ...interface{}) string {
	return m.cfg.ControllerURL + fmt.Sprintf(format, args...)
}
