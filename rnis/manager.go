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

// Package rnis is the radio network information mec service
package rnis

import (
	"rnis-manager/config"
	"rnis-manager/datastore"
	"rnis-manager/mecservice"
	"rnis-manager/models"
	"rnis-manager/rnis/measrepue"
	"rnis-manager/util"
)

const (
	Name            = "rnis"
	SerName         = "Radio Network Information Service"
	CategoryHref    = "/rni/v2/"
	CategoryId      = "rni"
	CategoryVersion = "2.0"
	Serializer      = "JSON"
)

// Describer produces the rnis service descriptor
type Describer struct{}

func (Describer) Describe(serviceId string, state string) models.ServiceDescriptor {
	return models.ServiceDescriptor{
		SerInstanceId: serviceId,
		SerName:       SerName,
		SerCategory: models.CategoryRef{
			Href:    CategoryHref,
			ID:      CategoryId,
			Name:    SerName,
			Version: CategoryVersion,
		},
		Version:    util.ApiVersion,
		State:      state,
		Serializer: Serializer,
	}
}

// NewManager wires the rnis service: registry client, controller client and the subscription kinds
func NewManager(cfg *config.Config, store datastore.DataStore, sched mecservice.Scheduler) *mecservice.Manager {
	client := util.NewHttpClient("", "")
	env := mecservice.Env{
		Store:      store,
		Controller: util.NewHttpClient(cfg.CtrlUser, cfg.CtrlPwd),
	}
	kinds := map[mecservice.Kind]mecservice.Factory{
		measrepue.Kind: measrepue.Factory(measrepue.Config{
			ControllerURL: cfg.ControllerURL(),
			URI:           cfg.URI,
		}),
	}
	return mecservice.NewManager(mecservice.Options{
		ServiceId:         cfg.ServiceId,
		Name:              Name,
		Registry:          cfg.Registry,
		Every:             cfg.Every,
		SubscriptionEvery: cfg.SubscriptionEvery,
		Params: map[string]interface{}{
			"host":               cfg.CtrlHost,
			"port":               cfg.CtrlPort,
			"user":               cfg.CtrlUser,
			"uri":                cfg.URI,
			"subscription_every": cfg.SubscriptionEvery.Milliseconds(),
		},
		Describer: Describer{},
		Kinds:     kinds,
		Store:     store,
		Client:    client,
		Env:       env,
		Scheduler: sched,
	})
}
