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
	"context"

	log "github.com/sirupsen/logrus"

	"rnis-manager/config"
	"rnis-manager/datastore"
	"rnis-manager/mecservice"
	"rnis-manager/mgmt"
	"rnis-manager/rnis"
	"rnis-manager/scheduler"
)

// Server hosts the rnis service, its scheduler and the management interface
type Server struct {
	config    *config.Config
	dataStore datastore.DataStore
	scheduler *scheduler.Scheduler
	manager   *mecservice.Manager
	mgmtCtl   *mgmt.Controller
}

func NewServer(config *config.Config, dataStore datastore.DataStore) *Server {
	return &Server{config: config, dataStore: dataStore}
}

func (s *Server) Run() error {
	err := s.dataStore.Open()
	if err != nil {
		return err
	}

	s.scheduler = scheduler.New(context.Background())
	s.manager = rnis.NewManager(s.config, s.dataStore, s.scheduler)
	if err = s.manager.Start(); err != nil {
		return err
	}

	s.mgmtCtl = mgmt.NewController(s.manager)
	go s.start()
	return nil
}

func (s *Server) start() {
	err := s.mgmtCtl.StartController(s.config.MgmtIP, s.config.MgmtPort)
	if err != nil {
		log.Fatalf("Failed to listen management interface on %s(%s).", s.config.MgmtAddress(), err.Error())
	}
}

// Stop leaves the subscriptions in the store, they are restored on the next run
func (s *Server) Stop() {
	if s.mgmtCtl != nil {
		if err := s.mgmtCtl.StopController(); err != nil {
			log.Error("Failed to stop the management controller.", err)
		}
	}
	if s.manager != nil {
		s.manager.Stop()
	}
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if err := s.dataStore.Close(); err != nil {
		log.Error("Failed to close the data store.", err)
	}
	log.Info("RNIS manager stopped now.")
}
