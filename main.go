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
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	log "github.com/sirupsen/logrus"

	"rnis-manager/config"
	"rnis-manager/datastore"
	"rnis-manager/util"
)

// Input placeholder
type InputParameters struct {
	configFile *string // ini file with a default section
}

// flag name to setting key
var flagKeys = map[string]string{
	"serviceId":         config.KeyServiceId,
	"ctrlHost":          config.KeyCtrlHost,
	"ctrlPort":          config.KeyCtrlPort,
	"ctrlUser":          config.KeyCtrlUser,
	"ctrlPwd":           config.KeyCtrlPwd,
	"registry":          config.KeyRegistry,
	"every":             config.KeyEvery,
	"subscriptionEvery": config.KeySubscriptionEvery,
	"uri":               config.KeyURI,
	"managementIpAdd":   config.KeyMgmtIP,
	"managementPort":    config.KeyMgmtPort,
	"dbDir":             config.KeyDbDir,
	"db":                config.KeyDb,
	"logFile":           config.KeyLogFile,
}

// Input flag parameters registration
func registerInputParameters(fs *flag.FlagSet, inParam *InputParameters) {
	inParam.configFile = fs.String("config", "", "Config file, its values can not override the flags given")
	fs.String("serviceId", "", "Mec service instance id, generated when empty")
	fs.String("ctrlHost", util.DefaultCtrlHost, "Controller host")
	fs.String("ctrlPort", strconv.Itoa(util.DefaultCtrlPort), "Controller port")
	fs.String("ctrlUser", util.DefaultCtrlUser, "Controller user")
	fs.String("ctrlPwd", util.DefaultCtrlPwd, "Controller password")
	fs.String("registry", util.DefaultRegistry, "Mec service registry url")
	fs.String("every", strconv.FormatInt(util.DefaultEvery.Milliseconds(), 10),
		"Registration interval in milliseconds")
	fs.String("subscriptionEvery", strconv.FormatInt(util.DefaultSubscriptionEvery.Milliseconds(), 10),
		"Subscription bootstrap interval in milliseconds")
	fs.String("uri", util.DefaultURI, "Base uri the remote workers deliver events to")
	fs.String("managementIpAdd", util.DefaultIP, "Management Ipv4/Ipv6 address to listens to")
	fs.String("managementPort", strconv.Itoa(util.DefaultManagementPort),
		"Management interface port number to listens to")
	fs.String("dbDir", util.DefaultDbDir, "Database directory")
	fs.String("db", util.DefaultDbName, "Database name")
	fs.String("logFile", util.DefaultLogFile, "Log file")
}

// generateConfig applies the flags set explicitly, then the config file
func generateConfig(fs *flag.FlagSet, inParam *InputParameters) (*config.Config, error) {
	b := config.NewBuilder()
	var err error
	fs.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		err = b.Set(key, f.Value.String())
	})
	if err != nil {
		return nil, err
	}
	if len(*inParam.configFile) != 0 {
		if err = b.LoadFile(*inParam.configFile); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Infof("Signal(%d) received, stopping rnis manager.", s)
}

func main() {
	inputParam := &InputParameters{}
	// Register input flag parameters
	registerInputParameters(flag.CommandLine, inputParam)
	flag.Parse()

	cfg, err := generateConfig(flag.CommandLine, inputParam)
	if err != nil {
		log.Fatalf("Failed to parse the configuration(%s).", err.Error())
	}
	config.InitLog(cfg.LogFile)
	log.Infof("Starting Edge-Gallery RNIS manager(service id: %s).", cfg.ServiceId)

	store := &datastore.BoltDB{Dir: cfg.DbDir, FileName: cfg.DbName}
	server := NewServer(cfg, store)
	err = server.Run()
	defer server.Stop()
	if err != nil {
		log.Fatal("Failed to start the RNIS manager.", err)
	}

	log.Info("RNIS manager started successfully.")
	waitForSignal()
}
