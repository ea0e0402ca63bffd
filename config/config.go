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

// Package config builds the rnis manager settings
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	beegoconf "github.com/astaxie/beego/config"
	"github.com/go-playground/validator/v10"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"

	"rnis-manager/util"
)

// Setting keys, shared by the command line flags and the config file
const (
	KeyServiceId         = "service_id"
	KeyCtrlHost          = "ctrl_host"
	KeyCtrlPort          = "ctrl_port"
	KeyCtrlUser          = "ctrl_user"
	KeyCtrlPwd           = "ctrl_pwd"
	KeyRegistry          = "registry"
	KeyEvery             = "every"
	KeySubscriptionEvery = "subscription_every"
	KeyURI               = "uri"
	KeyMgmtIP            = "mgmt_ip"
	KeyMgmtPort          = "mgmt_port"
	KeyDbDir             = "db_dir"
	KeyDb                = "db"
	KeyLogFile           = "log_file"
)

const defaultSection = "default"

// Config holds the immutable settings of a running manager
type Config struct {
	ServiceId         string `validate:"required"`
	CtrlHost          string `validate:"required,hostname|ip"`
	CtrlPort          int    `validate:"min=1,max=65535"`
	CtrlUser          string
	CtrlPwd           string
	Registry          string        `validate:"required,url"`
	Every             time.Duration `validate:"gt=0"`
	SubscriptionEvery time.Duration `validate:"gt=0"`
	URI               string        `validate:"required,url"`
	MgmtIP            net.IP
	MgmtPort          int    `validate:"min=1,max=65535"`
	DbDir             string `validate:"required"`
	DbName            string `validate:"required,max=255"`
	LogFile           string
}

// Builder collects the settings, every key can be written once
type Builder struct {
	mu     sync.Mutex
	values map[string]string
}

func NewBuilder() *Builder {
	return &Builder{values: make(map[string]string)}
}

// Set assigns a setting, assigning a different value to a key already set fails
func (b *Builder) Set(key string, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	key = strings.ToLower(strings.TrimSpace(key))
	if old, ok := b.values[key]; ok && old != value {
		return &util.ConfigImmutableError{Key: key}
	}
	b.values[key] = value
	return nil
}

// LoadFile reads the settings of the default section of an ini file
func (b *Builder) LoadFile(fileName string) error {
	conf, err := beegoconf.NewConfig("ini", fileName)
	if err != nil {
		log.Errorf("Failed to read config file %s.", fileName)
		return err
	}
	section, err := conf.GetSection(defaultSection)
	if err != nil {
		log.Warnf("Config file %s has no default section.", fileName)
		return nil
	}
	for key, value := range section {
		if err = b.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Build applies the defaults and validates the result
func (b *Builder) Build() (*Config, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	cfg := &Config{
		ServiceId: b.get(KeyServiceId, ""),
		CtrlHost:  b.get(KeyCtrlHost, util.DefaultCtrlHost),
		CtrlUser:  b.get(KeyCtrlUser, util.DefaultCtrlUser),
		CtrlPwd:   b.get(KeyCtrlPwd, util.DefaultCtrlPwd),
		Registry:  b.get(KeyRegistry, util.DefaultRegistry),
		URI:       strings.TrimRight(b.get(KeyURI, util.DefaultURI), "/"),
		DbDir:     b.get(KeyDbDir, util.DefaultDbDir),
		DbName:    b.get(KeyDb, util.DefaultDbName),
		LogFile:   b.get(KeyLogFile, util.DefaultLogFile),
	}
	if len(cfg.ServiceId) == 0 {
		cfg.ServiceId = uuid.NewV4().String()
		b.values[KeyServiceId] = cfg.ServiceId
	}
	if cfg.CtrlPort, err = b.getInt(KeyCtrlPort, util.DefaultCtrlPort); err != nil {
		return nil, err
	}
	if cfg.MgmtPort, err = b.getInt(KeyMgmtPort, util.DefaultManagementPort); err != nil {
		return nil, err
	}
	if cfg.Every, err = b.getMillis(KeyEvery, util.DefaultEvery); err != nil {
		return nil, err
	}
	if cfg.SubscriptionEvery, err = b.getMillis(KeySubscriptionEvery, util.DefaultSubscriptionEvery); err != nil {
		return nil, err
	}

	mgmtIP := b.get(KeyMgmtIP, util.DefaultIP)
	cfg.MgmtIP = net.ParseIP(mgmtIP)
	if cfg.MgmtIP == nil {
		return nil, fmt.Errorf("management ip address(%s) not in ipv4/ipv6 format", mgmtIP)
	}
	if cfg.MgmtIP.IsMulticast() || cfg.MgmtIP.Equal(net.IPv4bcast) {
		return nil, fmt.Errorf("multicast or broadcast management ip address(%s)", mgmtIP)
	}
	if strings.ContainsAny(cfg.DbName, util.DbStringExceptions) {
		return nil, fmt.Errorf("db name should be a single word and should not have \"%s\"", util.DbStringExceptions)
	}

	if err = validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ControllerURL returns the api root of the controller
func (c *Config) ControllerURL() string {
	return fmt.Sprintf("http://%s/api/v1", net.JoinHostPort(c.CtrlHost, strconv.Itoa(c.CtrlPort)))
}

// MgmtAddress returns the listen address of the management interface
func (c *Config) MgmtAddress() string {
	return net.JoinHostPort(c.MgmtIP.String(), strconv.Itoa(c.MgmtPort))
}

func (b *Builder) get(key string, def string) string {
	if value, ok := b.values[key]; ok && len(value) != 0 {
		return value
	}
	return def
}

func (b *Builder) getInt(key string, def int) (int, error) {
	value, ok := b.values[key]
	if !ok || len(value) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 || n > util.MaxPortNumber {
		return 0, fmt.Errorf("%s(%s) not in valid range", key, value)
	}
	return n, nil
}

func (b *Builder) getMillis(key string, def time.Duration) (time.Duration, error) {
	value, ok := b.values[key]
	if !ok || len(value) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s(%s) should be a positive number of milliseconds", key, value)
	}
	return time.Duration(n) * time.Millisecond, nil
}
