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

// Package util implements rnis manager utility functions and constants
package util

import "time"

// Registration states of a mec service
const (
	StateUnregistered = "UNREGISTERED"
	StateRegistered   = "REGISTERED"
)

// Default configuration values
const (
	DefaultRegistry          = "http://127.0.0.1:8887/api/v1/services"
	DefaultCtrlHost          = "127.0.0.1"
	DefaultCtrlPort          = 8888
	DefaultCtrlUser          = "root"
	DefaultCtrlPwd           = "root"
	DefaultURI               = "http://127.0.0.1:8890"
	DefaultIP                = "0.0.0.0"
	DefaultManagementPort    = 8890
	DefaultEvery             = 2000 * time.Millisecond
	DefaultSubscriptionEvery = 5000 * time.Millisecond
	DefaultDbName            = "dbRnis"
	DefaultDbDir             = "data"
	DefaultLogFile           = "/usr/mep/log/rnis.log"
	MaxDbNameLength          = 256
	MaxPortNumber            = 65535
	DbStringExceptions       = "/.\\"
)

// Log rotation
const (
	MaxSize    = 20
	MaxBackups = 50
	MaxAge     = 30
)

// Rest related constants
const (
	ApiVersion      = "1.0"
	VersionKey      = "version"
	ContentType     = "Content-Type"
	JsonContentType = "application/json; charset=utf-8"
	Location        = "Location"
	GetMethod       = "GET"
	PostMethod      = "POST"
	MaxBodySize     = "1M"
)

// Callback delivery kinds
const (
	CallbackRest    = "rest"
	DefaultCallback = "default"
)
