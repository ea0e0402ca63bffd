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

package models

// Project is a tenant of the radio network controller
type Project struct {
	ProjectId string    `json:"project_id"`
	Desc      string    `json:"desc,omitempty"`
	LteProps  *LteProps `json:"lte_props"`
}

type LteProps struct {
	Plmnid string `json:"plmnid"`
}

// WorkerRequest starts an application on a controller project
type WorkerRequest struct {
	Name   string       `json:"name"`
	Params WorkerParams `json:"params"`
}

type WorkerParams struct {
	Imsi     string `json:"imsi"`
	MeasId   int    `json:"meas_id"`
	Interval string `json:"interval"`
	Amount   string `json:"amount"`
}

// CallbackRequest attaches a delivery callback to a running application
type CallbackRequest struct {
	Name         string `json:"name"`
	Callback     string `json:"callback"`
	CallbackType string `json:"callback_type"`
}
