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

// Package models implements rnis manager object models
package models

// This type represents the category reference
type CategoryRef struct {
	Href    string `json:"href"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServiceDescriptor is the mec service advertised to the service registry
type ServiceDescriptor struct {
	SerInstanceId string      `json:"serInstanceId"`
	SerName       string      `json:"serName"`
	SerCategory   CategoryRef `json:"serCategory"`
	Version       string      `json:"version"`
	State         string      `json:"state"`
	Serializer    string      `json:"serializer"`
}

// Links document of the subscriptions owned by a service
type SubscriptionLinkList struct {
	Links SubscriptionLinks `json:"_links"`
}

type SubscriptionLinks struct {
	Self         Self               `json:"self"`
	Subscription []SubscriptionLink `json:"subscription"`
}

type Self struct {
	Href string `json:"href"`
}

type SubscriptionLink struct {
	Href             string `json:"href"`
	SubscriptionType string `json:"subscriptionType"`
}
