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

package util

import "fmt"

// ConfigImmutableError is returned when a write-once setting is assigned a second time
type ConfigImmutableError struct {
	Key string
}

func (e *ConfigImmutableError) Error() string {
	return fmt.Sprintf("param %s can not be changed", e.Key)
}

// DuplicateSubscriptionError is returned when the subscription id is already in use
type DuplicateSubscriptionError struct {
	SubscriptionId string
}

func (e *DuplicateSubscriptionError) Error() string {
	return fmt.Sprintf("subscription %s already defined", e.SubscriptionId)
}

// UnknownSubscriptionTypeError is returned for a subscription type the service does not serve
type UnknownSubscriptionTypeError struct {
	SubscriptionType string
}

func (e *UnknownSubscriptionTypeError) Error() string {
	return fmt.Sprintf("unknown subscription type(%s)", e.SubscriptionType)
}

// SubscriptionNotFoundError is returned when no subscription has the requested id
type SubscriptionNotFoundError struct {
	SubscriptionId string
}

func (e *SubscriptionNotFoundError) Error() string {
	return fmt.Sprintf("subscription %s not found", e.SubscriptionId)
}

// UnsupportedSubjectKindError is returned when the subscription does not carry a supported associate id
type UnsupportedSubjectKindError struct {
	Kind string
}

func (e *UnsupportedSubjectKindError) Error() string {
	if e.Kind == "" {
		return "no associate id given"
	}
	return fmt.Sprintf("unsupported associate id type(%s)", e.Kind)
}

// RemoteUnavailableError wraps a transport failure towards a remote endpoint
type RemoteUnavailableError struct {
	URL string
	Err error
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("unable to contact %s: %v", e.URL, e.Err)
}

func (e *RemoteUnavailableError) Unwrap() error {
	return e.Err
}

// RemoteRejectedError is returned when a reachable remote answers with an unexpected status
type RemoteRejectedError struct {
	URL  string
	Code int
}

func (e *RemoteRejectedError) Error() string {
	return fmt.Sprintf("request to %s rejected, status %d", e.URL, e.Code)
}

// InvalidRequestError is returned when a caller supplied body can not be used
type InvalidRequestError struct {
	Err error
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %v", e.Err)
}

func (e *InvalidRequestError) Unwrap() error {
	return e.Err
}
