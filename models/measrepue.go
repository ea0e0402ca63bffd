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

import "rnis-manager/util"

// Subject kinds an associate id may carry
const (
	SubjectIMSI           = "IMSI"
	SubjectUeIPv4Address  = "UE_IPv4_ADDRESS"
	SubjectUeIPv6Address  = "UE_IPV6_ADDRESS"
	SubjectNatedIPAddress = "NATED_IP_ADDRESS"
	SubjectGtpTeid        = "GTP_TEID"
)

// This type represents a subscription to UE measurement reports of the radio network
type MeasRepUeSubscription struct {
	SubscriptionType       string                 `json:"subscriptionType" validate:"required"`
	CallbackReference      string                 `json:"callbackReference,omitempty" validate:"omitempty,url"`
	ExpiryDeadline         *TimeStamp             `json:"expiryDeadline,omitempty"`
	FilterCriteriaAssocTri FilterCriteriaAssocTri `json:"filterCriteriaAssocTri"`
}

// Filtering on associate id, cell and trigger
type FilterCriteriaAssocTri struct {
	AppInstanceId string        `json:"appInstanceId,omitempty"`
	AssociateId   []AssociateId `json:"associateId" validate:"required,min=1,dive"`
	Ecgi          Ecgi          `json:"ecgi"`
	Trigger       []string      `json:"trigger,omitempty"`
}

type AssociateId struct {
	Type  string `json:"type" validate:"required,oneof=IMSI UE_IPv4_ADDRESS UE_IPV6_ADDRESS NATED_IP_ADDRESS GTP_TEID"`
	Value string `json:"value" validate:"required"`
}

// E-UTRAN cell global identifier
type Ecgi struct {
	Plmn   Plmn   `json:"plmn"`
	CellId string `json:"cellId,omitempty"`
}

type Plmn struct {
	Mcc string `json:"mcc" validate:"required,numeric,len=3"`
	Mnc string `json:"mnc" validate:"required,numeric,min=2,max=3"`
}

type TimeStamp struct {
	Seconds     int64 `json:"seconds"`
	NanoSeconds int32 `json:"nanoSeconds"`
}

// String concatenates the plmn components
func (p Plmn) String() string {
	return p.Mcc + p.Mnc
}

// SubjectIMSI returns the first IMSI associate id of the filter, the other subject kinds are not served
func (f *FilterCriteriaAssocTri) SubjectIMSI() (IMSI, error) {
	kind := ""
	for _, assoc := range f.AssociateId {
		if assoc.Type == SubjectIMSI {
			return ParseIMSI(assoc.Value)
		}
		if len(kind) == 0 {
			kind = assoc.Type
		}
	}
	return IMSI{}, &util.UnsupportedSubjectKindError{Kind: kind}
}
