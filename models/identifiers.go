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

import (
	"fmt"
	"strings"
)

const (
	mccLength    = 3
	minPlmnidLen = 5
	maxPlmnidLen = 6
	minImsiLen   = 6
	maxImsiLen   = 15
)

// PLMNID identifies a mobile carrier network
type PLMNID struct {
	mcc string
	mnc string
}

// ParsePLMNID accepts the mcc and mnc digits, optionally separated by '-' or padded with the 'f' filler
func ParsePLMNID(value string) (PLMNID, error) {
	digits := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == 'f' || r == 'F' || r == '-' || r == ' ':
			return -1
		default:
			return 'x'
		}
	}, value)
	if strings.ContainsRune(digits, 'x') || len(digits) < minPlmnidLen || len(digits) > maxPlmnidLen {
		return PLMNID{}, fmt.Errorf("invalid plmnid(%s)", value)
	}
	return PLMNID{mcc: digits[:mccLength], mnc: digits[mccLength:]}, nil
}

// Mcc returns the mobile country code
func (p PLMNID) Mcc() string {
	return p.mcc
}

// Mnc returns the mobile network code
func (p PLMNID) Mnc() string {
	return p.mnc
}

// Equal compares the parsed codes, not the textual forms
func (p PLMNID) Equal(other PLMNID) bool {
	return p.mcc == other.mcc && p.mnc == other.mnc
}

func (p PLMNID) String() string {
	return p.mcc + p.mnc
}

// IMSI identifies a subscriber
type IMSI struct {
	value string
}

// ParseIMSI validates and normalizes a subscriber identity
func ParseIMSI(value string) (IMSI, error) {
	imsi := strings.TrimSpace(value)
	if len(imsi) < minImsiLen || len(imsi) > maxImsiLen {
		return IMSI{}, fmt.Errorf("invalid imsi(%s)", value)
	}
	for _, r := range imsi {
		if r < '0' || r > '9' {
			return IMSI{}, fmt.Errorf("invalid imsi(%s)", value)
		}
	}
	return IMSI{value: imsi}, nil
}

func (i IMSI) String() string {
	return i.value
}
