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

import (
	"crypto/tls"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/astaxie/beego/httplib"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/sjson"
)

// RestResponse is the outcome of a request that reached the remote end
type RestResponse struct {
	Code   int
	Body   []byte
	Header http.Header
}

// RestClient sends the outbound requests towards the registry and the controller
type RestClient interface {
	// Get - issue a GET request
	Get(url string) (*RestResponse, error)

	// Post - issue a POST request, data is sent as json with the api version injected
	Post(url string, data interface{}) (*RestResponse, error)

	// Forward - POST an already encoded json body as is
	Forward(url string, body []byte) (*RestResponse, error)
}

// HttpClient is the beego httplib based RestClient
type HttpClient struct {
	User      string
	Password  string
	TLSConfig *tls.Config
}

// NewHttpClient creates a client, basic auth is used when user is not empty
func NewHttpClient(user, password string) *HttpClient {
	return &HttpClient{User: user, Password: password}
}

// Get sends get request
func (c *HttpClient) Get(url string) (*RestResponse, error) {
	return c.send(url, GetMethod, nil)
}

// Post sends post request
func (c *HttpClient) Post(url string, data interface{}) (*RestResponse, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	body, err = sjson.SetBytes(body, VersionKey, ApiVersion)
	if err != nil {
		return nil, err
	}
	return c.send(url, PostMethod, body)
}

// Forward sends post request with a raw body
func (c *HttpClient) Forward(url string, body []byte) (*RestResponse, error) {
	return c.send(url, PostMethod, body)
}

func (c *HttpClient) send(url string, method string, body []byte) (*RestResponse, error) {
	log.Debugf("New rest request url: %s, method: %s.", url, method)
	req := httplib.NewBeegoRequest(url, method)
	if body != nil {
		req.Header(ContentType, JsonContentType)
		req.Body(body)
	}
	if len(c.User) != 0 {
		req.SetBasicAuth(c.User, c.Password)
	}
	if c.TLSConfig != nil {
		req.SetTLSClientConfig(c.TLSConfig)
	}

	resp, err := req.Response()
	if err != nil {
		return nil, &RemoteUnavailableError{URL: url, Err: err}
	}
	respBody, err := req.Bytes()
	if err != nil {
		return nil, &RemoteUnavailableError{URL: url, Err: err}
	}
	log.Debugf("Rest request completed(url: %s, status: %d).", url, resp.StatusCode)
	return &RestResponse{Code: resp.StatusCode, Body: respBody, Header: resp.Header}, nil
}

// ExpectStatus returns a RemoteRejectedError when the response code is not the expected one
func ExpectStatus(url string, resp *RestResponse, code int) error {
	if resp.Code != code {
		return &RemoteRejectedError{URL: url, Code: resp.Code}
	}
	return nil
}

// LastPathSegment returns the last non empty segment of a location uri
func LastPathSegment(location string) string {
	location = strings.TrimRight(location, "/")
	idx := strings.LastIndex(location, "/")
	return location[idx+1:]
}
