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

// Package mgmt serves the rest management interface of the rnis manager
package mgmt

import (
	"errors"
	"io/ioutil"
	"net"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"rnis-manager/mecservice"
	"rnis-manager/models"
	"rnis-manager/util"
)

const (
	subscriptionsPath = "/rni/v2/subscriptions"
	subscriptionPath  = subscriptionsPath + "/:subscriptionId"
	servicePath       = "/rni/v2/service"
	subscriptionIdKey = "subscriptionId"
)

// Service is the mec service managed through the rest interface
type Service interface {
	ToDict() mecservice.ServiceView
	GetSubscription(id string) (mecservice.Instance, error)
	AddSubscription(id string, params []byte) (mecservice.Instance, error)
	RemoveSubscription(id string) error
	SubscriptionHref(id string) string
	SubscriptionLinks() models.SubscriptionLinkList
	DeliverEvent(id string, payload []byte) error
}

type Controller struct {
	service Service
	echo    *echo.Echo
}

func NewController(service Service) *Controller {
	e := &Controller{service: service, echo: echo.New()}
	e.echo.HideBanner = true

	// Middleware
	e.echo.Use(middleware.Logger())
	e.echo.Use(middleware.Recover())
	e.echo.Use(middleware.BodyLimit(util.MaxBodySize))

	// Routes
	e.echo.GET(subscriptionsPath, e.handleGetSubscriptions)
	e.echo.POST(subscriptionsPath, e.handleAddSubscription)
	e.echo.DELETE(subscriptionsPath, e.handleDeleteSubscriptions)
	e.echo.GET(subscriptionPath, e.handleGetSubscription)
	e.echo.PUT(subscriptionPath, e.handleSetSubscription)
	e.echo.DELETE(subscriptionPath, e.handleDeleteSubscription)
	e.echo.POST(subscriptionPath+"/ch", e.handleEvent)
	e.echo.GET(servicePath, e.handleGetService)
	e.echo.GET("/health", e.handleHealthResult)
	return e
}

// StartController serves until the controller is stopped
func (e *Controller) StartController(ipAddr net.IP, port int) error {
	err := e.echo.Start(net.JoinHostPort(ipAddr.String(), strconv.Itoa(port)))
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (e *Controller) StopController() error {
	if e.echo == nil {
		return nil
	}
	return e.echo.Close()
}

// ServeHTTP exposes the routes without a listener
func (e *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.echo.ServeHTTP(w, r)
}

func (e *Controller) handleGetSubscriptions(c echo.Context) error {
	return c.JSON(http.StatusOK, e.service.SubscriptionLinks())
}

func (e *Controller) handleAddSubscription(c echo.Context) error {
	return e.addSubscription(c, uuid.NewV4().String())
}

func (e *Controller) handleSetSubscription(c echo.Context) error {
	return e.addSubscription(c, c.Param(subscriptionIdKey))
}

func (e *Controller) addSubscription(c echo.Context, id string) error {
	// Input Example:
	//{
	//	"subscriptionType": "MeasRepUeSubscription",
	//	"callbackReference": "http://10.1.1.1:9000/notify",
	//	"filterCriteriaAssocTri": {
	//		"associateId": [{"type": "IMSI", "value": "222010000000001"}],
	//		"ecgi": {"plmn": {"mcc": "222", "mnc": "01"}}
	//	}
	//}
	body, err := ioutil.ReadAll(c.Request().Body)
	if err != nil {
		log.Error("Error in reading the subscription request body.")
		return writeError(c, &util.InvalidRequestError{Err: err})
	}
	inst, err := e.service.AddSubscription(id, body)
	if err != nil {
		log.Errorf("Failed to add subscription %s(%s).", id, err.Error())
		return writeError(c, err)
	}
	href := e.service.SubscriptionHref(id)
	c.Response().Header().Set(util.Location, href)
	return e.writeSubscription(c, http.StatusCreated, inst)
}

func (e *Controller) handleGetSubscription(c echo.Context) error {
	inst, err := e.service.GetSubscription(c.Param(subscriptionIdKey))
	if err != nil {
		return writeError(c, err)
	}
	return e.writeSubscription(c, http.StatusOK, inst)
}

func (e *Controller) handleDeleteSubscription(c echo.Context) error {
	if err := e.service.RemoveSubscription(c.Param(subscriptionIdKey)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (e *Controller) handleDeleteSubscriptions(c echo.Context) error {
	if err := e.service.RemoveSubscription(""); err != nil {
		log.Errorf("Failed to remove the subscriptions(%s).", err.Error())
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleEvent receives the reports of the remote worker
func (e *Controller) handleEvent(c echo.Context) error {
	body, err := ioutil.ReadAll(c.Request().Body)
	if err != nil || !gjson.ValidBytes(body) {
		return writeError(c, &util.InvalidRequestError{Err: errors.New("event is not valid json")})
	}
	if err = e.service.DeliverEvent(c.Param(subscriptionIdKey), body); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (e *Controller) handleGetService(c echo.Context) error {
	return c.JSON(http.StatusOK, e.service.ToDict())
}

func (e *Controller) handleHealthResult(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// writeSubscription answers with the subscription as requested plus its self link
func (e *Controller) writeSubscription(c echo.Context, code int, inst mecservice.Instance) error {
	rec := inst.Record()
	body := []byte(gjson.GetBytes(rec.Params, "subscription").Raw)
	body, err := sjson.SetBytes(body, "_links.self.href", e.service.SubscriptionHref(rec.SubscriptionId))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSONBlob(code, body)
}

func writeError(c echo.Context, err error) error {
	var (
		duplicate   *util.DuplicateSubscriptionError
		unknown     *util.UnknownSubscriptionTypeError
		unsupported *util.UnsupportedSubjectKindError
		invalid     *util.InvalidRequestError
		notFound    *util.SubscriptionNotFoundError
	)
	code := http.StatusInternalServerError
	switch {
	case errors.As(err, &duplicate):
		code = http.StatusConflict
	case errors.As(err, &unknown), errors.As(err, &unsupported), errors.As(err, &invalid):
		code = http.StatusBadRequest
	case errors.As(err, &notFound):
		code = http.StatusNotFound
	}
	return c.JSON(code, models.ProblemDetails{
		Title:  http.StatusText(code),
		Status: code,
		Detail: err.Error(),
	})
}
