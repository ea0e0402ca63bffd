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

package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	interval = 10 * time.Millisecond
	wait     = time.Second
)

func TestSchedulerRunsJob(t *testing.T) {
	s := New(context.Background())
	defer s.Stop()

	var count int32
	err := s.Add("job", interval, func(ctx context.Context) {
		atomic.AddInt32(&count, 1)
	})
	assert.Nil(t, err)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&count) >= 3 }, wait, interval)

	assert.NotNil(t, s.Add("job", interval, func(ctx context.Context) {}), "duplicate job accepted")
	assert.NotNil(t, s.Add("zero", 0, func(ctx context.Context) {}), "zero interval accepted")
	assert.Equal(t, 1, s.Jobs())
}

func TestSchedulerTicksDoNotOverlap(t *testing.T) {
	s := New(context.Background())
	defer s.Stop()

	var running, overlap, count int32
	err := s.Add("slow", time.Millisecond, func(ctx context.Context) {
		if atomic.AddInt32(&running, 1) > 1 {
			atomic.StoreInt32(&overlap, 1)
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&count, 1)
		atomic.AddInt32(&running, -1)
	})
	assert.Nil(t, err)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&count) >= 5 }, wait, time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&overlap))
}

func TestSchedulerRemoveAndPanic(t *testing.T) {
	s := New(context.Background())

	var count int32
	err := s.Add("panics", interval, func(ctx context.Context) {
		atomic.AddInt32(&count, 1)
		panic("tick failure")
	})
	assert.Nil(t, err)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&count) >= 2 }, wait, interval)

	s.Remove("panics")
	s.Remove("unknown")
	assert.Equal(t, 0, s.Jobs())

	s.Stop()
	assert.NotNil(t, s.Add("late", interval, func(ctx context.Context) {}), "job accepted after stop")
}
