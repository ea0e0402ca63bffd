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

// Package scheduler runs the periodic loops of the service and its subscriptions
package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Task is one tick of a periodic unit
type Task func(ctx context.Context)

// Scheduler runs every job in its own goroutine, a job tick never overlaps the previous one
type Scheduler struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	jobs   map[string]context.CancelFunc
	wg     sync.WaitGroup
}

func New(ctx context.Context) *Scheduler {
	sCtx, cancel := context.WithCancel(ctx)
	return &Scheduler{
		ctx:    sCtx,
		cancel: cancel,
		jobs:   make(map[string]context.CancelFunc),
	}
}

// Add starts the job, the first tick runs immediately
func (s *Scheduler) Add(name string, every time.Duration, task Task) error {
	if every <= 0 {
		return fmt.Errorf("invalid interval(%v) for job %s", every, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return fmt.Errorf("scheduler stopped")
	}
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("job %s already scheduled", name)
	}
	jobCtx, cancel := context.WithCancel(s.ctx)
	s.jobs[name] = cancel
	s.wg.Add(1)
	go s.run(jobCtx, name, every, task)
	log.Debugf("Job(%s) scheduled every %v.", name, every)
	return nil
}

// Remove stops the job, a tick in progress completes
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.jobs[name]; ok {
		cancel()
		delete(s.jobs, name)
		log.Debugf("Job(%s) removed.", name)
	}
}

// Jobs returns the number of scheduled jobs
func (s *Scheduler) Jobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Stop cancels every job and waits for the running ticks
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.cancel()
	s.jobs = make(map[string]context.CancelFunc)
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, name string, every time.Duration, task Task) {
	defer s.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		tick(ctx, name, task)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func tick(ctx context.Context, name string, task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Job(%s) panic: %v \n %s", name, r, string(debug.Stack()))
		}
	}()
	task(ctx)
}
