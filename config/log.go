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

package config

import (
	"os"

	"github.com/natefinch/lumberjack"
	log "github.com/sirupsen/logrus"

	"rnis-manager/util"
)

// InitLog sends the logs to a rotated file, stderr is kept when the file can not be opened
func InitLog(fileName string) {
	log.SetLevel(log.InfoLevel)
	if len(fileName) == 0 {
		return
	}
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		log.Warn("Failed to log to file, using default stderr")
		return
	}
	if err = file.Close(); err != nil {
		log.Error("failed to close the log file")
		return
	}
	log.SetOutput(&lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    util.MaxSize, // megabytes
		MaxBackups: util.MaxBackups,
		MaxAge:     util.MaxAge, // days
		Compress:   true,
	})
}
