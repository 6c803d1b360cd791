/*
 * Copyright (c) 2025-2026, IntranetHQ, Inc. (https://intranethq.io).
 *
 * IntranetHQ licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package config

import "sync"

// SyncRuntime holds the runtime configuration for the sync service.
type SyncRuntime struct {
	ServiceHome string `yaml:"service_home"`
	Config      Config `yaml:"config"`
}

var (
	runtimeConfig *SyncRuntime
	once          sync.Once
)

// InitializeSyncRuntime initializes the SyncRuntime configuration.
func InitializeSyncRuntime(serviceHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &SyncRuntime{
			ServiceHome: serviceHome,
			Config:      *config,
		}
	})

	return nil
}

// GetSyncRuntime returns the SyncRuntime configuration.
func GetSyncRuntime() *SyncRuntime {

	if runtimeConfig == nil {
		panic("SyncRuntime is not initialized")
	}
	return runtimeConfig
}

// OverrideSyncRuntime replaces the runtime configuration. Test hook.
func OverrideSyncRuntime(conf Config) {
	runtimeConfig = &SyncRuntime{
		Config: conf,
	}
}
