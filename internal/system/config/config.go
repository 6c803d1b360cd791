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

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

// AuthConfig carries the credentials that protect the operational API.
type AuthConfig struct {
	AdminUsername      string   `yaml:"admin_username"`
	AdminPassword      string   `yaml:"admin_password"`
	JWTSecret          string   `yaml:"jwt_secret"`
	JWTAudience        string   `yaml:"jwt_audience"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// DirectoryConfig describes the upstream CRM directory API.
type DirectoryConfig struct {
	BaseURL                string `yaml:"base_url"`
	Module                 string `yaml:"module"`
	TokenURL               string `yaml:"token_url"`
	ClientID               string `yaml:"client_id"`
	ClientSecret           string `yaml:"client_secret"`
	RefreshToken           string `yaml:"refresh_token"`
	PageSize               int    `yaml:"page_size"`
	DownloadTimeoutSeconds int    `yaml:"download_timeout_seconds"`
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// DocumentStoreConfig describes the Mongo database backing the attachment
// metadata cache.
type DocumentStoreConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type SyncConfig struct {
	DefaultPassword string `yaml:"default_password"`
	ErrorSampleSize int    `yaml:"error_sample_size"`
}

type Config struct {
	Addr          AddrConfig          `yaml:"addr"`
	Log           LogConfig           `yaml:"log"`
	Auth          AuthConfig          `yaml:"auth"`
	Directory     DirectoryConfig     `yaml:"directory"`
	DataSource    DataSourceConfig    `yaml:"datasource"`
	DocumentStore DocumentStoreConfig `yaml:"document_store"`
	Sync          SyncConfig          `yaml:"sync"`
}
