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

package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/intranethq/collaborator-sync-service/internal/system/config"
	"github.com/intranethq/collaborator-sync-service/internal/system/constants"
	"github.com/intranethq/collaborator-sync-service/internal/system/log"
	"github.com/intranethq/collaborator-sync-service/internal/system/managers"
)

const configFile = "config/deployment.yaml"

func main() {

	serviceHome := getServiceHome()

	envFiles, _ := filepath.Glob(filepath.Join(serviceHome, "config", "*.env"))
	_ = godotenv.Load(envFiles...)

	cfg, err := config.LoadConfig(serviceHome, configFile)
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.InitializeSyncRuntime(serviceHome, cfg); err != nil {
		stdlog.Fatalf("Failed to initialize runtime configuration: %v", err)
	}
	if err := log.Init(cfg.Log.LogLevel); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := log.GetLogger()

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		logger.Fatal("Failed to register services.", log.Error(err))
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Addr.Host, cfg.Addr.Port)
	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener.", log.String("addr", serverAddr), log.Error(err))
	}
	logger.Info("Collaborator sync service started.", log.String("addr", serverAddr))

	server := &http.Server{Handler: enableCORS(mux)}
	if err := server.Serve(ln); err != nil {
		logger.Fatal("Failed to serve requests.", log.Error(err))
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origins := config.GetSyncRuntime().Config.Auth.CORSAllowedOrigins
		origin := r.Header.Get("Origin")
		for _, allowed := range origins {
			if allowed == "*" || allowed == origin {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				break
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getServiceHome() string {

	homeFlag := flag.String("serviceHome", "", "Path to the service home directory")
	flag.Parse()

	if *homeFlag != "" {
		return *homeFlag
	}
	dir, err := os.Getwd()
	if err != nil {
		stdlog.Fatalf("Failed to get current working directory: %v", err)
	}
	return dir
}
