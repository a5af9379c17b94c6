/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package app wires configuration, logging and signal handling around the
// proxy core, the way cmd/gate/gate.go does for the teacher's own proxy.
package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gatekit/mcproxy/internal/store"
	"github.com/gatekit/mcproxy/internal/store/sqlstore"
	"github.com/gatekit/mcproxy/pkg/config"
	"github.com/gatekit/mcproxy/pkg/proxy"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Run loads configuration, starts logging, validates the config, opens the
// backing store, and serves until a termination signal arrives.
func Run() (err error) {
	cfg := config.Default()
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if err := initLogger(cfg.Debug); err != nil {
		return fmt.Errorf("error initializing global logger: %w", err)
	}

	if err := config.Validate(&cfg); err != nil {
		return fmt.Errorf("error validating config: %w", err)
	}

	st, err := openStore(&cfg)
	if err != nil {
		return fmt.Errorf("error opening store: %w", err)
	}
	defer func() { _ = st.Close() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer func() { signal.Stop(sig); close(sig) }()

	p, err := proxy.New(&cfg)
	if err != nil {
		return fmt.Errorf("error initializing proxy: %w", err)
	}
	p.SetStore(st)

	if cfg.AdminBind != "" {
		go func() {
			if err := p.ListenAdmin(cfg.AdminBind); err != nil {
				zap.S().Warnf("admin channel stopped: %v", err)
			}
		}()
	}

	go func() {
		s, ok := <-sig
		if !ok {
			return
		}
		zap.S().Infof("received %s signal", s)
		p.Shutdown("mcproxy is shutting down...\nPlease reconnect in a moment!")
	}()

	return p.Run()
}

// openStore picks the MySQL-backed store when database-dsn is configured,
// otherwise the in-memory/YAML store (persisted only if a path is given).
func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.DatabaseDSN != "" {
		return sqlstore.Open(cfg.DatabaseDSN)
	}
	return store.Open(cfg.BanStorePath, cfg.UUIDCachePath)
}

func initLogger(debug bool) (err error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(l)
	return nil
}
