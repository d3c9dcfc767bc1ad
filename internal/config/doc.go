// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

/*
Package config loads Travia configuration with koanf.

Sources are layered in increasing priority:

 1. Struct defaults (defaultConfig)
 2. A YAML file: CONFIG_PATH, then config.yaml, config.yml and
    /etc/travia/config.{yaml,yml}
 3. Environment variables listed in envMappings

Only mapped environment variables are read; anything else in the process
environment is ignored. CORS_ORIGINS accepts a comma-separated list.

Example config.yaml:

	server:
	  port: 8000
	database:
	  path: /data/travia.duckdb
	recommend:
	  artifact_store: badger
	  artifact_path: /data/models
	  training_mode: async
	  training_rate: 2

The recommend section covers the operator-facing engine settings.
RecommendConfig.EngineConfig expands it into a recommend.Config, keeping
engine defaults for everything not exposed here.
*/
package config
