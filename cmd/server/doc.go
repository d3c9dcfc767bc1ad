// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

/*
Package main is the entry point for the Travia server.

Travia learns what each traveler likes from explicit feedback and business
metadata, and plans multi-day itineraries of meals and activities ranked by
a shared actor-critic model that is fine-tuned online with PPO.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("travia")
	├── DataSupervisor ("data-layer")
	│   └── Checkpoint service (model artifact + DuckDB checkpoint)
	├── TrainingSupervisor ("training-layer")
	│   └── Training processor (async mode only, Watermill gochannel)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB schema, optional demo data
 4. Artifact store: file or BadgerDB, behind a circuit breaker
 5. Engine: restores the latest model version when one is stored
 6. Training events (async mode): in-process bus and rate-limited consumer
 7. HTTP Server: Chi router with request ID, metrics, CORS and rate limits

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=8000
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Database
	DUCKDB_PATH=/data/travia.duckdb
	SEED_DEMO_DATA=false

	# Recommendation engine
	ARTIFACT_STORE=file          # file or badger
	ARTIFACT_PATH=/data/models
	TRAINING_MODE=async          # sync or async
	CHECKPOINT_INTERVAL=10m

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests, the checkpoint service runs a final pass, and the model is saved
once more before the database closes.

# Example Usage

Local development with demo businesses:

	export SEED_DEMO_DATA=true
	export DUCKDB_PATH=:memory:
	export LOG_FORMAT=console
	./travia

	curl -X POST localhost:8000/api/v1/users -d '{"username":"ana"}'
	curl -X POST localhost:8000/api/v1/users/1/preferences \
	  -d '{"location":"Austin","preferred_cuisine":["Italian"],"travel_days":2}'
	curl -X POST localhost:8000/api/v1/users/1/itinerary
*/
package main
