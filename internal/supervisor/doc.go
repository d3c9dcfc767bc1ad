// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

/*
Package supervisor provides Suture-based process supervision for Travia.

Long-running components implement suture.Service and are placed in one of
three layers under a root supervisor:

	travia (root)
	├── data-layer      checkpoint service (model artifacts, DuckDB WAL)
	├── training-layer  background training processor
	└── api-layer       HTTP server

Each layer restarts its own services with backoff, so a panicking training
run does not take down request handling. Supervisor events are logged
through sutureslog into the zerolog-backed slog adapter:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewCheckpointService(...))
	tree.AddTrainingService(processor)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	errCh := tree.ServeBackground(ctx)

Service adapters live in the services subpackage.
*/
package supervisor
