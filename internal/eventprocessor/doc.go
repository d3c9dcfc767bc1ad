// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

/*
Package eventprocessor moves model training off the request path.

Feedback endpoints call the engine, which hands retraining to a
TrainingScheduler. The scheduler publishes a TrainingRequested event on an
in-process Watermill GoChannel; a Processor consumes the topic through a
Watermill router and calls the trainer.

Flow:

	SubmitFeedback -> ScheduleTraining -> gochannel "training.requested"
	                                              |
	                                   Router (Recoverer, rate limit)
	                                              |
	                                      Trainer.Train(userID)

Requests for a user that already has one queued are coalesced: the queued
run will read the newest history anyway. The consumer waits on an
x/time/rate limiter before each run so bursts of feedback cannot saturate
the CPU with back-to-back PPO updates.

When the processor is not running ScheduleTraining returns ErrNotRunning
and the engine falls back to training inline.

The Processor implements suture.Service and is supervised in the
messaging layer.
*/
package eventprocessor
