// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

/*
Package engine orchestrates the recommendation pipeline.

An itinerary request flows through these stages:

 1. Read the user's latest explicit preferences. Without them the request
    fails with recommend.ErrNoPreferences.
 2. Train the global policy model on the user's recent likes and dislikes
    (best effort, skipped below the minimum history).
 3. Learn a preference profile from liked-post metadata, filled in by the
    attributes of liked businesses.
 4. Select candidates through the tiered selector (70% preferred, 30%
    variety) and drop those matching learned dislike patterns.
 5. Score every candidate with the actor-critic model.
 6. Assemble a day-by-day itinerary by score-weighted sampling.

Feedback is recorded through SubmitFeedback and RemoveFeedback. Both trigger
retraining, either inline or through a Scheduler installed with
SetScheduler. Training and persistence failures are logged and never fail
the request that triggered them.

The model is shared by all users. Training runs serialize on the model;
scoring may run concurrently with training and observes either the old or
the new weights, never a mix.
*/
package engine
