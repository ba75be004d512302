package resolver

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"
)

// nextWave implements spec.md §4.4's next_wave() algorithm: check the
// stop condition, otherwise launch a multicast burst (and, after
// multicast_min_rtt, a unicast burst if any known peers are configured),
// then re-arm itself after the computed delay.
func (r *Resolver) nextWave(ctx context.Context) {
	n := r.results.size()
	stop := r.cancelled.Load() ||
		r.expired.Load() ||
		(r.minimum > 0 && n >= r.minimum && !r.clock.Now().Before(r.waitUntil))
	if stop {
		r.cancelOngoing()
		return
	}

	r.launchBurst(ctx, "multicast", r.catalog.McastEndpoints, r.store.Tuning.MulticastMaxRTT, true)

	delay := r.store.Tuning.MulticastMinRTT
	if !r.fastMode {
		delay += r.store.Tuning.ContinuousResolveInterval
	}

	if len(r.catalog.UcastEndpoints) > 0 {
		ucastTimer := r.clock.AfterFunc(r.store.Tuning.MulticastMinRTT, func() {
			if r.expired.Load() {
				return
			}
			r.launchBurst(ctx, "unicast", r.catalog.UcastEndpoints, r.store.Tuning.UnicastMaxRTT, false)
		})
		r.mu.Lock()
		r.ucastTimer = ucastTimer
		r.mu.Unlock()

		delay += r.store.Tuning.UnicastMinRTT
	}

	waveTimer := r.clock.AfterFunc(delay, func() {
		if r.expired.Load() {
			return
		}
		r.nextWave(ctx)
	})
	r.mu.Lock()
	r.waveTimer = waveTimer
	r.mu.Unlock()
}

// launchBurst starts one resolve attempt per enabled protocol family
// over endpoints and returns immediately; it never blocks the caller
// (spec.md §4.3 "a single attempt never blocks the scheduler thread").
// A goroutine collects the per-family outcomes in the background and
// logs once: WARNING if some families failed, ERROR if every family in
// the burst failed to start (spec.md §4.3).
//
// The expired check and the r.wg.Add for this burst happen under r.mu,
// the same lock cancelOngoing holds while it sets expired. That keeps
// "a burst registers itself with r.wg" and "cancelOngoing decides r.wg
// is fully drained" mutually exclusive: either this call observes
// expired already set and launches nothing, or it adds to r.wg before
// cancelOngoing can (and therefore before the drain goroutine's
// r.wg.Wait can) treat the burst as having never started.
func (r *Resolver) launchBurst(ctx context.Context, label string, endpoints []Endpoint, maxRTT time.Duration, multicast bool) {
	if len(endpoints) == 0 {
		return
	}

	families := r.catalog.Protocols

	r.mu.Lock()
	if r.expired.Load() {
		r.mu.Unlock()
		return
	}
	r.wg.Add(len(families))
	r.mu.Unlock()

	errs := make([]error, len(families))

	var burstWG sync.WaitGroup
	for i, fam := range families {
		i, fam := i, fam
		burstWG.Add(1)
		go func() {
			defer r.wg.Done()
			defer burstWG.Done()
			a := &attempt{
				family:     fam,
				endpoints:  endpoints,
				query:      r.query,
				results:    r.results,
				deadline:   maxRTT,
				multicast:  multicast,
				ttl:        r.ttl,
				listenAddr: r.store.ListenAddress,
				clock:      r.clock,
			}
			errs[i] = a.run(ctx)
		}()
	}

	go func() {
		burstWG.Wait()
		combined := multierr.Combine(errs...)
		if combined == nil {
			return
		}
		if len(multierr.Errors(combined)) == len(families) {
			logger.Error("resolve burst failed on every protocol family", "wave", label, "error", combined)
		} else {
			logger.Warn("resolve burst partially failed", "wave", label, "error", combined)
		}
	}()
}

// cancelOngoing implements spec.md §4.4's cancel_ongoing_resolve: it
// sets expired so in-flight and future timer callbacks exit without
// rescheduling, stops both per-wave timers, and — once — starts the
// drain that closes r.stopped after every in-flight attempt has
// returned. expired is set under r.mu, the same lock launchBurst holds
// while checking expired and registering with r.wg, so a burst either
// starts strictly before this call (and is waited for) or not at all.
func (r *Resolver) cancelOngoing() {
	r.mu.Lock()
	r.expired.Store(true)
	if r.waveTimer != nil {
		r.waveTimer.Stop()
	}
	if r.ucastTimer != nil {
		r.ucastTimer.Stop()
	}
	cancel := r.runCancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	r.stopOnce.Do(func() {
		go func() {
			r.wg.Wait()
			close(r.stopped)
		}()
	})
}
