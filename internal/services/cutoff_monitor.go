package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"fulfillment-cutoff-service/internal/domain"
	"fulfillment-cutoff-service/internal/platform/metrics"
	"fulfillment-cutoff-service/internal/platform/obs"
	"fulfillment-cutoff-service/internal/ports"
)

// DefaultRefreshInterval is how often a live cutoff display recomputes.
const DefaultRefreshInterval = 30 * time.Second

// CutoffUpdate is one evaluation of a location/division cutoff.
// Err is set, and Indicator is Unavailable, when the rules could not load.
type CutoffUpdate struct {
	LocationID string
	Division   domain.Division
	TimeZoneID string
	Status     domain.CutoffStatus
	Indicator  domain.Indicator
	At         time.Time
	Err        error
}

// CutoffMonitor evaluates cutoff status on demand and drives live
// countdown watches.
type CutoffMonitor struct {
	Rules    ports.CutoffRuleStore
	Interval time.Duration
	Now      func() time.Time
}

func NewCutoffMonitor(rules ports.CutoffRuleStore, interval time.Duration) *CutoffMonitor {
	return &CutoffMonitor{Rules: rules, Interval: interval, Now: time.Now}
}

// Evaluate returns the current status for one location and division. It
// never fails: missing rules give the unknown status and load failures the
// Unavailable indicator.
func (m *CutoffMonitor) Evaluate(ctx context.Context, locationID string, division domain.Division) CutoffUpdate {
	u := CutoffUpdate{LocationID: locationID, Division: division, At: m.now()}

	rules, err := m.Rules.GetRuleSet(ctx, locationID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		u.Status = domain.UnknownCutoffStatus()
		u.Indicator = u.Status.Indicator()
	case err != nil:
		u.Err = err
		u.Indicator = domain.IndicatorUnavailable
	default:
		u.TimeZoneID = rules.TimeZoneID
		u.Status, err = EvaluateCutoff(rules, division, u.At)
		if err != nil {
			u.Err = err
			u.Indicator = domain.IndicatorUnavailable
		} else {
			u.Indicator = u.Status.Indicator()
		}
	}

	if u.Err != nil {
		log.Printf("req_id=%s location_id=%s division=%s op=cutoff.Evaluate err=%v", obs.RequestID(ctx), locationID, division, u.Err)
	}
	metrics.CutoffEvaluationsTotal.WithLabelValues(string(u.Indicator)).Inc()

	return u
}

type watchTarget struct {
	locationID string
	division   domain.Division
}

// CutoffWatch is a running live countdown. Stop it when the display goes
// away; it also stops when the context passed to Watch is cancelled.
type CutoffWatch struct {
	updates  chan CutoffUpdate
	retarget chan watchTarget
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// Watch starts a live countdown. An update is emitted immediately, then every
// Interval, and again whenever Retarget changes the location or division.
func (m *CutoffMonitor) Watch(ctx context.Context, locationID string, division domain.Division) *CutoffWatch {
	ctx, cancel := context.WithCancel(ctx)
	w := &CutoffWatch{
		updates:  make(chan CutoffUpdate, 1),
		retarget: make(chan watchTarget),
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go m.run(ctx, w, watchTarget{locationID: locationID, division: division})

	return w
}

func (m *CutoffMonitor) run(ctx context.Context, w *CutoffWatch, target watchTarget) {
	defer close(w.done)
	defer close(w.updates)

	ticker := time.NewTicker(m.interval())
	defer ticker.Stop()

	// Only the latest reading matters; a stale unread update is replaced.
	emit := func() {
		u := m.Evaluate(ctx, target.locationID, target.division)
		select {
		case w.updates <- u:
		default:
			select {
			case <-w.updates:
			default:
			}
			w.updates <- u
		}
	}

	emit()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			emit()
		case t := <-w.retarget:
			target = t
			ticker.Reset(m.interval())
			emit()
		}
	}
}

// Updates delivers evaluations until the watch stops, then is closed.
func (w *CutoffWatch) Updates() <-chan CutoffUpdate {
	return w.updates
}

// Retarget switches the watch to another location or division and
// recomputes immediately. It is a no-op once the watch has stopped.
func (w *CutoffWatch) Retarget(locationID string, division domain.Division) {
	select {
	case w.retarget <- watchTarget{locationID: locationID, division: division}:
	case <-w.done:
	}
}

// Stop ends the watch and waits for its goroutine to exit.
func (w *CutoffWatch) Stop() {
	w.stopOnce.Do(w.cancel)
	<-w.done
}

func (m *CutoffMonitor) interval() time.Duration {
	if m.Interval > 0 {
		return m.Interval
	}
	return DefaultRefreshInterval
}

func (m *CutoffMonitor) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
