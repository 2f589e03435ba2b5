package schedule

import (
	"context"
	"errors"
	"fmt"
	"journald/internal/models"
	"journald/internal/providers"
	"journald/internal/schedule/interfaces"
	"journald/internal/services"
	"journald/internal/store"
	"journald/internal/structures"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
)

// ErrZoneBusy is returned when a digest run for the same zone is still going.
var ErrZoneBusy = errors.New("digest run already in progress")

type DigestResult struct {
	Timezone      string `json:"timezone"`
	Users         int    `json:"users"`
	SummariesSent int    `json:"summariesSent"`
	NoEntriesSent int    `json:"noEntriesSent"`
	Failed        int    `json:"failed"`
}

type DigestRunnerInterface interface {
	ProcessTimezone(ctx context.Context, timezone string) (DigestResult, error)
	ProcessAll(ctx context.Context) ([]DigestResult, error)
}

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	store       store.EntryStoreInterface
	digest      services.DigestServiceInterface
	users       *services.LocalUserStore
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface

	digestCron *cron.Cron
	cron       *gron.Cron
	opsMu      sync.Mutex
	// running holds an *atomic.Bool per zone.
	running sync.Map

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Init starts the per-zone digest triggers and the periodic save of local users.
func (s *Scheduler) Init() error {
	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		if !s.users.Dirty() {
			return
		}
		if err := s.Persist(); err == nil {
			s.logger.Infof(providers.TypeScheduler, "Persisted local users to %s", s.config.Persistence.FilePath)
		}
	})
	s.cron.Start()

	if !s.config.Schedule.Enabled {
		s.logger.Infof(providers.TypeScheduler, "Daily digests disabled")
		return nil
	}

	s.digestCron = cron.New()
	ids := make(map[string]cron.EntryID, len(KnownTimezones))
	for _, zone := range KnownTimezones {
		name := zone.Name
		id, err := s.digestCron.AddFunc(ZoneSpec(name, s.config.Schedule.DigestSpec), func() {
			s.runZone(name)
		})
		if err != nil {
			s.cron.Stop()
			return fmt.Errorf("scheduling digest for %s: %w", name, err)
		}
		ids[name] = id
	}
	s.digestCron.Start()

	for _, zone := range KnownTimezones {
		next := s.digestCron.Entry(ids[zone.Name]).Next
		s.logger.Infof(providers.TypeScheduler, "Digest for %s next runs at %s", zone.Name, next.UTC().Format(time.RFC3339))
	}
	return nil
}

func (s *Scheduler) runZone(zone string) {
	if _, err := s.ProcessTimezone(context.Background(), zone); err != nil {
		s.logger.Errorf(providers.TypeScheduler, "Digest run for %s aborted: %s", zone, err)
	}
}

// DigestEntries returns the registered digest triggers, empty before Init.
func (s *Scheduler) DigestEntries() []cron.Entry {
	if s.digestCron == nil {
		return nil
	}
	return s.digestCron.Entries()
}

// ProcessTimezone mails every rostered user whose timezone is exactly zone,
// one at a time with a fixed pause between users. Per-user failures are
// logged and counted, never retried. A second run for a zone that is still
// being processed fails with ErrZoneBusy.
func (s *Scheduler) ProcessTimezone(ctx context.Context, zone string) (DigestResult, error) {
	res := DigestResult{Timezone: zone}

	flag, _ := s.running.LoadOrStore(zone, atomic.NewBool(false))
	busy := flag.(*atomic.Bool)
	if !busy.CompareAndSwap(false, true) {
		return res, fmt.Errorf("%w for %s", ErrZoneBusy, zone)
	}
	defer busy.Store(false)

	roster, err := s.store.GetAllUsers(ctx)
	if err != nil {
		return res, fmt.Errorf("loading roster: %w", err)
	}

	var matching []models.RosterUser
	for _, u := range roster {
		if u.Timezone == zone {
			matching = append(matching, u)
		}
	}
	res.Users = len(matching)
	s.logger.Infof(providers.TypeScheduler, "Processing daily digests for %s: %d users", zone, len(matching))

	for i, u := range matching {
		if i > 0 {
			if err = s.sleep(ctx, s.config.Schedule.UserDelay); err != nil {
				s.logResult(res)
				return res, err
			}
		}

		kind, perr := s.digest.ProcessUser(ctx, u, s.now())
		if perr != nil {
			res.Failed++
			s.metrics.IncDigestFailures(zone)
			s.logger.Errorf(providers.TypeScheduler, "Digest for %s (%s) failed: %s", u.Username, zone, perr)
			continue
		}
		switch kind {
		case services.DigestSummary:
			res.SummariesSent++
		case services.DigestNoEntries:
			res.NoEntriesSent++
		}
	}

	s.logResult(res)
	return res, nil
}

// ProcessAll runs every known zone in table order.
func (s *Scheduler) ProcessAll(ctx context.Context) ([]DigestResult, error) {
	results := make([]DigestResult, 0, len(KnownTimezones))
	var errs []error
	for _, zone := range KnownTimezones {
		res, err := s.ProcessTimezone(ctx, zone.Name)
		results = append(results, res)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", zone.Name, err))
			if ctx.Err() != nil {
				break
			}
		}
	}
	return results, errors.Join(errs...)
}

func (s *Scheduler) logResult(res DigestResult) {
	s.logger.Infof(providers.TypeScheduler, "Digests for %s: %d summaries, %d no-entry reminders, %d failed",
		res.Timezone, res.SummariesSent, res.NoEntriesSent, res.Failed)
}

func (s *Scheduler) Stop() {
	if s.digestCron != nil {
		s.digestCron.Stop()
	}
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if err := s.fileManager.LoadFromFile(s.config.Persistence.FilePath); err != nil {
		return err
	}
	s.logger.Infof(providers.TypeScheduler, "Restored %d local users", s.users.Len())
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeScheduler, "Error while persisting local users: %s", err)
		return err
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func NewScheduler(config *structures.Config, logger providers.Logger, entryStore store.EntryStoreInterface, digest services.DigestServiceInterface, users *services.LocalUserStore, fileManager *FileManager, metrics providers.MetricsProviderInterface) *Scheduler {
	return &Scheduler{
		config:      config,
		logger:      logger,
		store:       entryStore,
		digest:      digest,
		users:       users,
		fileManager: fileManager,
		metrics:     metrics,
		now:         time.Now,
		sleep:       sleepContext,
	}
}

var (
	_ interfaces.SchedulerInterface = (*Scheduler)(nil)
	_ DigestRunnerInterface         = (*Scheduler)(nil)
)
