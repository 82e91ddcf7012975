package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/hireloop-api/internal/models"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
)

// SlotPolicy is the scheduling policy applied to slot generation and
// allocation. Location anchors day-of-week and wall-clock interpretation of
// availability rules; generated slots are stored as UTC instants.
type SlotPolicy struct {
	SlotDuration time.Duration
	WeeksAhead   int
	Location     *time.Location
	LockTTL      time.Duration
	StoreTimeout time.Duration
}

func (p SlotPolicy) withDefaults() SlotPolicy {
	if p.SlotDuration <= 0 {
		p.SlotDuration = 30 * time.Minute
	}
	if p.WeeksAhead <= 0 {
		p.WeeksAhead = 4
	}
	if p.Location == nil {
		p.Location = time.UTC
	}
	if p.LockTTL <= 0 {
		p.LockTTL = 30 * time.Second
	}
	return p
}

type availabilityReader interface {
	ListByHRUser(ctx context.Context, hrUserID string) ([]models.AvailabilityRule, error)
}

type interviewWriter interface {
	Create(ctx context.Context, interview *models.Interview) error
	ListScheduledBetween(ctx context.Context, hrUserID string, from, to time.Time) ([]time.Time, error)
}

type applicantReader interface {
	FindByID(ctx context.Context, id, hrUserID string) (*models.Applicant, error)
}

// Locker serializes slot allocation per HR user.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// SlotService generates bookable interview slots from recurring availability
// and assigns them to applicants.
type SlotService struct {
	availability availabilityReader
	interviews   interviewWriter
	applicants   applicantReader
	locks        Locker
	policy       SlotPolicy
	metrics      *MetricsService
	logger       *zap.Logger

	// injectable for deterministic tests
	now func() time.Time
}

// NewSlotService constructs the service.
func NewSlotService(availability availabilityReader, interviews interviewWriter, applicants applicantReader, locks Locker, policy SlotPolicy, metrics *MetricsService, logger *zap.Logger) *SlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotService{
		availability: availability,
		interviews:   interviews,
		applicants:   applicants,
		locks:        locks,
		policy:       policy.withDefaults(),
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// SkippedAssignment reports one applicant the allocator could not book.
type SkippedAssignment struct {
	ApplicantID string `json:"applicant_id"`
	Reason      string `json:"reason"`
}

// AssignmentResult is the explicit partial-success outcome of AssignSlots.
// Created may be lower than Requested; callers react via Skipped.
type AssignmentResult struct {
	Requested  int                 `json:"requested"`
	Created    int                 `json:"created"`
	Interviews []models.Interview  `json:"interviews"`
	Skipped    []SkippedAssignment `json:"skipped,omitempty"`
}

// GenerateAvailableSlots expands the HR user's weekly availability into every
// open slot between now and now+WeeksAhead weeks, ascending by start time.
// Slots whose minute collides with an existing interview are dropped. A rule
// whose window start has already passed today contributes nothing for that
// day; partial-day catch-up is not supported.
//
// Overlapping rules are expanded independently, so the same minute can appear
// more than once. Deduplicating would change capacity accounting, which is a
// product decision this layer does not take.
func (s *SlotService) GenerateAvailableSlots(ctx context.Context, hrUserID string) ([]models.CandidateSlot, error) {
	rules, err := s.listRules(ctx, hrUserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	if len(rules) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoAvailability, "no availability configured, set up your availability first")
	}

	now := s.now().In(s.policy.Location)
	horizonEnd := now.AddDate(0, 0, s.policy.WeeksAhead*7)

	blocked, err := s.blockedSlots(ctx, hrUserID, now, horizonEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing interviews")
	}

	byDay := make(map[time.Weekday][]models.AvailabilityRule, len(rules))
	for _, rule := range rules {
		day := time.Weekday(rule.DayOfWeek)
		byDay[day] = append(byDay[day], rule)
	}

	var slots []models.CandidateSlot
	for day := now; !day.After(horizonEnd); day = day.AddDate(0, 0, 1) {
		for _, rule := range byDay[day.Weekday()] {
			windowStart, windowEnd, err := ruleWindow(rule, day, s.policy.Location)
			if err != nil {
				s.logger.Sugar().Warnw("skipping malformed availability rule", "rule_id", rule.ID, "error", err)
				continue
			}
			if windowStart.Before(now) {
				continue
			}
			for t := windowStart; !t.Add(s.policy.SlotDuration).After(windowEnd); t = t.Add(s.policy.SlotDuration) {
				if _, taken := blocked[minuteKey(t)]; taken {
					continue
				}
				slots = append(slots, models.CandidateSlot{HRUserID: hrUserID, ScheduledAt: t})
			}
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].ScheduledAt.Before(slots[j].ScheduledAt)
	})

	s.metrics.ObserveSlotsGenerated(len(slots))
	return slots, nil
}

// AssignSlots books one open slot per applicant, in input order against
// chronological slot order. The whole batch fails up front when fewer slots
// exist than applicants; after that, each pairing succeeds or is skipped
// independently and reported in the result.
func (s *SlotService) AssignSlots(ctx context.Context, hrUserID string, applicantIDs []string) (*AssignmentResult, error) {
	if len(applicantIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "applicant_ids is required and must not be empty")
	}

	release, err := s.locks.Acquire(ctx, "slots:assign:"+hrUserID, s.policy.LockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	slots, err := s.GenerateAvailableSlots(ctx, hrUserID)
	if err != nil {
		return nil, err
	}
	if len(slots) < len(applicantIDs) {
		return nil, appErrors.Clone(appErrors.ErrInsufficientSlots, fmt.Sprintf(
			"found %d available slots for %d applicants, add more availability or split the request",
			len(slots), len(applicantIDs)))
	}

	result := &AssignmentResult{Requested: len(applicantIDs)}
	for i, applicantID := range applicantIDs {
		slot := slots[i]

		applicant, err := s.findApplicant(ctx, applicantID, hrUserID)
		if err != nil || applicant == nil {
			s.logger.Sugar().Warnw("skipping applicant", "applicant_id", applicantID, "hr_user_id", hrUserID, "error", err)
			result.Skipped = append(result.Skipped, SkippedAssignment{ApplicantID: applicantID, Reason: "applicant not found or not owned by caller"})
			continue
		}

		interview := &models.Interview{
			ApplicantID: applicantID,
			HRUserID:    hrUserID,
			ScheduledAt: slot.ScheduledAt.UTC(),
		}
		if err := s.interviews.Create(ctx, interview); err != nil {
			reason := "failed to persist interview"
			if appErrors.FromError(err).Code == appErrors.ErrSlotTaken.Code {
				reason = "slot already booked"
			}
			s.logger.Sugar().Warnw("skipping pairing", "applicant_id", applicantID, "scheduled_at", slot.ScheduledAt, "error", err)
			result.Skipped = append(result.Skipped, SkippedAssignment{ApplicantID: applicantID, Reason: reason})
			continue
		}

		result.Interviews = append(result.Interviews, *interview)
	}

	result.Created = len(result.Interviews)
	s.metrics.ObserveInterviewsCreated(result.Created)
	s.metrics.ObserveAssignmentsSkipped(len(result.Skipped))
	return result, nil
}

// blockedSlots returns the minute-keys already booked for the HR user within
// the inclusive range. Two interviews inside the same calendar minute collide
// regardless of seconds.
func (s *SlotService) blockedSlots(ctx context.Context, hrUserID string, from, to time.Time) (map[int64]struct{}, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	scheduled, err := s.interviews.ListScheduledBetween(ctx, hrUserID, from, to)
	if err != nil {
		return nil, err
	}
	blocked := make(map[int64]struct{}, len(scheduled))
	for _, t := range scheduled {
		blocked[minuteKey(t)] = struct{}{}
	}
	return blocked, nil
}

func (s *SlotService) listRules(ctx context.Context, hrUserID string) ([]models.AvailabilityRule, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.availability.ListByHRUser(ctx, hrUserID)
}

func (s *SlotService) findApplicant(ctx context.Context, id, hrUserID string) (*models.Applicant, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.applicants.FindByID(ctx, id, hrUserID)
}

func (s *SlotService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.policy.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.policy.StoreTimeout)
}

// ruleWindow combines a rule's wall-clock bounds with a concrete calendar day.
func ruleWindow(rule models.AvailabilityRule, day time.Time, loc *time.Location) (time.Time, time.Time, error) {
	startH, startM, err := parseClock(rule.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endH, endM, err := parseClock(rule.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), startH, startM, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), endH, endM, 0, 0, loc)
	return start, end, nil
}

// parseClock reads "HH:MM" (a trailing seconds component, as emitted by
// Postgres TIME columns, is tolerated and ignored).
func parseClock(raw string) (int, int, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("invalid clock value %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in clock value %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in clock value %q", raw)
	}
	return hour, minute, nil
}

// minuteKey truncates an instant to minute resolution, the collision
// granularity for bookings.
func minuteKey(t time.Time) int64 {
	return t.Truncate(time.Minute).Unix()
}
