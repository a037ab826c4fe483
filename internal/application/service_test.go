package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventcore/internal/domain"
	"eventcore/internal/domain/entities"
	"eventcore/internal/infrastructure/clock"
	"eventcore/internal/infrastructure/memory"
	"eventcore/internal/infrastructure/metrics"
	"eventcore/internal/infrastructure/notify"
	"eventcore/internal/ports/output"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []entities.Notification
}

func (n *recordingNotifier) Publish(msg entities.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recordingNotifier) kinds() []entities.NotificationKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]entities.NotificationKind, 0, len(n.msgs))
	for _, m := range n.msgs {
		out = append(out, m.Kind)
	}
	return out
}

type harness struct {
	events       *EventService
	participants *ParticipantService
	store        *memory.EventStore
	ledger       *memory.Ledger
	users        *memory.UserDirectory
	clock        *clock.Manual
	notifier     *recordingNotifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ledger := memory.NewLedger()
	h := &harness{
		ledger: ledger,
		store:  memory.NewEventStore(ledger),
		users: memory.NewUserDirectory(
			entities.UserSummary{ID: "X", FullName: "Xavier", Email: "x@example.com"},
			entities.UserSummary{ID: "Y", FullName: "Yasmine", Email: "y@example.com"},
			entities.UserSummary{ID: "Z", FullName: "Zoe", Email: "z@example.com"},
		),
		clock:    clock.NewManual(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)),
		notifier: &recordingNotifier{},
	}
	deps := Deps{
		Store:    h.store,
		Ledger:   h.ledger,
		Users:    h.users,
		Notifier: h.notifier,
		Clock:    h.clock,
		Metrics:  metrics.New(prometheus.NewRegistry()),
	}
	h.events = NewEventService(deps)
	h.participants = NewParticipantService(deps)
	return h
}

func (h *harness) create(t *testing.T, max *int, participants ...string) entities.EventView {
	t.Helper()
	v, err := h.events.CreateEvent(context.Background(), entities.EventSpec{
		Title:           "Board games",
		Description:     "Bring snacks",
		Start:           time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
		End:             time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC),
		MaxParticipants: max,
		ParticipantIDs:  participants,
	})
	require.NoError(t, err)
	return v
}

func ptr[T any](v T) *T { return &v }

func TestJoinLeave_FreedSlotIsReusable(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, ptr(1))

	v, err := h.participants.JoinEvent(ctx, ev.ID, "X")
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, v.Participants)

	_, err = h.participants.JoinEvent(ctx, ev.ID, "Y")
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	v, err = h.participants.LeaveEvent(ctx, ev.ID, "X")
	require.NoError(t, err)
	assert.Empty(t, v.Participants)

	v, err = h.participants.JoinEvent(ctx, ev.ID, "Y")
	require.NoError(t, err)
	assert.Equal(t, []string{"Y"}, v.Participants)

	entries, err := h.ledger.Entries(ctx, ev.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "the rejected join leaves no trace")
}

func TestJoin_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, ptr(3))

	_, err := h.participants.JoinEvent(ctx, ev.ID, "X")
	require.NoError(t, err)
	v, err := h.participants.JoinEvent(ctx, ev.ID, "X")
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, v.Participants)

	entries, err := h.ledger.Entries(ctx, ev.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJoin_AlreadyMemberOfFullEventIsNoop(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, ptr(1), "X")

	v, err := h.participants.JoinEvent(ctx, ev.ID, "X")
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, v.Participants)
}

func TestLeave_NonMemberIsNoop(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, nil)

	v, err := h.participants.LeaveEvent(ctx, ev.ID, "X")
	require.NoError(t, err)
	assert.Empty(t, v.Participants)

	entries, err := h.ledger.Entries(ctx, ev.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, []entities.NotificationKind{entities.KindEventCreated}, h.notifier.kinds())
}

func TestJoinLeave_RoundTripRestoresMembership(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, ptr(5), "Y")

	_, err := h.participants.JoinEvent(ctx, ev.ID, "X")
	require.NoError(t, err)
	v, err := h.participants.LeaveEvent(ctx, ev.ID, "X")
	require.NoError(t, err)
	assert.Equal(t, []string{"Y"}, v.Participants)
}

func TestJoin_EndedEvent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, nil)

	h.clock.Set(ev.End)
	_, err := h.participants.JoinEvent(ctx, ev.ID, "X")
	require.NoError(t, err, "the end instant itself is still open")

	h.clock.Set(ev.End.Add(30 * time.Minute))
	_, err = h.participants.JoinEvent(ctx, ev.ID, "Y")
	assert.ErrorIs(t, err, domain.ErrEventEnded, "same calendar day, but past the end")

	_, err = h.participants.JoinEvent(ctx, ev.ID, "X")
	assert.ErrorIs(t, err, domain.ErrEventEnded, "members get no no-op after the end")

	_, err = h.participants.LeaveEvent(ctx, ev.ID, "X")
	assert.NoError(t, err, "leaving has no time restriction")
}

func TestJoin_UnknownEvent(t *testing.T) {
	h := newHarness(t)
	_, err := h.participants.JoinEvent(context.Background(), uuid.New(), "X")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	_, err = h.participants.LeaveEvent(context.Background(), uuid.New(), "X")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestSoftDeletedEvent_RejectsJoinButKeepsLog(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, nil)

	_, err := h.participants.JoinEvent(ctx, ev.ID, "X")
	require.NoError(t, err)
	before, err := h.participants.ParticipationLog(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, before.Active, 1)

	deleted, err := h.events.SoftDeleteEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeleted, deleted.Status)

	_, err = h.participants.JoinEvent(ctx, ev.ID, "Y")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	_, err = h.participants.LeaveEvent(ctx, ev.ID, "X")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	after, err := h.participants.ParticipationLog(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	list, err := h.events.ListEvents(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = h.events.UpdateEvent(ctx, ev.ID, entities.EventPatch{Title: ptr("again")})
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestParticipationLog_BucketsByLatestAction(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, nil)

	for _, step := range []struct {
		join bool
		user string
	}{{true, "X"}, {true, "Y"}, {false, "X"}, {true, "Z"}, {false, "Z"}, {true, "Z"}} {
		h.clock.Advance(time.Minute)
		var err error
		if step.join {
			_, err = h.participants.JoinEvent(ctx, ev.ID, step.user)
		} else {
			_, err = h.participants.LeaveEvent(ctx, ev.ID, step.user)
		}
		require.NoError(t, err)
	}

	log, err := h.participants.ParticipationLog(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, []entities.UserSummary{
		{ID: "Y", FullName: "Yasmine", Email: "y@example.com"},
		{ID: "Z", FullName: "Zoe", Email: "z@example.com"},
	}, log.Active)
	assert.Equal(t, []entities.UserSummary{
		{ID: "X", FullName: "Xavier", Email: "x@example.com"},
	}, log.Declined)
}

func TestParticipationLog_SkipsRemovedUsers(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, nil, "X", "Y")
	h.users.Remove("Y")

	log, err := h.participants.ParticipationLog(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, log.Active, 1)
	assert.Equal(t, "X", log.Active[0].ID)
	assert.NotNil(t, log.Declined)

	_, err = h.participants.ParticipationLog(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestConcurrentJoins_RespectCapacity(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, ptr(3))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs = map[string]int{}
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.participants.JoinEvent(ctx, ev.ID, fmt.Sprintf("u%d", i))
			mu.Lock()
			errs[domain.Code(err)]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, errs[""])
	assert.Equal(t, 27, errs[domain.CodeCapacityExceeded])
	got, err := h.events.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Len(t, got.Participants, 3)
}

type brokenLedger struct{ *memory.Ledger }

func (brokenLedger) Append(context.Context, ...entities.ParticipationLogEntry) ([]entities.ParticipationLogEntry, error) {
	return nil, errors.New("ledger offline")
}

func TestJoin_LedgerFailureLeavesNoPartialState(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	store := memory.NewEventStore(brokenLedger{ledger})
	notifier := &recordingNotifier{}
	clk := clock.NewManual(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	deps := Deps{Store: store, Ledger: ledger, Users: memory.NewUserDirectory(), Notifier: notifier, Clock: clk}
	events, participants := NewEventService(deps), NewParticipantService(deps)

	ev, err := events.CreateEvent(ctx, entities.EventSpec{
		Title: "Quiz", Start: clk.Now().Add(24 * time.Hour), End: clk.Now().Add(26 * time.Hour),
	})
	require.NoError(t, err)

	_, err = participants.JoinEvent(ctx, ev.ID, "X")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	got, err := events.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Participants)
	assert.Equal(t, []entities.NotificationKind{entities.KindEventCreated}, notifier.kinds())
}

type failingObserver struct{}

func (failingObserver) ID() string { return "broken" }
func (failingObserver) Send(context.Context, entities.Notification) error {
	return errors.New("socket closed")
}

func TestJoin_NotificationFailureIsSwallowed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger := memory.NewLedger()
	hub := notify.NewHub(notify.WithQueueSize(1))
	hub.Connect(failingObserver{})
	go hub.Run(ctx)

	clk := clock.NewManual(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	deps := Deps{Store: memory.NewEventStore(ledger), Ledger: ledger, Users: memory.NewUserDirectory(), Notifier: hub, Clock: clk}
	events, participants := NewEventService(deps), NewParticipantService(deps)

	ev, err := events.CreateEvent(ctx, entities.EventSpec{
		Title: "Quiz", Start: clk.Now().Add(24 * time.Hour), End: clk.Now().Add(26 * time.Hour),
	})
	require.NoError(t, err)

	for _, u := range []string{"A", "B", "C", "D"} {
		v, err := participants.JoinEvent(ctx, ev.ID, u)
		require.NoError(t, err)
		assert.True(t, slices.Contains(v.Participants, u))
	}
	require.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestJoin_PublishesParticipantChange(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, ptr(4))

	_, err := h.participants.JoinEvent(ctx, ev.ID, "X")
	require.NoError(t, err)

	h.notifier.mu.Lock()
	defer h.notifier.mu.Unlock()
	require.Len(t, h.notifier.msgs, 2)
	msg := h.notifier.msgs[1]
	assert.Equal(t, entities.KindParticipantChange, msg.Kind)
	assert.Equal(t, entities.ActionJoin, msg.Action)
	assert.Equal(t, "X", msg.UserID)
	assert.Equal(t, 1, msg.ParticipantCount)
	assert.Equal(t, 4, *msg.MaxParticipants)
}

func TestListEvents_SweepsStatusOnRead(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, nil)
	assert.Equal(t, domain.StatusUpcoming, ev.Status)

	h.clock.Set(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	active, err := h.events.ListEvents(ctx, domain.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)

	stored, err := h.store.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, stored.Status, "sweep persists the derived status")

	h.clock.Set(time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC))
	got, err := h.events.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPast, got.Status)

	upcoming, err := h.events.ListEvents(ctx, domain.StatusUpcoming)
	require.NoError(t, err)
	assert.Empty(t, upcoming)
}

func TestListEvents_ConcurrentSweepsConverge(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := newHarness(t)
	h.events.Metrics = metrics.New(reg)
	for i := 0; i < 5; i++ {
		h.create(t, nil)
	}
	h.clock.Set(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.events.ListEvents(ctx, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	families, err := reg.Gather()
	require.NoError(t, err)
	var transitions float64
	for _, f := range families {
		if f.GetName() == "eventcore_status_transitions_total" {
			for _, m := range f.GetMetric() {
				transitions += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, float64(5), transitions, "each event transitions exactly once")
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	v := h.create(t, ptr(2), "X", "ghost", "X")
	assert.Equal(t, []string{"X"}, v.Participants, "unknown ids dropped, duplicates collapsed")
	entries, err := h.ledger.Entries(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entities.ActionJoin, entries[0].Action)

	_, err = h.events.CreateEvent(ctx, entities.EventSpec{
		Title: "Too many", Start: h.clock.Now(), End: h.clock.Now(),
		MaxParticipants: ptr(1), ParticipantIDs: []string{"X", "Y"},
	})
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	_, err = h.events.CreateEvent(ctx, entities.EventSpec{Title: "", Start: h.clock.Now(), End: h.clock.Now()})
	assert.ErrorIs(t, err, domain.ErrInvalidSpec)

	today, err := h.events.CreateEvent(ctx, entities.EventSpec{Title: "Now", Start: h.clock.Now(), End: h.clock.Now()})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, today.Status)
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, ptr(3), "X")

	t.Run("window change recomputes status", func(t *testing.T) {
		v, err := h.events.UpdateEvent(ctx, ev.ID, entities.EventPatch{
			Start: ptr(time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, v.Status)
	})

	t.Run("explicit status wins", func(t *testing.T) {
		st := domain.StatusPast
		v, err := h.events.UpdateEvent(ctx, ev.ID, entities.EventPatch{Status: &st})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPast, v.Status)
	})

	t.Run("participant replacement goes through the ledger", func(t *testing.T) {
		v, err := h.events.UpdateEvent(ctx, ev.ID, entities.EventPatch{ParticipantIDs: &[]string{"Y", "Z"}})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Y", "Z"}, v.Participants)

		standings, err := h.ledger.StandingsFor(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, map[string]entities.Standing{
			"X": entities.StandingDeclined,
			"Y": entities.StandingActive,
			"Z": entities.StandingActive,
		}, standings)
	})

	t.Run("replacement bounded by capacity", func(t *testing.T) {
		_, err := h.events.UpdateEvent(ctx, ev.ID, entities.EventPatch{
			MaxParticipants: ptr(2),
			ParticipantIDs:  &[]string{"X", "Y", "Z"},
		})
		assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	})

	t.Run("invalid max", func(t *testing.T) {
		_, err := h.events.UpdateEvent(ctx, ev.ID, entities.EventPatch{MaxParticipants: ptr(0)})
		assert.ErrorIs(t, err, domain.ErrInvalidSpec)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := h.events.UpdateEvent(ctx, uuid.New(), entities.EventPatch{})
		assert.ErrorIs(t, err, domain.ErrEventNotFound)
	})
}

func TestUpdateEvent_RejectedPatchLeavesEventUnchanged(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, ptr(3), "X")

	_, err := h.events.UpdateEvent(ctx, ev.ID, entities.EventPatch{
		Title:           ptr("Renamed"),
		MaxParticipants: ptr(1),
		ParticipantIDs:  &[]string{"X", "Y"},
	})
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)

	got, err := h.events.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, ev, got)

	entries, err := h.ledger.Entries(ctx, ev.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NotContains(t, h.notifier.kinds(), entities.KindEventUpdated)
}

func TestUpdateEvent_LedgerFailureLeavesEventUnchanged(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	clk := clock.NewManual(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	deps := Deps{Store: memory.NewEventStore(brokenLedger{ledger}), Ledger: ledger, Clock: clk}
	events := NewEventService(deps)

	ev, err := events.CreateEvent(ctx, entities.EventSpec{
		Title: "Quiz", Start: clk.Now().Add(24 * time.Hour), End: clk.Now().Add(26 * time.Hour),
	})
	require.NoError(t, err)

	_, err = events.UpdateEvent(ctx, ev.ID, entities.EventPatch{
		Title:          ptr("Renamed"),
		ParticipantIDs: &[]string{"X"},
	})
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)

	got, err := events.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quiz", got.Title)
	assert.Empty(t, got.Participants)
}

func TestUpdateEvent_OverCapacityAdmitsNobodyNew(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, ptr(3), "X", "Y", "Z")

	v, err := h.events.UpdateEvent(ctx, ev.ID, entities.EventPatch{MaxParticipants: ptr(1)})
	require.NoError(t, err, "lowering the bound keeps current members")
	assert.Len(t, v.Participants, 3)

	_, err = h.participants.LeaveEvent(ctx, ev.ID, "Z")
	require.NoError(t, err)

	_, err = h.events.UpdateEvent(ctx, ev.ID, entities.EventPatch{ParticipantIDs: &[]string{"X", "Z"}})
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	v, err = h.events.UpdateEvent(ctx, ev.ID, entities.EventPatch{ParticipantIDs: &[]string{"X"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, v.Participants)

	_, err = h.participants.JoinEvent(ctx, ev.ID, "Y")
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
}

func TestUpdateEvent_ConcurrentEditsKeepEveryField(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, nil)

	patches := []entities.EventPatch{
		{Title: ptr("Chess night")},
		{ShortDescription: ptr("Rapid games")},
		{Description: ptr("Boards provided")},
		{ImageURL: ptr("https://example.com/chess.png")},
		{City: ptr("Lyon")},
		{PaymentInfo: ptr("Free")},
	}
	var wg sync.WaitGroup
	for _, p := range patches {
		wg.Add(1)
		go func(p entities.EventPatch) {
			defer wg.Done()
			_, err := h.events.UpdateEvent(ctx, ev.ID, p)
			assert.NoError(t, err)
		}(p)
	}
	wg.Wait()

	got, err := h.events.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chess night", got.Title)
	assert.Equal(t, "Rapid games", got.ShortDescription)
	assert.Equal(t, "Boards provided", got.Description)
	assert.Equal(t, "https://example.com/chess.png", got.ImageURL)
	assert.Equal(t, "Lyon", got.City)
	assert.Equal(t, "Free", got.PaymentInfo)
}

func TestParticipationLog_WithoutUserDirectory(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	clk := clock.NewManual(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	deps := Deps{Store: memory.NewEventStore(ledger), Ledger: ledger, Clock: clk}
	events, participants := NewEventService(deps), NewParticipantService(deps)

	ev, err := events.CreateEvent(ctx, entities.EventSpec{
		Title: "Quiz", Start: clk.Now().Add(24 * time.Hour), End: clk.Now().Add(26 * time.Hour),
		ParticipantIDs: []string{"X"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, ev.Participants)

	log, err := participants.ParticipationLog(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, []entities.UserSummary{{ID: "X"}}, log.Active)
}

func TestSoftDeleteEvent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ev := h.create(t, nil)

	_, err := h.events.SoftDeleteEvent(ctx, ev.ID)
	require.NoError(t, err)
	again, err := h.events.SoftDeleteEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.True(t, again.IsDeleted)

	got, err := h.events.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	_, err = h.events.SoftDeleteEvent(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	assert.Contains(t, h.notifier.kinds(), entities.KindEventDeleted)
}

var _ output.Notifier = (*recordingNotifier)(nil)
