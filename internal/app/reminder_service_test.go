package app

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"class_reminder_bot/internal/domain/delivery"
	"class_reminder_bot/internal/domain/event"
	"class_reminder_bot/internal/domain/reminder"
	"class_reminder_bot/internal/domain/student"
	iledger "class_reminder_bot/internal/infra/ledger"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	classes     []*event.Event
	assignments []*event.Event
	err         error
}

func (f *fakeEventRepo) ListClasses(_ context.Context) ([]*event.Event, error) {
	return f.classes, f.err
}

func (f *fakeEventRepo) ListAssignments(_ context.Context) ([]*event.Event, error) {
	return f.assignments, f.err
}

type fakeStudentRepo struct {
	students []*student.Student
	err      error
}

func (f *fakeStudentRepo) ListAll(_ context.Context) ([]*student.Student, error) {
	return f.students, f.err
}

type sentMessage struct {
	dest    delivery.Destination
	subject string
	body    string
}

type fakeChannel struct {
	sent []sentMessage
	err  error
}

func (f *fakeChannel) Send(_ context.Context, dest delivery.Destination, subject, body string) error {
	f.sent = append(f.sent, sentMessage{dest: dest, subject: subject, body: body})
	return f.err
}

type persistRecorder struct {
	*iledger.MemoryLedger
	persists int
}

func (p *persistRecorder) Persist() error {
	p.persists++
	return nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testThresholds(t *testing.T, spec string) []reminder.Threshold {
	t.Helper()
	ths, err := reminder.ParseThresholds(spec)
	require.NoError(t, err)
	return ths
}

func classEvent() *event.Event {
	return &event.Event{
		Kind:   event.KindClass,
		Course: "CS101",
		Batch:  "A",
		Year:   2024,
		Title:  "Intro",
		Date:   "2024-01-02",
		Time:   sql.NullString{String: "10:00", Valid: true},
		Mode:   "Online",
	}
}

func matchingStudent() *student.Student {
	return &student.Student{
		Name:   "Asha",
		Email:  "asha@example.com",
		Course: "cs101",
		Batch:  "a",
		Year:   2024,
		Mode:   "ONLINE",
	}
}

func newTestService(t *testing.T, er *fakeEventRepo, sr *fakeStudentRepo, ch *fakeChannel, led reminder.Ledger, res delivery.Resolver) *ReminderServiceImpl {
	t.Helper()
	return NewReminderServiceImpl(er, sr, led, ch, res, EvaluationConfig{
		Thresholds:     testThresholds(t, "24h,1h"),
		WindowWidth:    600 * time.Second,
		DefaultDueTime: "23:59",
		Location:       time.UTC,
	}, testLogger())
}

func TestRunTick_Dispatches24HourReminder(t *testing.T) {
	ch := &fakeChannel{}
	led := iledger.NewMemoryLedger()
	svc := newTestService(t,
		&fakeEventRepo{classes: []*event.Event{classEvent()}},
		&fakeStudentRepo{students: []*student.Student{matchingStudent()}},
		ch, led, delivery.AttributeResolver{},
	)

	// Exactly 24h before the 2024-01-02 10:00 class.
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RunTick(context.Background(), now))

	require.Len(t, ch.sent, 1)
	assert.Equal(t, "asha@example.com", ch.sent[0].dest.Address)
	assert.Equal(t, "Class Reminder: Intro (24hr before)", ch.sent[0].subject)
	assert.Contains(t, ch.sent[0].body, "Hi Asha,")
	assert.Contains(t, ch.sent[0].body, "10:00 AM on 02-Jan-2024")
	assert.True(t, led.Contains("class-CS101-A-Intro-2024-01-02-24hr"))
	assert.False(t, led.Contains("class-CS101-A-Intro-2024-01-02-1hr"))
}

func TestRunTick_Dispatches1HourReminderOnly(t *testing.T) {
	ch := &fakeChannel{}
	led := iledger.NewMemoryLedger()
	led.Add("class-CS101-A-Intro-2024-01-02-24hr") // sent in a prior tick
	svc := newTestService(t,
		&fakeEventRepo{classes: []*event.Event{classEvent()}},
		&fakeStudentRepo{students: []*student.Student{matchingStudent()}},
		ch, led, delivery.AttributeResolver{},
	)

	now := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RunTick(context.Background(), now))

	require.Len(t, ch.sent, 1)
	assert.Equal(t, "Class Reminder: Intro (1hr before)", ch.sent[0].subject)
	assert.True(t, led.Contains("class-CS101-A-Intro-2024-01-02-1hr"))
}

func TestRunTick_WindowBoundaries(t *testing.T) {
	crossing := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) // target - 24h

	tests := []struct {
		name     string
		now      time.Time
		wantSent int
	}{
		{"exactly at the crossing", crossing, 1},
		{"one second early", crossing.Add(-time.Second), 0},
		{"inside the window", crossing.Add(599 * time.Second), 1},
		{"window closed", crossing.Add(601 * time.Second), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &fakeChannel{}
			svc := newTestService(t,
				&fakeEventRepo{classes: []*event.Event{classEvent()}},
				&fakeStudentRepo{students: []*student.Student{matchingStudent()}},
				ch, iledger.NewMemoryLedger(), delivery.AttributeResolver{},
			)
			require.NoError(t, svc.RunTick(context.Background(), tt.now))
			assert.Len(t, ch.sent, tt.wantSent)
		})
	}
}

func TestRunTick_AtMostOncePerKey(t *testing.T) {
	ch := &fakeChannel{}
	led := iledger.NewMemoryLedger()
	svc := newTestService(t,
		&fakeEventRepo{classes: []*event.Event{classEvent()}},
		&fakeStudentRepo{students: []*student.Student{matchingStudent()}},
		ch, led, delivery.AttributeResolver{},
	)

	// Several consecutive ticks inside the same open window.
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.RunTick(context.Background(), base.Add(time.Duration(i)*time.Minute)))
	}

	assert.Len(t, ch.sent, 1)
}

func TestRunTick_MalformedDateSkipsEventOnly(t *testing.T) {
	bad := classEvent()
	bad.Title = "Broken"
	bad.Date = "02/01/2024"

	ch := &fakeChannel{}
	svc := newTestService(t,
		&fakeEventRepo{classes: []*event.Event{bad, classEvent()}},
		&fakeStudentRepo{students: []*student.Student{matchingStudent()}},
		ch, iledger.NewMemoryLedger(), delivery.AttributeResolver{},
	)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RunTick(context.Background(), now))

	require.Len(t, ch.sent, 1)
	assert.Contains(t, ch.sent[0].body, "'Intro'")
}

func TestRunTick_CaseInsensitiveRecipientMatching(t *testing.T) {
	stu := matchingStudent()
	stu.Course = "Cs101"
	stu.Batch = "a"
	stu.Mode = "online"

	ch := &fakeChannel{}
	svc := newTestService(t,
		&fakeEventRepo{classes: []*event.Event{classEvent()}},
		&fakeStudentRepo{students: []*student.Student{stu}},
		ch, iledger.NewMemoryLedger(), delivery.AttributeResolver{},
	)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RunTick(context.Background(), now))
	assert.Len(t, ch.sent, 1)
}

func TestRunTick_NoMatchingRecipientsLeavesKeyUnsent(t *testing.T) {
	other := matchingStudent()
	other.Course = "EE200"

	ch := &fakeChannel{}
	led := iledger.NewMemoryLedger()
	roster := &fakeStudentRepo{students: []*student.Student{other}}
	svc := newTestService(t,
		&fakeEventRepo{classes: []*event.Event{classEvent()}},
		roster, ch, led, delivery.AttributeResolver{},
	)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RunTick(context.Background(), now))
	assert.Empty(t, ch.sent)
	assert.False(t, led.Contains("class-CS101-A-Intro-2024-01-02-24hr"))

	// Roster fixed while the window is still open: the retry dispatches.
	roster.students = append(roster.students, matchingStudent())
	require.NoError(t, svc.RunTick(context.Background(), now.Add(time.Minute)))
	assert.Len(t, ch.sent, 1)
	assert.True(t, led.Contains("class-CS101-A-Intro-2024-01-02-24hr"))
}

func TestRunTick_AssignmentDefaultDueTime(t *testing.T) {
	assignment := &event.Event{
		Kind:   event.KindAssignment,
		Course: "CS101",
		Batch:  "A",
		Year:   2024,
		Title:  "Lab 3",
		Date:   "2024-03-05",
		Mode:   "Online",
	}

	ch := &fakeChannel{}
	led := iledger.NewMemoryLedger()
	svc := newTestService(t,
		&fakeEventRepo{assignments: []*event.Event{assignment}},
		&fakeStudentRepo{students: []*student.Student{matchingStudent()}},
		ch, led, delivery.AttributeResolver{},
	)

	// Due time normalizes to 23:59; 24h before that is 2024-03-04 23:59.
	now := time.Date(2024, 3, 4, 23, 59, 0, 0, time.UTC)
	require.NoError(t, svc.RunTick(context.Background(), now))

	require.Len(t, ch.sent, 1)
	assert.Equal(t, "Assignment Reminder: Lab 3 (24hr before)", ch.sent[0].subject)
	assert.Contains(t, ch.sent[0].body, "11:59 PM on 05-Mar-2024")
	assert.True(t, led.Contains("assignment-CS101-A-Lab 3-2024-03-05-24hr"))
}

func TestRunTick_BroadcastSendsWithoutRoster(t *testing.T) {
	ch := &fakeChannel{}
	target := delivery.Destination{Address: "-1001234"}
	svc := newTestService(t,
		&fakeEventRepo{classes: []*event.Event{classEvent()}},
		&fakeStudentRepo{}, // empty roster, matching is skipped entirely
		ch, iledger.NewMemoryLedger(), delivery.BroadcastResolver{Target: target},
	)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RunTick(context.Background(), now))

	require.Len(t, ch.sent, 1)
	assert.Equal(t, target, ch.sent[0].dest)
	assert.NotContains(t, ch.sent[0].body, "Hi ")
}

func TestRunTick_ThresholdsFireIndependently(t *testing.T) {
	ch := &fakeChannel{}
	led := iledger.NewMemoryLedger()
	svc := NewReminderServiceImpl(
		&fakeEventRepo{classes: []*event.Event{classEvent()}},
		&fakeStudentRepo{students: []*student.Student{matchingStudent()}},
		led, ch, delivery.AttributeResolver{},
		EvaluationConfig{
			// A window wide enough that both crossings are open at once.
			Thresholds:     testThresholds(t, "1h,30m"),
			WindowWidth:    45 * time.Minute,
			DefaultDueTime: "23:59",
			Location:       time.UTC,
		},
		testLogger(),
	)

	// 30 minutes before the class: the 1h crossing is 30m old (inside the
	// window) and the 30m crossing is exactly now.
	now := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	require.NoError(t, svc.RunTick(context.Background(), now))

	assert.Len(t, ch.sent, 2)
	assert.True(t, led.Contains("class-CS101-A-Intro-2024-01-02-1hr"))
	assert.True(t, led.Contains("class-CS101-A-Intro-2024-01-02-30min"))
}

func TestRunTick_SendFailureStillMarksKey(t *testing.T) {
	ch := &fakeChannel{err: errors.New("smtp: connection refused")}
	led := iledger.NewMemoryLedger()
	svc := newTestService(t,
		&fakeEventRepo{classes: []*event.Event{classEvent()}},
		&fakeStudentRepo{students: []*student.Student{matchingStudent()}},
		ch, led, delivery.AttributeResolver{},
	)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RunTick(context.Background(), now))

	// Fire-and-forget: issuing the attempt counts as sent.
	assert.True(t, led.Contains("class-CS101-A-Intro-2024-01-02-24hr"))
	require.NoError(t, svc.RunTick(context.Background(), now.Add(time.Minute)))
	assert.Len(t, ch.sent, 1)
}

func TestRunTick_StoreErrorFailsTick(t *testing.T) {
	ch := &fakeChannel{}
	svc := newTestService(t,
		&fakeEventRepo{err: errors.New("connection reset")},
		&fakeStudentRepo{students: []*student.Student{matchingStudent()}},
		ch, iledger.NewMemoryLedger(), delivery.AttributeResolver{},
	)

	err := svc.RunTick(context.Background(), time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Empty(t, ch.sent)
}

func TestRunTick_PersistsLedgerAfterSweep(t *testing.T) {
	led := &persistRecorder{MemoryLedger: iledger.NewMemoryLedger()}
	svc := newTestService(t,
		&fakeEventRepo{},
		&fakeStudentRepo{},
		&fakeChannel{}, led, delivery.AttributeResolver{},
	)

	require.NoError(t, svc.RunTick(context.Background(), time.Now()))
	assert.Equal(t, 1, led.persists)
}
