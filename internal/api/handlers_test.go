package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindhaven/wellness/internal/apperr"
	"github.com/mindhaven/wellness/internal/appointment"
	"github.com/mindhaven/wellness/internal/chat"
	"github.com/mindhaven/wellness/internal/config"
	"github.com/mindhaven/wellness/internal/directory"
	"github.com/mindhaven/wellness/internal/email"
	"github.com/mindhaven/wellness/internal/logger"
	"github.com/mindhaven/wellness/internal/mood"
	"github.com/mindhaven/wellness/internal/schedule"
)

type stubChat struct {
	sendErr error
	msgs    []chat.Message
}

func (s *stubChat) SendMessage(ctx context.Context, conversationID, senderID, receiverID, senderName, content string) (*chat.Message, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return &chat.Message{ConversationID: conversationID, SenderID: senderID, Content: content}, nil
}

func (s *stubChat) Snapshot(ctx context.Context, conversationID string) ([]chat.Message, error) {
	return s.msgs, nil
}

func (s *stubChat) MarkConversationRead(ctx context.Context, conversationID, viewerID string) error {
	return nil
}

func (s *stubChat) ListSessions(ctx context.Context, participantID string) ([]chat.Session, error) {
	return nil, nil
}

type stubMood struct {
	logs []mood.Log
	err  error
}

func (s *stubMood) Append(ctx context.Context, l *mood.Log) error { return s.err }
func (s *stubMood) List(ctx context.Context) ([]mood.Log, error)  { return s.logs, s.err }

type stubSchedules struct {
	sched *schedule.DoctorSchedule
	saved *schedule.DoctorSchedule
}

func (s *stubSchedules) Get(ctx context.Context, doctorID string) (*schedule.DoctorSchedule, error) {
	if s.sched == nil {
		return nil, apperr.ErrNotFound
	}
	return s.sched, nil
}

func (s *stubSchedules) Replace(ctx context.Context, sched *schedule.DoctorSchedule) error {
	s.saved = sched
	return nil
}

type stubAppts struct {
	appts []appointment.Appointment
	err   error
}

func (s *stubAppts) List(ctx context.Context, doctorID string) ([]appointment.Appointment, error) {
	return s.appts, s.err
}

type stubDir struct{}

func (stubDir) Doctor(ctx context.Context, id string) (*directory.Doctor, error) {
	return nil, apperr.ErrNotFound
}
func (stubDir) ListDoctors(ctx context.Context) ([]directory.Doctor, error) { return nil, nil }
func (stubDir) Patients(ctx context.Context) (map[string]directory.Patient, error) {
	return map[string]directory.Patient{}, nil
}

type stubMailer struct{ err error }

func (s *stubMailer) SendContact(ctx context.Context, req email.ContactRequest) error { return s.err }

type testDeps struct {
	chat   *stubChat
	mood   *stubMood
	scheds *stubSchedules
	appts  *stubAppts
	mailer *stubMailer
}

func newTestApp(d testDeps) *fiber.App {
	if d.chat == nil {
		d.chat = &stubChat{}
	}
	if d.mood == nil {
		d.mood = &stubMood{}
	}
	if d.scheds == nil {
		d.scheds = &stubSchedules{}
	}
	if d.appts == nil {
		d.appts = &stubAppts{}
	}
	if d.mailer == nil {
		d.mailer = &stubMailer{}
	}
	cfg := &config.Config{}
	cfg.Auth.LoginPath = "/doctor-login"
	return New(cfg, Deps{
		Chat:      d.chat,
		Mood:      d.mood,
		Schedules: d.scheds,
		Appts:     d.appts,
		Dir:       stubDir{},
		Mailer:    d.mailer,
	}, logger.Nop())
}

func asDoctor(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "doctorId", Value: "dr-sarah-johnson"})
	req.AddCookie(&http.Cookie{Name: "doctorName", Value: "Dr. Sarah Johnson"})
	return req
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestListAppointmentsSwallowsFailures(t *testing.T) {
	app := newTestApp(testDeps{appts: &stubAppts{err: errors.New("booking service down")}})

	req := asDoctor(httptest.NewRequest(http.MethodGet, "/api/appointments?doctorId=dr-sarah-johnson", nil))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"appointments":[]}`, body(t, resp))
}

func TestListAppointmentsPassesThrough(t *testing.T) {
	app := newTestApp(testDeps{appts: &stubAppts{appts: []appointment.Appointment{{ID: "a1", DoctorID: "dr-sarah-johnson"}}}})

	req := asDoctor(httptest.NewRequest(http.MethodGet, "/api/appointments", nil))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `"a1"`)
}

func TestAppointmentsRequireIdentity(t *testing.T) {
	app := newTestApp(testDeps{})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/appointments", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSendEmailValidationError(t *testing.T) {
	app := newTestApp(testDeps{mailer: &stubMailer{err: fmt.Errorf("%w: name is required", apperr.ErrValidation)}})

	req := httptest.NewRequest(http.MethodPost, "/api/sendEmail", strings.NewReader(`{"email":"a@b.c"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSendEmailUpstreamFailure(t *testing.T) {
	app := newTestApp(testDeps{mailer: &stubMailer{err: errors.New("sendgrid 500")}})

	req := httptest.NewRequest(http.MethodPost, "/api/sendEmail", strings.NewReader(`{"name":"A","email":"a@b.c","subject":"s","message":"m"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestGetScheduleDefaultsWhenMissing(t *testing.T) {
	app := newTestApp(testDeps{})

	req := asDoctor(httptest.NewRequest(http.MethodGet, "/api/doctor-schedule?doctorId=dr-sarah-johnson", nil))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	b := body(t, resp)
	assert.Contains(t, b, `"doctorId":"dr-sarah-johnson"`)
	assert.Contains(t, b, `"schedule":[]`)
}

func TestUpsertScheduleDayReplaces(t *testing.T) {
	scheds := &stubSchedules{sched: &schedule.DoctorSchedule{
		DoctorID: "dr-sarah-johnson",
		Days: []schedule.DaySchedule{
			{Day: "Monday", Slots: []schedule.Slot{{StartTime: "09:00", EndTime: "12:00"}}},
		},
	}}
	app := newTestApp(testDeps{scheds: scheds})

	req := asDoctor(httptest.NewRequest(http.MethodPost, "/api/doctor-schedule/day",
		strings.NewReader(`{"day":"Monday","startTime":"13:00","endTime":"17:00"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, scheds.saved)
	require.Len(t, scheds.saved.Days, 1)
	assert.Equal(t, "13:00", scheds.saved.Days[0].Slots[0].StartTime)
}

func TestSendChatMessageValidation(t *testing.T) {
	app := newTestApp(testDeps{chat: &stubChat{sendErr: fmt.Errorf("%w: empty message", apperr.ErrValidation)}})

	req := asDoctor(httptest.NewRequest(http.MethodPost, "/api/chats/a_b/messages",
		strings.NewReader(`{"receiverId":"b","content":"   "}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMoodSummaryRejectsUnknownPeriod(t *testing.T) {
	app := newTestApp(testDeps{})

	req := asDoctor(httptest.NewRequest(http.MethodGet, "/api/moodlogs/summary?period=yearly", nil))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListMoodLogsSwallowsFailures(t *testing.T) {
	app := newTestApp(testDeps{mood: &stubMood{err: errors.New("store down")}})

	req := asDoctor(httptest.NewRequest(http.MethodGet, "/api/moodlogs", nil))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"data":[]}`, body(t, resp))
}
