package notify_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
	"github.com/aweos-lab/wikireminder/pkg/service/chat"
	"github.com/aweos-lab/wikireminder/pkg/service/mail"
	"github.com/aweos-lab/wikireminder/pkg/service/notify"
)

type mailMock struct {
	sent    []*mail.Message
	sendErr error
}

func (m *mailMock) Send(_ context.Context, msg *mail.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mailMock) TestConnection(context.Context) error { return nil }

type chatMock struct {
	reminders   []*chat.ReminderNote
	escalations []*chat.EscalationNote
	postErr     error
}

func (c *chatMock) PostReminder(_ context.Context, note *chat.ReminderNote) error {
	if c.postErr != nil {
		return c.postErr
	}
	c.reminders = append(c.reminders, note)
	return nil
}

func (c *chatMock) PostEscalation(_ context.Context, note *chat.EscalationNote) error {
	if c.postErr != nil {
		return c.postErr
	}
	c.escalations = append(c.escalations, note)
	return nil
}

func (c *chatMock) PostTest(context.Context) error { return c.postErr }

func testLeader() *model.TeamLeader {
	return &model.TeamLeader{
		ID:    types.NewLeaderID(),
		Name:  "Anna Schmidt",
		Email: "anna@example.com",
	}
}

func TestSendReminderBothChannels(t *testing.T) {
	mailSvc := &mailMock{}
	chatSvc := &chatMock{}
	d := notify.New(notify.WithMail(mailSvc), notify.WithChat(chatSvc))

	errs := d.SendReminder(context.Background(), &notify.Reminder{
		Leader:        testLeader(),
		Collections:   []string{"Operations"},
		ReminderCount: 1,
		ResponseURL:   "https://reminder.example.com/respond/tok-1",
	})
	gt.Array(t, errs).Length(0)
	gt.Array(t, mailSvc.sent).Length(1)
	gt.Array(t, chatSvc.reminders).Length(1)
	gt.Value(t, mailSvc.sent[0].To).Equal("anna@example.com")
	gt.Value(t, mailSvc.sent[0].CC).Equal("")
}

func TestSendReminderCCManagerOnEscalation(t *testing.T) {
	mailSvc := &mailMock{}
	d := notify.New(notify.WithMail(mailSvc))

	errs := d.SendReminder(context.Background(), &notify.Reminder{
		Leader:        testLeader(),
		Collections:   []string{"Operations"},
		ReminderCount: 3,
		ResponseURL:   "https://reminder.example.com/respond/tok-1",
		ManagerEmail:  "boss@example.com",
	})
	gt.Array(t, errs).Length(0)
	gt.Value(t, mailSvc.sent[0].CC).Equal("boss@example.com")
}

func TestSendReminderChatFailureDoesNotBlockMail(t *testing.T) {
	mailSvc := &mailMock{}
	chatSvc := &chatMock{postErr: goerr.New("webhook down")}
	d := notify.New(notify.WithMail(mailSvc), notify.WithChat(chatSvc))

	errs := d.SendReminder(context.Background(), &notify.Reminder{
		Leader:        testLeader(),
		Collections:   []string{"Operations"},
		ReminderCount: 1,
		ResponseURL:   "https://reminder.example.com/respond/tok-1",
	})
	gt.Array(t, errs).Length(1)
	gt.Array(t, mailSvc.sent).Length(1)
}

func TestSendReminderMailFailureDoesNotBlockChat(t *testing.T) {
	mailSvc := &mailMock{sendErr: goerr.New("smtp down")}
	chatSvc := &chatMock{}
	d := notify.New(notify.WithMail(mailSvc), notify.WithChat(chatSvc))

	errs := d.SendReminder(context.Background(), &notify.Reminder{
		Leader:        testLeader(),
		Collections:   []string{"Operations"},
		ReminderCount: 1,
		ResponseURL:   "https://reminder.example.com/respond/tok-1",
	})
	gt.Array(t, errs).Length(1)
	gt.Array(t, chatSvc.reminders).Length(1)
}

func TestSendEscalation(t *testing.T) {
	mailSvc := &mailMock{}
	chatSvc := &chatMock{}
	d := notify.New(notify.WithMail(mailSvc), notify.WithChat(chatSvc))

	errs := d.SendEscalation(context.Background(), &notify.Escalation{
		Leader:        testLeader(),
		Collections:   []string{"Operations"},
		ReminderCount: 3,
		ManagerEmail:  "boss@example.com",
	})
	gt.Array(t, errs).Length(0)
	gt.Array(t, mailSvc.sent).Length(1)
	gt.Value(t, mailSvc.sent[0].To).Equal("boss@example.com")
	gt.Array(t, chatSvc.escalations).Length(1)
}

func TestSendEscalationWithoutManagerEmailSkipsMail(t *testing.T) {
	mailSvc := &mailMock{}
	chatSvc := &chatMock{}
	d := notify.New(notify.WithMail(mailSvc), notify.WithChat(chatSvc))

	errs := d.SendEscalation(context.Background(), &notify.Escalation{
		Leader:        testLeader(),
		Collections:   []string{"Operations"},
		ReminderCount: 3,
	})
	gt.Array(t, errs).Length(0)
	gt.Array(t, mailSvc.sent).Length(0)
	gt.Array(t, chatSvc.escalations).Length(1)
}

func TestTestChannels(t *testing.T) {
	d := notify.New()
	gt.Error(t, d.TestChat(context.Background()))
	gt.Error(t, d.TestMail(context.Background()))

	d = notify.New(notify.WithMail(&mailMock{}), notify.WithChat(&chatMock{}))
	gt.NoError(t, d.TestChat(context.Background()))
	gt.NoError(t, d.TestMail(context.Background()))
}
