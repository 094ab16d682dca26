package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aros-club/aros-api/pkg/helpers"
	"github.com/aros-club/aros-api/pkg/mailer"
	mailtpl "github.com/aros-club/aros-api/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	sent []sent
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{to, subject, text, html})
	return nil
}

func encode(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestHandleTemplateJob(t *testing.T) {
	s := &fakeSender{}
	w := &worker{sender: s, logger: helpers.NewNopLogger()}
	job := mailer.EmailJob{
		To:       "ivett@example.com",
		Template: mailtpl.MemberWelcome,
		Data:     mailtpl.NewMemberWelcomeData("Aros", "Ivett", "ivett@example.com", "https://aros.test/login"),
	}

	require.Equal(t, ack, w.handle(context.Background(), encode(t, job)))
	require.Len(t, s.sent, 1)
	require.Equal(t, "ivett@example.com", s.sent[0].to)
	require.Equal(t, "Welcome to Aros", s.sent[0].subject)
	require.Contains(t, s.sent[0].html, "https://aros.test/login")
}

func TestHandleRawJob(t *testing.T) {
	s := &fakeSender{}
	w := &worker{sender: s, logger: helpers.NewNopLogger()}
	job := mailer.EmailJob{To: "a@example.com", Subject: "Hi", Text: "Hello"}
	require.Equal(t, ack, w.handle(context.Background(), encode(t, job)))
	require.Equal(t, "Hello", s.sent[0].text)
}

func TestHandleDropsBadJobs(t *testing.T) {
	w := &worker{sender: &fakeSender{}, logger: helpers.NewNopLogger()}
	ctx := context.Background()
	require.Equal(t, drop, w.handle(ctx, []byte("{")))
	require.Equal(t, drop, w.handle(ctx, encode(t, mailer.EmailJob{Subject: "x", Text: "y"})))
	require.Equal(t, drop, w.handle(ctx, encode(t, mailer.EmailJob{To: "a@example.com"})))
	require.Equal(t, drop, w.handle(ctx, encode(t, mailer.EmailJob{To: "a@example.com", Template: "nope"})))
}

func TestHandleRequeuesSendFailure(t *testing.T) {
	w := &worker{sender: &fakeSender{err: errors.New("mailgun 502")}, logger: helpers.NewNopLogger()}
	job := mailer.EmailJob{To: "a@example.com", Subject: "Hi", Text: "Hello"}
	require.Equal(t, requeue, w.handle(context.Background(), encode(t, job)))
}
