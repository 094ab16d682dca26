package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aros-club/aros-api/pkg/helpers"
	"github.com/aros-club/aros-api/pkg/mailer"
	mailtpl "github.com/aros-club/aros-api/pkg/mailer/templates"
)

type outcome int

const (
	ack outcome = iota
	requeue
	drop
)

type worker struct {
	sender mailer.Sender
	logger *logrus.Logger
}

// handle renders and sends one job. Malformed jobs are dropped, send
// failures are requeued.
func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.WithError(err).Warn("bad message")
		return drop
	}
	if job.To == "" {
		w.logger.Warn("email job without recipient")
		return drop
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			w.logger.WithError(err).WithField("template", job.Template).Warn("render failed")
			return drop
		}
		subject, text, html = s, t, h
	}
	if subject == "" || (text == "" && html == "") {
		w.logger.WithField("to", job.To).Warn("email job has no content")
		return drop
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := w.sender.Send(c, job.To, subject, text, html); err != nil {
		w.logger.WithError(err).WithField("template", job.Template).Warn("send failed")
		return requeue
	}
	helpers.LogInfo(w.logger, "email sent", logrus.Fields{"template": job.Template})
	return ack
}
