// Package jobs defines the store's background job types.
package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/vastra/pkg/mail"
	"github.com/shashiranjanraj/vastra/pkg/queue"
)

// mailer delivers queued mail. Set once at boot via UseMailer.
var mailer mail.Sender

// UseMailer sets the sender queued MailJobs deliver through. Call
// before queue.StartWorkers.
func UseMailer(s mail.Sender) { mailer = s }

// MailJob delivers one transactional email from a worker.
type MailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Handle sends the email. An error pushes the job back through the
// queue's retry cycle.
func (j *MailJob) Handle() error {
	if mailer == nil {
		return fmt.Errorf("jobs: no mailer configured")
	}
	return mailer.Send(j.To, j.Subject, j.Body)
}

// QueueSender is a mail.Sender that enqueues instead of delivering, so
// request handlers never wait on SMTP.
type QueueSender struct{}

// Send queues the email for a worker.
func (QueueSender) Send(to, subject, htmlBody string) error {
	return queue.Dispatch(&MailJob{To: to, Subject: subject, Body: htmlBody})
}

// RegisterAll registers every job type with the queue. Call once at
// boot, before workers start.
func RegisterAll() {
	queue.Register("*jobs.MailJob", func() queue.Job { return &MailJob{} })
}
