package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/campaignfox/CampaignFox/internal/pkg/env"
)

// SendMail sends an email via SMTP
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendInviteMail sends a workspace invite link to the invited address
func SendInviteMail(to, workspaceName, inviteToken string) error {
	baseURL := env.GetEnv("APP_BASE_URL", "http://localhost:4000")
	link := fmt.Sprintf("%s/invites/accept?token=%s", baseURL, inviteToken)
	subject := fmt.Sprintf("You have been invited to %s", workspaceName)
	body := fmt.Sprintf(
		"<p>You have been invited to join the workspace <strong>%s</strong>.</p>"+
			"<p><a href=\"%s\">Accept the invitation</a></p>",
		workspaceName, link,
	)
	return SendMail(to, subject, body)
}
