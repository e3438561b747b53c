package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

const fromAddress = "noreply@euduvido.com"

func smtpAddr() string {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "25"
	}
	return host + ":" + port
}

// Send delivers a plain-text mail. Delivery is best-effort: callers report
// the outcome but never fail their own operation on a mail error.
func Send(to, subject, body string) bool {
	msg := []byte("Subject: " + subject + "\r\n" +
		"From: " + fromAddress + "\r\n" +
		"To: " + to + "\r\n" +
		"\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(smtpAddr(), nil, fromAddress, []string{to}, msg); err != nil {
		log.Printf("mailer: failed to send to %s: %v", to, err)
		return false
	}
	return true
}

// SendInviteNotification mails an invitee about a pending challenge invite.
func SendInviteNotification(to, description string, amount float64, inviterEmail string) bool {
	if inviterEmail == "" {
		inviterEmail = "Another user"
	}
	if description == "" {
		description = "(no description)"
	}
	subject := "You have been invited to a challenge"
	body := fmt.Sprintf(
		"Hello!\n\n"+
			"You received an invitation to join the challenge:\n%s\n\n"+
			"Stake: %.2f\n"+
			"Invited by: %s\n\n"+
			"Open your invites page to accept.\n",
		description, amount, inviterEmail)
	return Send(to, subject, body)
}
