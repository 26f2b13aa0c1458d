package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// NewApprovalNotification builds the message sent to the approver picked for
// a submitted template.
func NewApprovalNotification(sender, approverEmail, templateName, requesterName string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", sender)
	m.SetHeader("To", approverEmail)
	m.SetHeader("Subject", fmt.Sprintf("Approval requested: %s", templateName))
	m.SetBody("text/plain", fmt.Sprintf(
		"%s submitted the onboarding template %q for approval. Please review it in the HR portal.",
		requesterName, templateName))
	return m
}

func SendEmail(message *gomail.Message, sender string, password string, smtpServer string, smtpPort int) error {
	d := gomail.NewDialer(smtpServer, smtpPort, sender, password)

	if err := d.DialAndSend(message); err != nil {
		return err
	}

	return nil
}
