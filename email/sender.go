package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"Inspector/Models"
)

// SendEmail delivers a message through the configured SMTP server.
func SendEmail(config Models.EmailConfig, message Models.EmailMessage) error {
	headers := map[string]string{
		"From":    fmt.Sprintf("%s <%s>", config.FromName, config.FromEmail),
		"To":      strings.Join(message.To, ", "),
		"Subject": message.Subject,
	}
	if len(message.CC) > 0 {
		headers["Cc"] = strings.Join(message.CC, ", ")
	}
	if message.IsHTML {
		headers["MIME-Version"] = "1.0"
		headers["Content-Type"] = "text/html; charset=UTF-8"
	} else {
		headers["Content-Type"] = "text/plain; charset=UTF-8"
	}

	var body strings.Builder
	for key, value := range headers {
		fmt.Fprintf(&body, "%s: %s\r\n", key, value)
	}
	body.WriteString("\r\n")
	body.WriteString(message.Body)

	var recipients []string
	recipients = append(recipients, message.To...)
	recipients = append(recipients, message.CC...)
	recipients = append(recipients, message.BCC...)

	auth := smtp.PlainAuth("", config.Username, config.Password, config.SMTPServer)
	serverAddr := fmt.Sprintf("%s:%d", config.SMTPServer, config.SMTPPort)

	if config.TLSEnabled {
		return sendWithTLS(config, serverAddr, auth, recipients, body.String())
	}
	return smtp.SendMail(serverAddr, auth, config.FromEmail, recipients, []byte(body.String()))
}

func sendWithTLS(config Models.EmailConfig, serverAddr string, auth smtp.Auth, recipients []string, body string) error {
	tlsConfig := &tls.Config{
		ServerName:         config.SMTPServer,
		InsecureSkipVerify: config.SkipTLSCheck,
	}

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %v", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, config.SMTPServer)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %v", err)
	}
	defer client.Close()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %v", err)
	}
	if err = client.Mail(config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %v", err)
	}
	for _, recipient := range recipients {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to add recipient %s: %v", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data connection: %v", err)
	}
	if _, err = w.Write([]byte(body)); err != nil {
		return fmt.Errorf("failed to write email body: %v", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data connection: %v", err)
	}
	return client.Quit()
}
