package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/GuiSantosdev/clivus/internal/pkg/env"
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

// WelcomeEmailInput carries the credential-issuance email fields.
type WelcomeEmailInput struct {
	To       string
	Name     string
	Email    string
	Password string
	PlanName string
}

// SendWelcomeEmail sends the administrative credential-issuance email with
// the generated password and assigned plan.
func SendWelcomeEmail(in WelcomeEmailInput) error {
	subject := "Bem-vindo ao Clivus"
	body := fmt.Sprintf(
		"<h2>Olá, %s!</h2>"+
			"<p>Sua conta foi criada no plano <strong>%s</strong>.</p>"+
			"<p>Login: %s<br>Senha: %s</p>"+
			"<p>Recomendamos trocar a senha no primeiro acesso.</p>",
		in.Name, in.PlanName, in.Email, in.Password,
	)
	return SendMail(in.To, subject, body)
}
