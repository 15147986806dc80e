package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Email is a rendered outbound message.
type Email struct {
	To       string
	Subject  string
	HTMLBody string
}

type verificationData struct {
	Name            string
	VerificationURL string
}

type passwordResetData struct {
	Name     string
	ResetURL string
}

type registrationData struct {
	Name       string
	EventTitle string
	EventDate  string
}

// BuildVerificationEmail renders the welcome email with the verify link.
func BuildVerificationEmail(name, verificationURL string) Email {
	return Email{
		Subject:  "Welcome to Health Day - Verify Your Email",
		HTMLBody: render(verificationTmpl, verificationData{Name: name, VerificationURL: verificationURL}),
	}
}

// BuildPasswordResetEmail renders the password reset email.
func BuildPasswordResetEmail(name, resetURL string) Email {
	return Email{
		Subject:  "Password Reset Request - Health Day",
		HTMLBody: render(passwordResetTmpl, passwordResetData{Name: name, ResetURL: resetURL}),
	}
}

// BuildRegistrationConfirmationEmail renders the event confirmation email.
func BuildRegistrationConfirmationEmail(name, eventTitle string, eventDate time.Time) Email {
	return Email{
		Subject: "Event Registration Confirmation - Health Day",
		HTMLBody: render(registrationTmpl, registrationData{
			Name:       name,
			EventTitle: eventTitle,
			EventDate:  eventDate.Format("Monday, January 2, 2006 at 3:04 PM"),
		}),
	}
}

func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template render failed: %v", err)
	}
	return buf.String()
}

var verificationTmpl = template.Must(template.New("verification").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Welcome to Health Day!</h2>
  <p>Hello {{.Name}},</p>
  <p>Thank you for registering with Health Day. To complete your registration, please verify your email address by clicking the button below:</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.VerificationURL}}" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block;">Verify Email</a>
  </div>
  <p>If the button doesn't work, you can copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">{{.VerificationURL}}</p>
  <p>This link will expire in 24 hours.</p>
  <p>Best regards,<br>The Health Day Team</p>
</div>
`))

var passwordResetTmpl = template.Must(template.New("passwordReset").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #dc2626;">Password Reset Request</h2>
  <p>Hello {{.Name}},</p>
  <p>You requested a password reset for your Health Day account. Click the button below to reset your password:</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.ResetURL}}" style="background-color: #dc2626; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
  </div>
  <p>If the button doesn't work, you can copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #666;">{{.ResetURL}}</p>
  <p>This link will expire in 10 minutes.</p>
  <p>If you didn't request this password reset, please ignore this email.</p>
  <p>Best regards,<br>The Health Day Team</p>
</div>
`))

var registrationTmpl = template.Must(template.New("registration").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #059669;">Registration Confirmed!</h2>
  <p>Hello {{.Name}},</p>
  <p>Your registration for the following event has been confirmed:</p>
  <div style="background-color: #f3f4f6; padding: 20px; border-radius: 5px; margin: 20px 0;">
    <h3 style="margin: 0 0 10px 0; color: #1f2937;">{{.EventTitle}}</h3>
    <p style="margin: 0; color: #6b7280;">Date: {{.EventDate}}</p>
  </div>
  <p>We look forward to seeing you at the event!</p>
  <p>Best regards,<br>The Health Day Team</p>
</div>
`))
