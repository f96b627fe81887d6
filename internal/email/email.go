package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"zedlink-careers/config"
	"zedlink-careers/internal/models"

	"go.uber.org/zap"
)

type EmailService struct {
	config *config.Config
	logger *zap.Logger
	auth   smtp.Auth
}

type EmailData struct {
	To       []string
	Subject  string
	Template string
	Data     interface{}
}

// Template data structures
type WelcomeEmailData struct {
	Name         string
	Email        string
	DashboardURL string
	SupportEmail string
}

type JobDecisionData struct {
	Name            string
	JobTitle        string
	CompanyName     string
	Approved        bool
	RejectionReason string
	JobURL          string
	SupportEmail    string
}

type ApplicationStatusData struct {
	Name           string
	JobTitle       string
	CompanyName    string
	Status         string
	ApplicationURL string
	SupportEmail   string
}

type PartnerDecisionData struct {
	ContactPerson   string
	CompanyName     string
	Approved        bool
	RejectionReason string
	SupportEmail    string
}

func NewEmailService(config *config.Config, logger *zap.Logger) *EmailService {
	var auth smtp.Auth
	if config.Email.SMTPUser != "" && config.Email.SMTPPassword != "" {
		auth = smtp.PlainAuth("", config.Email.SMTPUser, config.Email.SMTPPassword, config.Email.SMTPHost)
	}

	return &EmailService{
		config: config,
		logger: logger,
		auth:   auth,
	}
}

// SendWelcomeEmail sends a welcome email after registration
func (e *EmailService) SendWelcomeEmail(user *models.User) error {
	data := WelcomeEmailData{
		Name:         user.FullName,
		Email:        user.Email,
		DashboardURL: fmt.Sprintf("%s/dashboard", e.config.Frontend.BaseURL),
		SupportEmail: e.config.Email.From,
	}

	emailData := EmailData{
		To:       []string{user.Email},
		Subject:  "Welcome to ZedLink Careers",
		Template: "welcome",
		Data:     data,
	}

	return e.sendEmail(emailData)
}

// SendJobDecisionEmail notifies the employer about a moderation decision
func (e *EmailService) SendJobDecisionEmail(job *models.JobPosting, employer *models.User, approved bool) error {
	subject := fmt.Sprintf("Your job posting was approved: %s", job.Title)
	if !approved {
		subject = fmt.Sprintf("Your job posting was not approved: %s", job.Title)
	}

	data := JobDecisionData{
		Name:            employer.FullName,
		JobTitle:        job.Title,
		CompanyName:     job.Company.Name,
		Approved:        approved,
		RejectionReason: job.RejectionReason,
		JobURL:          fmt.Sprintf("%s/jobs/%s", e.config.Frontend.BaseURL, job.ID.String()),
		SupportEmail:    e.config.Email.From,
	}

	emailData := EmailData{
		To:       []string{employer.Email},
		Subject:  subject,
		Template: "job_decision",
		Data:     data,
	}

	return e.sendEmail(emailData)
}

// SendApplicationStatusEmail notifies the applicant about a status change
func (e *EmailService) SendApplicationStatusEmail(application *models.Application, job *models.JobPosting) error {
	data := ApplicationStatusData{
		Name:           application.FullName,
		JobTitle:       job.Title,
		CompanyName:    job.Company.Name,
		Status:         string(application.Status),
		ApplicationURL: fmt.Sprintf("%s/applications/%s", e.config.Frontend.BaseURL, application.ID.String()),
		SupportEmail:   e.config.Email.From,
	}

	emailData := EmailData{
		To:       []string{application.Email},
		Subject:  fmt.Sprintf("Update on your application for %s", job.Title),
		Template: "application_status",
		Data:     data,
	}

	return e.sendEmail(emailData)
}

// SendPartnerDecisionEmail notifies an agency about its directory application
func (e *EmailService) SendPartnerDecisionEmail(partner *models.RecruitmentPartner, approved bool) error {
	subject := "Your partner application was approved"
	if !approved {
		subject = "Your partner application was not approved"
	}

	data := PartnerDecisionData{
		ContactPerson:   partner.ContactPerson,
		CompanyName:     partner.CompanyName,
		Approved:        approved,
		RejectionReason: partner.RejectionReason,
		SupportEmail:    e.config.Email.From,
	}

	emailData := EmailData{
		To:       []string{partner.Email},
		Subject:  subject,
		Template: "partner_decision",
		Data:     data,
	}

	return e.sendEmail(emailData)
}

// sendEmail sends an email using the configured SMTP settings
func (e *EmailService) sendEmail(emailData EmailData) error {
	// When delivery is disabled (local development), log instead of sending
	if !e.config.Email.Enabled {
		e.logger.Info("Email delivery disabled, skipping send",
			zap.Strings("to", emailData.To),
			zap.String("subject", emailData.Subject),
			zap.String("template", emailData.Template))
		return nil
	}

	// Load and parse template
	body, err := e.renderTemplate(emailData.Template, emailData.Data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	// Prepare email message
	message := e.buildMessage(emailData.To, emailData.Subject, body)

	// Send email
	addr := fmt.Sprintf("%s:%d", e.config.Email.SMTPHost, e.config.Email.SMTPPort)
	to := emailData.To

	err = smtp.SendMail(addr, e.auth, e.config.Email.From, to, []byte(message))
	if err != nil {
		e.logger.Error("Failed to send email",
			zap.Error(err),
			zap.Strings("to", to),
			zap.String("subject", emailData.Subject))
		return fmt.Errorf("failed to send email: %w", err)
	}

	e.logger.Info("Email sent successfully",
		zap.Strings("to", to),
		zap.String("subject", emailData.Subject))

	return nil
}

// renderTemplate renders an email template with the provided data
func (e *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	// Templates are kept inline; they are small and rarely change
	templates := map[string]string{
		"welcome": `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Welcome</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1 style="color: #1a7f5a;">Welcome to ZedLink Careers!</h1>
        <p>Hello {{.Name}},</p>
        <p>Thank you for registering with ZedLink Careers. Your account is ready to use.</p>
        <div style="text-align: center; margin: 30px 0;">
            <a href="{{.DashboardURL}}" style="background-color: #1a7f5a; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">Go to your dashboard</a>
        </div>
        <p>If you have any questions, contact us at {{.SupportEmail}}.</p>
        <p>The ZedLink Careers Team</p>
    </div>
</body>
</html>`,

		"job_decision": `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Job posting decision</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        {{if .Approved}}
        <h1 style="color: #1a7f5a;">Your job posting is live</h1>
        <p>Hello {{.Name}},</p>
        <p>Your posting <strong>{{.JobTitle}}</strong> for {{.CompanyName}} has been approved and is now visible to candidates.</p>
        <div style="text-align: center; margin: 30px 0;">
            <a href="{{.JobURL}}" style="background-color: #1a7f5a; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">View posting</a>
        </div>
        {{else}}
        <h1 style="color: #b3261e;">Your job posting was not approved</h1>
        <p>Hello {{.Name}},</p>
        <p>Your posting <strong>{{.JobTitle}}</strong> for {{.CompanyName}} was reviewed and could not be approved.</p>
        {{if .RejectionReason}}<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;"><p><strong>Reason:</strong> {{.RejectionReason}}</p></div>{{end}}
        <p>You can edit the posting and resubmit it for review.</p>
        {{end}}
        <p>If you have any questions, contact us at {{.SupportEmail}}.</p>
        <p>The ZedLink Careers Team</p>
    </div>
</body>
</html>`,

		"application_status": `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Application update</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1 style="color: #1a7f5a;">Update on your application</h1>
        <p>Hello {{.Name}},</p>
        <p>The status of your application for <strong>{{.JobTitle}}</strong> at {{.CompanyName}} changed to <strong>{{.Status}}</strong>.</p>
        <div style="text-align: center; margin: 30px 0;">
            <a href="{{.ApplicationURL}}" style="background-color: #1a7f5a; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">View application</a>
        </div>
        <p>If you have any questions, contact us at {{.SupportEmail}}.</p>
        <p>The ZedLink Careers Team</p>
    </div>
</body>
</html>`,

		"partner_decision": `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Partner application decision</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        {{if .Approved}}
        <h1 style="color: #1a7f5a;">Welcome to the partner directory</h1>
        <p>Hello {{.ContactPerson}},</p>
        <p><strong>{{.CompanyName}}</strong> has been approved and is now listed in the ZedLink Careers partner directory.</p>
        {{else}}
        <h1 style="color: #b3261e;">Your partner application was not approved</h1>
        <p>Hello {{.ContactPerson}},</p>
        <p>The application for <strong>{{.CompanyName}}</strong> was reviewed and could not be approved.</p>
        {{if .RejectionReason}}<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;"><p><strong>Reason:</strong> {{.RejectionReason}}</p></div>{{end}}
        {{end}}
        <p>If you have any questions, contact us at {{.SupportEmail}}.</p>
        <p>The ZedLink Careers Team</p>
    </div>
</body>
</html>`,
	}

	templateStr, exists := templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	// Parse and execute template
	tmpl, err := template.New(templateName).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// buildMessage builds the email message with headers
func (e *EmailService) buildMessage(to []string, subject, body string) string {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", e.config.Email.FromName, e.config.Email.From)
	headers["To"] = strings.Join(to, ", ")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body

	return message
}
