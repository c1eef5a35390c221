package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "RentWheels Limited"
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #4CAF50; margin: 0;">RentWheels</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2025 RentWheels Limited. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n" + body)

	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	if err := smtp.SendMail(addr, auth, emailFrom, to, []byte(message.String())); err != nil {
		log.Printf("Failed to send email to %v: %v", to, err)
		return err
	}

	return nil
}

// SendBookingRequestEmail notifies a car owner that a renter requested their car.
func SendBookingRequestEmail(ownerEmail, carModel, renterName string, start, end time.Time, total float64) error {
	subject := fmt.Sprintf("New booking request for your %s", carModel)
	body := emailHeader + fmt.Sprintf(`
		<h3>New Booking Request</h3>
		<p><strong>%s</strong> has requested to rent your <strong>%s</strong>.</p>
		<p>Dates: %s &rarr; %s</p>
		<p>Total: $%.2f</p>
		<p>Log in to your dashboard to confirm or decline the request.</p>
	`, renterName, carModel, start.Format("2 Jan 2006"), end.Format("2 Jan 2006"), total) + emailFooter

	return sendEmail([]string{ownerEmail}, subject, body)
}

// SendBookingConfirmedEmail notifies the renter that the owner confirmed.
func SendBookingConfirmedEmail(renterEmail, carModel string, start, end time.Time, total float64) error {
	subject := fmt.Sprintf("Your booking for %s is confirmed", carModel)
	body := emailHeader + fmt.Sprintf(`
		<h3>Booking Confirmed</h3>
		<p>Your booking for the <strong>%s</strong> is confirmed.</p>
		<p>Dates: %s &rarr; %s</p>
		<p>Total: $%.2f</p>
	`, carModel, start.Format("2 Jan 2006"), end.Format("2 Jan 2006"), total) + emailFooter

	return sendEmail([]string{renterEmail}, subject, body)
}
