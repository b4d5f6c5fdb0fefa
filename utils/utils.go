package utils

import (
	"finvoice/config"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/smtp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10))
	}
	return otp
}

// GenerateReferenceNumber returns a unique reference like TXN9F2C41A8B7D3.
func GenerateReferenceNumber(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return prefix + id[:12]
}

// GenerateAccountNumber returns a random 12-digit account number.
func GenerateAccountNumber() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	number := ""
	for i := 0; i < 12; i++ {
		number += fmt.Sprintf("%d", rng.Intn(10))
	}
	return number
}

// CalculateEMI computes the standard equated monthly installment for a
// principal at an annual percentage rate over the given tenure.
func CalculateEMI(principal, annualRate float64, tenureMonths int) float64 {
	if principal <= 0 || tenureMonths <= 0 {
		return 0
	}
	if annualRate == 0 {
		return math.Round(principal/float64(tenureMonths)*100) / 100
	}

	monthlyRate := annualRate / (12 * 100)
	factor := math.Pow(1+monthlyRate, float64(tenureMonths))
	emi := principal * monthlyRate * factor / (factor - 1)
	return math.Round(emi*100) / 100
}

// SendOTPToMobile delivers an OTP over the Fast2SMS DLT route.
func SendOTPToMobile(mobile, otp string) error {
	client := resty.New().SetTimeout(10 * time.Second)

	resp, err := client.R().
		SetQueryParams(map[string]string{
			"authorization":    config.AppConfig.LocalTextApi,
			"route":            "dlt",
			"sender_id":        "FINVOC",
			"message":          "197302", // DLT template ID
			"variables_values": fmt.Sprintf("%s|%d", otp, config.AppConfig.OTPExpiryMinutes),
			"flash":            "0",
			"numbers":          mobile,
		}).
		Get(config.AppConfig.LocalTextApiUrl)
	if err != nil {
		log.Printf("Error while sending OTP: %v", err)
		return err
	}

	if resp.StatusCode() != 200 {
		log.Printf("Failed to send OTP, response code: %d", resp.StatusCode())
		return fmt.Errorf("failed to send OTP, code: %d", resp.StatusCode())
	}

	log.Println("OTP sent successfully to", mobile)
	return nil
}

// SendEmail sends an HTML email through the configured SMTP account.
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: FinVoice <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	return nil
}

// SendOTPEmail mails an OTP as a fallback to SMS delivery.
func SendOTPEmail(otp, email string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">FinVoice Transfer OTP</h2>
					<p style="font-size: 16px; color: #555555; text-align: center;">Your One Time Password (OTP) is:</p>
					<h1 style="text-align: center; color: #4CAF50; font-size: 40px; margin: 20px 0;">%s</h1>
					<p style="font-size: 14px; color: #999999; text-align: center;">Do not share this OTP with anyone.</p>
				</div>
			</body>
		</html>
	`, otp)

	return SendEmail([]string{email}, "FinVoice Transfer OTP", body)
}

// SendReminderEmail mails an upcoming payment reminder notification.
func SendReminderEmail(email, userName, reminderType string, amount float64, dueDate time.Time) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Payment Reminder</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">Your %s payment of ₹%.2f is due on %s.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">FinVoice Team</p>
				</div>
			</body>
		</html>
	`, userName, reminderType, amount, dueDate.Format("02 Jan 2006"))

	return SendEmail([]string{email}, "Upcoming Payment Reminder - FinVoice", body)
}
