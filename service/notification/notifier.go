package notification

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// Template identifiers understood by Dispatch.
const (
	TemplateBookingConfirmed   = "booking_confirmed"
	TemplateBookingCancelled   = "booking_cancelled"
	TemplateBookingRescheduled = "booking_rescheduled"
)

// Notifier owns the outbound channels. Explicitly constructed and injected;
// never a package-level singleton.
type Notifier struct {
	db         *gorm.DB
	expoClient *expo.PushClient
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{
		db:         db,
		expoClient: expo.NewPushClient(nil),
	}
}

// Dispatch sends every applicable channel for the template in the
// background. Callers never wait on it and never see its errors; failures
// are logged and recorded on the appointment's reminder trail only.
func (n *Notifier) Dispatch(templateID string, appt *models.Appointment, tenant *models.Tenant) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("notification dispatch panic for appointment %d: %v", appt.ID, rec)
			}
		}()

		if appt.ClientEmail != "" {
			n.record(appt.ID, "email", n.sendEmail(templateID, appt, tenant))
		}
		n.record(appt.ID, "push", n.sendPush(templateID, appt, tenant))
	}()
}

func (n *Notifier) record(appointmentID uint, channel string, sendErr error) {
	status := "sent"
	if sendErr != nil {
		status = "failed"
		log.Printf("Error sending %s notification for appointment %d: %v", channel, appointmentID, sendErr)
	}

	reminder := models.ReminderRecord{
		AppointmentID: appointmentID,
		Channel:       channel,
		SentAt:        time.Now(),
		Status:        status,
	}
	if err := n.db.Create(&reminder).Error; err != nil {
		log.Printf("Error recording %s reminder for appointment %d: %v", channel, appointmentID, err)
	}
}

func (n *Notifier) sendEmail(templateID string, appt *models.Appointment, tenant *models.Tenant) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	subject, body := renderTemplate(templateID, appt, tenant)

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", appt.ClientEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	port, err := strconv.Atoi(smtpPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %v", err)
	}
	d := gomail.NewDialer(smtpHost, port, smtpUser, smtpPass)

	return d.DialAndSend(m)
}

// sendPush alerts the salon's registered devices about the booking event.
func (n *Notifier) sendPush(templateID string, appt *models.Appointment, tenant *models.Tenant) error {
	var devices []models.Device
	if err := n.db.Where("tenant_id = ?", appt.TenantID).Find(&devices).Error; err != nil {
		return err
	}
	if len(devices) == 0 {
		return nil
	}

	var tokens []expo.ExponentPushToken
	for _, device := range devices {
		pushToken, err := expo.NewExponentPushToken(device.Token)
		if err != nil {
			log.Printf("Invalid push token format %s: %v", device.Token, err)
			continue
		}
		tokens = append(tokens, pushToken)
	}
	if len(tokens) == 0 {
		return nil
	}

	title, body := renderTemplate(templateID, appt, tenant)

	response, err := n.expoClient.Publish(&expo.PushMessage{
		To:       tokens,
		Title:    title,
		Body:     body,
		Sound:    "default",
		Priority: expo.DefaultPriority,
		Data: map[string]string{
			"appointment_id": strconv.FormatUint(uint64(appt.ID), 10),
			"template":       templateID,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %v", err)
	}
	if validationErr := response.ValidateResponse(); validationErr != nil {
		return fmt.Errorf("notification validation failed: %v", validationErr)
	}
	return nil
}

func renderTemplate(templateID string, appt *models.Appointment, tenant *models.Tenant) (subject, body string) {
	salonName := "your salon"
	if tenant != nil {
		salonName = tenant.Name
	}
	when := fmt.Sprintf("%s at %s", appt.Date.Format("2006-01-02"), appt.StartTime)

	switch templateID {
	case TemplateBookingCancelled:
		return "Appointment cancelled",
			fmt.Sprintf("Your %s appointment at %s on %s has been cancelled.", appt.ServiceName, salonName, when)
	case TemplateBookingRescheduled:
		return "Appointment rescheduled",
			fmt.Sprintf("Your %s appointment at %s has been moved to %s.", appt.ServiceName, salonName, when)
	default:
		return "Appointment confirmed",
			fmt.Sprintf("Your %s appointment at %s on %s is confirmed.", appt.ServiceName, salonName, when)
	}
}
