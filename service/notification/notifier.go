package notification

import (
	"fmt"
	"log"
	"os"
	"strconv"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"github.com/nishirajsingh/AyurSutra/cmd/models"
	"github.com/nishirajsingh/AyurSutra/service/ws"
)

// Notifier records notifications and fans them out to every delivery
// channel. Delivery is best-effort: failures are logged and never
// surfaced to the operation that triggered the notification.
type Notifier struct {
	db         *gorm.DB
	hub        *ws.Hub
	expoClient *expo.PushClient
}

func NewNotifier(db *gorm.DB, hub *ws.Hub) *Notifier {
	return &Notifier{
		db:         db,
		hub:        hub,
		expoClient: expo.NewPushClient(nil),
	}
}

// Notify persists the notification and kicks off asynchronous delivery.
// A persistence failure is swallowed so the parent operation still
// succeeds.
func (n *Notifier) Notify(userID uint, title, message, ntype string, bookingID *uint, priority string) {
	notification := models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      ntype,
		BookingID: bookingID,
		Priority:  priority,
	}

	if err := n.db.Create(&notification).Error; err != nil {
		log.Printf("notification: error creating record for user %d: %v", userID, err)
		return
	}

	go n.deliver(&notification)
}

func (n *Notifier) deliver(notification *models.Notification) {
	if n.hub != nil {
		n.hub.Publish(notification.UserID, notification)
	}

	n.push(notification)

	if notification.Priority == models.PriorityHigh {
		n.email(notification)
	}
}

// push sends the notification to every Expo device the user registered.
func (n *Notifier) push(notification *models.Notification) {
	var devices []models.Device
	if err := n.db.Where("user_id = ?", notification.UserID).Find(&devices).Error; err != nil {
		log.Printf("notification: error loading devices for user %d: %v", notification.UserID, err)
		return
	}
	if len(devices) == 0 {
		return
	}

	var tokens []expo.ExponentPushToken
	for _, device := range devices {
		token, err := expo.NewExponentPushToken(device.Token)
		if err != nil {
			// Stale or malformed token, drop it from the registry.
			n.db.Delete(&models.Device{}, device.ID)
			continue
		}
		tokens = append(tokens, token)
	}
	if len(tokens) == 0 {
		return
	}

	data := map[string]string{"type": notification.Type}
	if notification.BookingID != nil {
		data["booking_id"] = strconv.FormatUint(uint64(*notification.BookingID), 10)
	}

	response, err := n.expoClient.Publish(&expo.PushMessage{
		To:       tokens,
		Title:    notification.Title,
		Body:     notification.Message,
		Sound:    "default",
		Priority: expo.DefaultPriority,
		Data:     data,
	})
	if err != nil {
		log.Printf("notification: error publishing push: %v", err)
		return
	}
	if err := response.ValidateResponse(); err != nil {
		log.Printf("notification: push validation error: %v", err)
	}
}

// email mails high-priority notifications to the recipient's address.
func (n *Notifier) email(notification *models.Notification) {
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		return
	}
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		log.Printf("notification: invalid SMTP port: %v", err)
		return
	}

	var user models.User
	if err := n.db.First(&user, notification.UserID).Error; err != nil {
		log.Printf("notification: error loading user %d for email: %v", notification.UserID, err)
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", fmt.Sprintf("AyurSutra: %s", notification.Title))
	m.SetBody("text/plain", notification.Message)

	d := gomail.NewDialer(smtpHost, port, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("notification: error sending email to %s: %v", user.Email, err)
	}
}
