// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pradeepthalla80/grocery-share-backend/internal/config"
	"github.com/pradeepthalla80/grocery-share-backend/internal/models"
	"github.com/pradeepthalla80/grocery-share-backend/internal/utils"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// Create records an in-app notification row for a user.
func (s *NotificationService) Create(userID uuid.UUID, notifType, title, message string, data models.JSONB) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    data,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (s *NotificationService) ListNotifications(userID uuid.UUID, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifications []models.Notification
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).
		Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkRead(id, userID uuid.UUID) error {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// Authentication notifications

func (s *NotificationService) SendWelcomeEmail(user *models.User, verificationToken string) error {
	tmpl := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"Username":        user.Username,
		"VerificationURL": fmt.Sprintf("%s/verify-email?token=%s", s.config.Frontend.BaseURL, verificationToken),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

func (s *NotificationService) SendPasswordResetEmail(user *models.User, resetToken string) error {
	tmpl := s.getEmailTemplate("password_reset")

	data := map[string]interface{}{
		"Username": user.Username,
		"ResetURL": fmt.Sprintf("%s/reset-password?token=%s", s.config.Frontend.BaseURL, resetToken),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

// Conversation notifications

func (s *NotificationService) NotifyNewMessage(conversation *models.Conversation, message *models.Message) {
	recipient := conversation.BuyerID
	if message.SenderID == conversation.BuyerID {
		recipient = conversation.SellerID
	}

	err := s.Create(recipient, "new_message", "New message",
		fmt.Sprintf("You have a new message about %q", conversation.Item.Title),
		models.JSONB{
			"conversation_id": conversation.ID.String(),
			"item_id":         conversation.ItemID.String(),
			"sender_id":       message.SenderID.String(),
		})
	if err != nil {
		logrus.WithError(err).Warn("failed to create message notification")
	}
}

func (s *NotificationService) NotifyAddressRevealed(conversation *models.Conversation) {
	for _, userID := range conversation.Participants() {
		err := s.Create(userID, "address_revealed", "Pickup address shared",
			fmt.Sprintf("Both parties agreed; the pickup address for %q is now visible", conversation.Item.Title),
			models.JSONB{
				"conversation_id": conversation.ID.String(),
				"item_id":         conversation.ItemID.String(),
			})
		if err != nil {
			logrus.WithError(err).Warn("failed to create address reveal notification")
		}
	}
}

func (s *NotificationService) NotifyPickupConfirmed(conversation *models.Conversation) {
	for _, userID := range conversation.Participants() {
		err := s.Create(userID, "pickup_confirmed", "Pickup confirmed",
			fmt.Sprintf("The exchange of %q is confirmed by both parties", conversation.Item.Title),
			models.JSONB{
				"conversation_id": conversation.ID.String(),
				"item_id":         conversation.ItemID.String(),
			})
		if err != nil {
			logrus.WithError(err).Warn("failed to create pickup confirmation notification")
		}
	}
}

// Pickup request notifications

func (s *NotificationService) NotifyPickupRequested(request *models.PickupRequest) {
	err := s.Create(request.SellerID, "pickup_requested", "New pickup request",
		fmt.Sprintf("%s requested to pick up %q", request.Requester.Username, request.Item.Title),
		models.JSONB{
			"request_id": request.ID.String(),
			"item_id":    request.ItemID.String(),
		})
	if err != nil {
		logrus.WithError(err).Warn("failed to create pickup request notification")
	}
}

func (s *NotificationService) NotifyPickupAccepted(request *models.PickupRequest) {
	err := s.Create(request.RequesterID, "pickup_accepted", "Pickup request accepted",
		fmt.Sprintf("Your request for %q was accepted", request.Item.Title),
		models.JSONB{
			"request_id": request.ID.String(),
			"item_id":    request.ItemID.String(),
		})
	if err != nil {
		logrus.WithError(err).Warn("failed to create pickup accepted notification")
	}

	var requester models.User
	if s.db.First(&requester, "id = ?", request.RequesterID).Error == nil {
		tmpl := s.getEmailTemplate("pickup_accepted")
		data := map[string]interface{}{
			"Username":  requester.Username,
			"ItemTitle": request.Item.Title,
		}
		if body, err := s.renderTemplate(tmpl.Body, data); err == nil {
			s.sendEmail(requester.Email, tmpl.Subject, body)
		}
	}
}

func (s *NotificationService) NotifyPickupDeclined(request *models.PickupRequest) {
	err := s.Create(request.RequesterID, "pickup_declined", "Pickup request declined",
		fmt.Sprintf("Your request for %q was declined: %s", request.Item.Title, request.DeclineReason),
		models.JSONB{
			"request_id": request.ID.String(),
			"item_id":    request.ItemID.String(),
			"reason":     request.DeclineReason,
		})
	if err != nil {
		logrus.WithError(err).Warn("failed to create pickup declined notification")
	}
}

func (s *NotificationService) NotifyPickupCompleted(request *models.PickupRequest) {
	for _, userID := range []uuid.UUID{request.RequesterID, request.SellerID} {
		err := s.Create(userID, "pickup_completed", "Pickup completed",
			fmt.Sprintf("The pickup of %q is complete", request.Item.Title),
			models.JSONB{
				"request_id": request.ID.String(),
				"item_id":    request.ItemID.String(),
			})
		if err != nil {
			logrus.WithError(err).Warn("failed to create pickup completed notification")
		}
	}
}

// Payment notifications

func (s *NotificationService) NotifyPurchaseConfirmed(order *models.Order) {
	err := s.Create(order.BuyerID, "purchase_confirmed", "Purchase confirmed",
		fmt.Sprintf("Your payment of %.2f for %q went through", order.Amount, order.Item.Title),
		models.JSONB{
			"order_id": order.ID.String(),
			"item_id":  order.ItemID.String(),
		})
	if err != nil {
		logrus.WithError(err).Warn("failed to create purchase notification")
	}

	saleErr := s.Create(order.SellerID, "item_sold", "Item sold",
		fmt.Sprintf("%q sold for %.2f", order.Item.Title, order.Amount),
		models.JSONB{
			"order_id": order.ID.String(),
			"item_id":  order.ItemID.String(),
		})
	if saleErr != nil {
		logrus.WithError(saleErr).Warn("failed to create sale notification")
	}
}

func (s *NotificationService) NotifyRefundProcessed(order *models.Order) {
	err := s.Create(order.BuyerID, "refund_processed", "Refund processed",
		fmt.Sprintf("Your refund of %.2f for %q has been processed", order.Amount, order.Item.Title),
		models.JSONB{
			"order_id": order.ID.String(),
			"item_id":  order.ItemID.String(),
			"reason":   order.RefundReason,
		})
	if err != nil {
		logrus.WithError(err).Warn("failed to create refund notification")
	}
}

// Store agreement notifications

func (s *NotificationService) NotifyAgreementReviewed(agreement *models.StoreAgreement, approved bool) {
	notifType := "store_agreement_rejected"
	title := "Store application rejected"
	message := "Your store seller application was not approved"
	if approved {
		notifType = "store_agreement_approved"
		title = "Store application approved"
		message = "You can now list store items with stock tracking"
	}
	if agreement.ReviewNote != "" {
		message = message + ": " + agreement.ReviewNote
	}

	err := s.Create(agreement.UserID, notifType, title, message, models.JSONB{
		"agreement_id": agreement.ID.String(),
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to create agreement notification")
	}

	var user models.User
	if s.db.First(&user, "id = ?", agreement.UserID).Error == nil {
		tmpl := s.getEmailTemplate("store_agreement")
		data := map[string]interface{}{
			"Username": user.Username,
			"Message":  message,
		}
		if body, err := s.renderTemplate(tmpl.Body, data); err == nil {
			s.sendEmail(user.Email, tmpl.Subject, body)
		}
	}
}

// Helper methods

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config == nil || s.config.Email.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).
			Debug("email not configured, skipping send")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	if err := smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome to Grocery Share",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Username}}!</h2>
	<p>Thanks for joining Grocery Share. Please verify your email address:</p>
	<a href="{{.VerificationURL}}">Verify Email</a>
	<p>Happy sharing,<br>The Grocery Share Team</p>
</body>
</html>`,
		},
		"password_reset": {
			Subject: "Password Reset Request",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Username}},</h2>
	<p>We received a request to reset your password. The link expires in 1 hour.</p>
	<a href="{{.ResetURL}}">Reset Password</a>
	<p>If you did not request this, you can ignore this email.</p>
</body>
</html>`,
		},
		"pickup_accepted": {
			Subject: "Pickup Request Accepted",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Good news, {{.Username}}!</h2>
	<p>Your pickup request for "{{.ItemTitle}}" was accepted.</p>
	<p>Open the app to see the pickup details.</p>
</body>
</html>`,
		},
		"store_agreement": {
			Subject: "Store Seller Application Update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Username}},</h2>
	<p>{{.Message}}</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
