// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess   = "success"
	KeyError     = "error"
	KeyForbidden = "forbidden"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserSuspended      = "user.suspended"

	// Items
	KeyItemCreated    = "item.created"
	KeyItemUpdated    = "item.updated"
	KeyItemDeleted    = "item.deleted"
	KeyItemNotFound   = "item.not_found"
	KeyItemPurchased  = "item.purchased"
	KeyItemRefunded   = "item.refunded"
	KeyItemOutOfStock = "item.out_of_stock"

	// Conversations
	KeyConversationCreated    = "conversation.created"
	KeyConversationNotFound   = "conversation.not_found"
	KeyConsentRecorded        = "conversation.consent_recorded"
	KeyConsentAlreadyAgreed   = "conversation.already_agreed"
	KeyAddressRevealed        = "conversation.address_revealed"
	KeyPickupConfirmed        = "conversation.pickup_confirmed"
	KeyMessageSent            = "conversation.message_sent"
	KeyConversationForbidden  = "conversation.forbidden"

	// Pickup requests
	KeyPickupRequestCreated   = "pickup_request.created"
	KeyPickupRequestNotFound  = "pickup_request.not_found"
	KeyPickupRequestAccepted  = "pickup_request.accepted"
	KeyPickupRequestDeclined  = "pickup_request.declined"
	KeyPickupRequestCanceled  = "pickup_request.canceled"
	KeyPickupRequestCompleted = "pickup_request.completed"
	KeyPickupRequestConflict  = "pickup_request.invalid_state"

	// Ratings and badges
	KeyRatingCreated     = "rating.created"
	KeyRatingDuplicate   = "rating.duplicate"
	KeyRatingNotFound    = "rating.not_found"
	KeyBadgeAwarded      = "badge.awarded"

	// Store agreements
	KeyStoreAgreementCreated  = "store_agreement.created"
	KeyStoreAgreementNotFound = "store_agreement.not_found"
	KeyStoreAgreementApproved = "store_agreement.approved"
	KeyStoreAgreementRejected = "store_agreement.rejected"
	KeyStoreAgreementPending  = "store_agreement.pending"

	// Payments
	KeyPaymentSuccess = "payment.success"
	KeyPaymentFailed  = "payment.failed"
	KeyRefundSuccess  = "payment.refund_success"

	// Notifications
	KeyNotificationNotFound = "notification.not_found"
	KeyNotificationRead     = "notification.read"

	// Files
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"

	// Validation
	KeyValidationInvalid = "validation.invalid"
)
