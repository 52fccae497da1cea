package models

const (
	RoleTourist = "tourist"
	RoleHost    = "host"
	RoleDriver  = "driver"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

const (
	KindAccommodation = "accommodation"
	KindTransport     = "transport"
)

// Conversation steps for the bot flows.
const (
	StepMainMenu       = "main_menu"
	StepEnterEmail     = "enter_email"
	StepEnterPassword  = "enter_password"
	StepRegisterName   = "register_name"
	StepRegisterRole   = "register_role"
	StepSelectStay     = "select_stay"
	StepEnterCheckIn   = "enter_check_in"
	StepEnterCheckOut  = "enter_check_out"
	StepEnterGuests    = "enter_guests"
	StepSelectRide     = "select_ride"
	StepEnterDate      = "enter_travel_date"
	StepEnterSeats     = "enter_seats"
	StepConfirmBooking = "confirm_booking"
	StepSearchStays    = "search_stays"
	StepSearchRides    = "search_rides"
)

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"

const (
	// DefaultSessionTTL время жизни сессии пользователя в Redis
	DefaultSessionTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultPaginationSize размер пагинации по умолчанию
	DefaultPaginationSize = 5

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах

	// MirrorQueueSize размер очереди воркера зеркалирования
	MirrorQueueSize = 100
)
