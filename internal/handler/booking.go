package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/queue"
	"github.com/iliyamo/hotel-room-booking/internal/service"
)

// BookingHandler exposes the booking endpoints. JWT authentication has
// already run by the time any method here is invoked; methods return
// 401 only when the user ID cannot be extracted from the context.
// All business decisions live in the service; the handler's job is
// argument coercion and mapping error kinds onto status codes.
type BookingHandler struct {
	Bookings *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: svc}
}

// getUserID extracts the authenticated user's ID from echo.Context.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	}
	return 0, errors.New("invalid user_id in context")
}

type bookingBody struct {
	RoomID int64 `json:"roomId"`
}

type roomPart struct {
	ID        uint64    `json:"id"`
	HotelID   uint64    `json:"hotelId"`
	Name      string    `json:"name"`
	Capacity  uint32    `json:"capacity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type bookingResp struct {
	ID   uint64   `json:"id"`
	Room roomPart `json:"Room"`
}

func toBookingResp(bw model.BookingWithRoom) bookingResp {
	return bookingResp{
		ID: bw.ID,
		Room: roomPart{
			ID:        bw.Room.ID,
			HotelID:   bw.Room.HotelID,
			Name:      bw.Room.Name,
			Capacity:  bw.Room.Capacity,
			CreatedAt: bw.Room.CreatedAt,
			UpdatedAt: bw.Room.UpdatedAt,
		},
	}
}

// statusFor maps the service error taxonomy onto HTTP statuses.
func statusFor(err error) (int, echo.Map) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, echo.Map{"error": "not_found", "message": err.Error()}
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, echo.Map{"error": "forbidden", "message": err.Error()}
	default:
		return http.StatusInternalServerError, echo.Map{"error": "internal", "message": "database error"}
	}
}

// GetBooking handles GET /v1/booking. It returns the caller's booking
// with its room, or 404 when the user has none.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "unauthorized"})
	}
	bw, err := h.Bookings.GetBooking(c.Request().Context(), userID)
	if err != nil {
		code, body := statusFor(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, toBookingResp(bw))
}

// CreateBooking handles POST /v1/booking. The body must carry a
// positive roomId. 404 when the caller has no enrollment or the room
// does not exist; 403 when the ticket does not qualify or the room is
// at capacity.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "unauthorized"})
	}
	var body bookingBody
	if err := c.Bind(&body); err != nil || body.RoomID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "roomId must be a positive integer"})
	}
	ctx := c.Request().Context()
	bookingID, err := h.Bookings.CreateBooking(ctx, userID, uint64(body.RoomID))
	if err != nil {
		code, respBody := statusFor(err)
		return c.JSON(code, respBody)
	}
	// Fire-and-forget: the reservation stands whether or not the event
	// reaches the broker.
	_ = queue.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
		BookingID: bookingID,
		UserID:    userID,
		RoomID:    uint64(body.RoomID),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"bookingId": bookingID})
}

// UpdateBooking handles PUT /v1/booking/:bookingId, transferring the
// booking to another room. 403 when the caller has no booking or does
// not own this one, 404 when the booking or target room is missing,
// 403 when the target room is full.
func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid booking id"})
	}
	var body bookingBody
	if err := c.Bind(&body); err != nil || body.RoomID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "roomId must be a positive integer"})
	}
	ctx := c.Request().Context()
	id, err := h.Bookings.ChangeRoom(ctx, userID, bookingID, uint64(body.RoomID))
	if err != nil {
		code, respBody := statusFor(err)
		return c.JSON(code, respBody)
	}
	_ = queue.PublishRoomChanged(ctx, queue.BookingRoomChangedEvent{
		BookingID: id,
		UserID:    userID,
		RoomID:    uint64(body.RoomID),
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"bookingId": id})
}
