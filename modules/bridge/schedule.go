package bridge

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/camtang26/cre8tiveCA/handler"
	"github.com/camtang26/cre8tiveCA/pkg/calcom"
	"github.com/camtang26/cre8tiveCA/pkg/logger"
	"github.com/camtang26/cre8tiveCA/pkg/validator"
)

const (
	msgBooked              = "Consultation booked successfully"
	msgCalcomNotConfigured = "Cal.com API key not configured"
	msgBookingUnavailable  = "Booking service unavailable"
)

type scheduleRequest struct {
	AttendeeName     string         `json:"attendee_name"`
	AttendeeEmail    string         `json:"attendee_email"`
	AttendeeTimezone string         `json:"attendee_timezone"`
	StartTimeUTC     string         `json:"start_time_utc"`
	EndTimeUTC       string         `json:"end_time_utc"`
	EventTypeID      int            `json:"event_type_id"`
	Guests           []string       `json:"guests"`
	Metadata         map[string]any `json:"metadata"`
	Language         string         `json:"language"`
}

// parse validates the request and returns its start and end instants. End is
// zero when not supplied.
func (r scheduleRequest) parse() (start, end time.Time, err error) {
	start, _ = time.Parse(time.RFC3339, r.StartTimeUTC)
	if r.EndTimeUTC != "" {
		end, _ = time.Parse(time.RFC3339, r.EndTimeUTC)
	}

	rules := []validator.Rule{
		validator.RequiredString("attendee_name", r.AttendeeName),
		validator.ValidEmail("attendee_email", r.AttendeeEmail),
		validator.ValidTimezone("attendee_timezone", r.AttendeeTimezone),
		validator.RFC3339Time("start_time_utc", r.StartTimeUTC),
		validator.UTCTime("start_time_utc", r.StartTimeUTC),
		validator.OptionalRFC3339Time("end_time_utc", r.EndTimeUTC),
		validator.UTCTime("end_time_utc", r.EndTimeUTC),
		validator.TimeAfter("end_time_utc", end, start),
		validator.ValidEmails("guests", r.Guests),
	}
	if r.EventTypeID != 0 {
		rules = append(rules, validator.PositiveInt("event_type_id", r.EventTypeID))
	}
	return start, end, validator.Apply(rules...)
}

type bookingDetails struct {
	ID        int64  `json:"id"`
	UID       string `json:"uid"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	MeetURL   string `json:"meet_url"`
}

func (s *Service) schedule(ctx handler.Context, req scheduleRequest) handler.Response {
	start, end, err := req.parse()
	if err != nil {
		return handler.Error(err)
	}

	booking, err := s.bookings.CreateBooking(ctx, calcom.BookingRequest{
		EventTypeID: req.EventTypeID,
		Start:       start,
		End:         end,
		TimeZone:    req.AttendeeTimezone,
		Name:        req.AttendeeName,
		Email:       req.AttendeeEmail,
		Guests:      req.Guests,
		Metadata:    req.Metadata,
		Language:    req.Language,
	})
	if err != nil {
		return s.bookingFailure(ctx, err)
	}

	s.log.InfoContext(ctx, "consultation booked",
		logger.Event("booking_created"),
		slog.String("booking_uid", booking.UID),
	)
	return handler.Success(msgBooked, bookingDetails{
		ID:        booking.ID,
		UID:       booking.UID,
		Title:     booking.Title,
		StartTime: booking.Start,
		EndTime:   booking.End,
		MeetURL:   booking.MeetingURL,
	})
}

func (s *Service) bookingFailure(ctx handler.Context, err error) handler.Response {
	var apiErr *calcom.APIError
	switch {
	case errors.Is(err, calcom.ErrMisconfigured):
		s.log.ErrorContext(ctx, "cal.com api key not configured", logger.Event("booking_misconfigured"))
		return handler.Fail(http.StatusInternalServerError, msgCalcomNotConfigured, nil)
	case errors.As(err, &apiErr):
		return handler.Fail(http.StatusBadRequest, apiErr.Message, apiErr.Details())
	default:
		s.log.ErrorContext(ctx, "cal.com request failed", logger.Error(err))
		return handler.Fail(http.StatusBadGateway, msgBookingUnavailable, nil)
	}
}
