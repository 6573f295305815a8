// Package handler turns typed request handlers into http.HandlerFunc values.
//
// A HandlerFunc receives a bound request struct and returns a Response. Wrap
// runs the configured binders, applies decorators and renders the response;
// failures at any step go to the ErrorHandler, which maps them to the bridge's
// JSON envelope:
//
//	{"status":"success"|"error","message":"...","details":...}
//
// Example:
//
//	type ScheduleRequest struct {
//		AttendeeName string `json:"attendee_name"`
//	}
//
//	func (s *Service) schedule(ctx handler.Context, req ScheduleRequest) handler.Response {
//		booking, err := s.calcom.CreateBooking(ctx, ...)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.Success("Consultation booked successfully", booking)
//	}
//
//	r.Post("/api/schedule", handler.Wrap(s.schedule,
//		handler.WithBinders[ScheduleRequest](binder.JSON()),
//		handler.WithErrorHandler[ScheduleRequest](errHandler),
//	))
package handler
