// Package validator builds declarative field checks for request payloads.
//
// Each rule constructor returns a Rule pairing a Check with the error to
// report; Apply evaluates them all and returns ValidationErrors listing every
// failing field, so an agent gets the full list of problems in one response:
//
//	err := validator.Apply(
//		validator.RequiredString("attendee_name", req.AttendeeName),
//		validator.ValidEmail("attendee_email", req.AttendeeEmail),
//		validator.ValidTimezone("attendee_timezone", req.AttendeeTimezone),
//	)
//
// Rules whose value is optional (timezone, guests) pass on empty input; pair
// them with RequiredString when the field is mandatory.
package validator
