// Package calcom books consultations through the Cal.com v2 API.
//
// A Client posts to {base}/bookings with a bearer API key and the
// cal-api-version header. A booking succeeds only when Cal.com answers 2xx
// and its envelope reports status "success"; anything else is an *APIError
// carrying Cal.com's message and the raw response body.
//
//	client := calcom.NewClient(cfg, calcom.WithLogger(log), calcom.WithObserver(m))
//	booking, err := client.CreateBooking(ctx, calcom.BookingRequest{
//	    Start:    start,
//	    TimeZone: "Australia/Brisbane",
//	    Name:     "Sam Lee",
//	    Email:    "sam@example.com",
//	})
//
// A client built without CAL_COM_API_KEY still constructs; every booking then
// fails with ErrMisconfigured.
package calcom
