// Package event implements the typed publish/subscribe bus through which
// the session notifies the rest of the application.
//
// The event set is fixed: subscribing or publishing against a name
// outside the set fails with ErrUnknownEvent. Handlers fire synchronously
// on the publishing goroutine in registration order, and a panicking
// handler does not prevent subsequent handlers from running.
//
// A Bus is an instance owned by its Session, not process-wide state;
// consumers receive it by reference and its lifecycle is the Session's.
package event
