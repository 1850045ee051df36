// Package domain contains the core business entities of the scheduler:
// decks, cards with their scheduling state, answer events and the answer log.
// It is independent of any storage or delivery mechanism.
//
// Scheduling rules live in the srs subpackage; session composition and
// forecasting in session; batched answer processing in answers.
package domain
