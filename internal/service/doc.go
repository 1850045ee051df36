// Package service contains the application use cases around decks and cards.
// It coordinates the stores defined in internal/store and the domain
// entities, applying ownership checks and transactional boundaries.
//
// Study sessions and answer batches live in the study subpackage; token
// handling lives in auth.
package service
