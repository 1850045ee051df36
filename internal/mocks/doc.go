// Package mocks provides shared test doubles for the store interfaces and
// the services consumed by the HTTP layer.
//
// Store mocks are built on testify/mock and return themselves from WithTx,
// so expectations set on a mock also cover calls made inside a transaction.
// Service mocks use function fields with zero-value defaults:
//
//	decks := &mocks.MockDeckService{
//	    ListDecksFn: func(ctx context.Context, ownerID uuid.UUID) ([]*domain.DeckSummary, error) {
//	        return nil, nil
//	    },
//	}
package mocks
