package payment

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/frahmantamala/square-payments/internal"
	squaretypes "github.com/frahmantamala/square-payments/internal/core/datamodel/square"
)

// CustomerResolver maps a payer email to a processor-side customer id with a
// find-or-create lookup. Customers live on the processor; nothing is cached
// or persisted locally.
//
// The search-then-create sequence is not atomic against the processor: two
// concurrent resolutions for the same new email can both observe no match and
// each create a record. The processor offers no conditional create, so the
// contract is "at least one customer exists after resolution", not exactly one.
type CustomerResolver struct {
	processor ProcessorAPI
	logger    *slog.Logger
}

func NewCustomerResolver(processor ProcessorAPI, logger *slog.Logger) *CustomerResolver {
	return &CustomerResolver{
		processor: processor,
		logger:    logger,
	}
}

// Resolve returns the id of the first customer matching the email, creating a
// customer record when the search comes back empty.
func (r *CustomerResolver) Resolve(ctx context.Context, email, givenName, familyName string) (string, error) {
	customers, err := r.processor.SearchCustomers(ctx, email)
	if err != nil {
		r.logger.Error("customer search failed", "error", err)
		return "", errors.NewExternalError("customer resolution failed", errors.ErrCodeCustomerResolutionFailed).
			WithCause(fmt.Errorf("customer search: %w", err))
	}

	if len(customers) > 0 {
		r.logger.Debug("customer resolved from search",
			"customer_id", customers[0].ID,
			"matches", len(customers))
		return customers[0].ID, nil
	}

	created, err := r.processor.CreateCustomer(ctx, squaretypes.CreateCustomerRequest{
		GivenName:    givenName,
		FamilyName:   familyName,
		EmailAddress: email,
	})
	if err != nil {
		r.logger.Error("customer create failed", "error", err)
		return "", errors.NewExternalError("customer resolution failed", errors.ErrCodeCustomerResolutionFailed).
			WithCause(fmt.Errorf("customer create: %w", err))
	}

	r.logger.Info("customer created for new email", "customer_id", created.ID)
	return created.ID, nil
}
