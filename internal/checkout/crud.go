package checkout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/httpapi"
)

// Address and card management during checkout. Every mutation goes to the
// backend and then refetches the full list; local state is never patched
// optimistically, so server-assigned ids and validation always win.

// AddAddress creates a delivery address and refreshes the list.
func (o *Orchestrator) AddAddress(ctx context.Context, req httpapi.AddressRequest) error {
	if err := o.api.CreateAddress(ctx, req); err != nil {
		return fmt.Errorf("failed to add address: %w", err)
	}
	o.logger.Info("Address added", zap.String("title", req.Title))
	return o.refreshAddresses(ctx)
}

// UpdateAddress edits a delivery address and refreshes the list.
func (o *Orchestrator) UpdateAddress(ctx context.Context, req httpapi.AddressRequest) error {
	if err := o.api.UpdateAddress(ctx, req); err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	return o.refreshAddresses(ctx)
}

// DeleteAddress removes a delivery address and refreshes the list.
func (o *Orchestrator) DeleteAddress(ctx context.Context, id int) error {
	if err := o.api.DeleteAddress(ctx, id); err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	o.logger.Info("Address deleted", zap.Int("id", id))
	return o.refreshAddresses(ctx)
}

// AddCard stores a payment card and refreshes the list.
func (o *Orchestrator) AddCard(ctx context.Context, req httpapi.CardRequest) error {
	if err := o.api.CreateCard(ctx, req); err != nil {
		return fmt.Errorf("failed to add card: %w", err)
	}
	o.logger.Info("Card added")
	return o.refreshCards(ctx)
}

// UpdateCard edits a stored card and refreshes the list.
func (o *Orchestrator) UpdateCard(ctx context.Context, req httpapi.CardRequest) error {
	if err := o.api.UpdateCard(ctx, req); err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return o.refreshCards(ctx)
}

// DeleteCard removes a stored card and refreshes the list.
func (o *Orchestrator) DeleteCard(ctx context.Context, id int) error {
	if err := o.api.DeleteCard(ctx, id); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	o.logger.Info("Card deleted", zap.Int("id", id))
	return o.refreshCards(ctx)
}

// refreshAddresses replaces the cached address list with the server's view
// and reconciles the selection: a vanished row drops the selection, an
// empty selection takes the first row (first-wins default).
func (o *Orchestrator) refreshAddresses(ctx context.Context) error {
	addresses, err := o.api.Addresses(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch addresses: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.addresses = addresses

	if o.selectedAddressID != 0 {
		found := false
		for _, a := range addresses {
			if a.ID == o.selectedAddressID {
				found = true
				break
			}
		}
		if !found {
			o.selectedAddressID = 0
		}
	}
	if o.selectedAddressID == 0 && len(addresses) > 0 {
		o.selectedAddressID = addresses[0].ID
	}
	return nil
}

// refreshCards mirrors refreshAddresses for stored cards.
func (o *Orchestrator) refreshCards(ctx context.Context) error {
	cards, err := o.api.Cards(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch cards: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.cards = cards

	if o.selectedCardID != 0 {
		found := false
		for _, c := range cards {
			if c.ID == o.selectedCardID {
				found = true
				break
			}
		}
		if !found {
			o.selectedCardID = 0
		}
	}
	if o.selectedCardID == 0 && len(cards) > 0 {
		o.selectedCardID = cards[0].ID
	}
	return nil
}
