package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/garvbarthwal/Kisaan-sub001/models"

	"github.com/google/uuid"
)

// BusinessHoursFetcher loads a farmer's declared weekly business hours.
// A nil schedule with a nil error means the farmer has not declared any.
type BusinessHoursFetcher func(farmerID uuid.UUID) (*models.WeeklySchedule, error)

// CheckoutSession is the transient state of one user's checkout: the cart
// snapshot, the derived fulfillment availability, the business hours (once
// fetched) and the in-progress order draft. It lives from cart confirmation
// until submission or abandonment.
type CheckoutSession struct {
	UserID       uuid.UUID
	FarmerID     uuid.UUID
	Items        []models.CartLineItem
	Availability models.FulfillmentAvailability
	Draft        models.OrderDraft

	businessHours *models.WeeklySchedule
	hoursFetched  bool
	fetchInFlight bool
}

// CheckoutManager owns all active checkout sessions. Sessions have a single
// owner, but handlers run on arbitrary goroutines, so access goes through
// the manager's lock.
type CheckoutManager struct {
	mu         sync.Mutex
	sessions   map[uuid.UUID]*CheckoutSession
	fetchHours BusinessHoursFetcher
}

func NewCheckoutManager(fetchHours BusinessHoursFetcher) *CheckoutManager {
	return &CheckoutManager{
		sessions:   make(map[uuid.UUID]*CheckoutSession),
		fetchHours: fetchHours,
	}
}

// Begin starts (or restarts) a checkout session from a cart snapshot.
// Fulfillment availability is recomputed here on every call, so cart
// mutations just call Begin again. If only one method is offered the draft's
// order type is auto-selected; otherwise the previous explicit selection is
// kept when still offered.
func (cm *CheckoutManager) Begin(userID, farmerID uuid.UUID, items []models.CartLineItem) models.FulfillmentAvailability {
	availability := ResolveFulfillment(items)

	cm.mu.Lock()
	session, ok := cm.sessions[userID]
	if !ok || session.FarmerID != farmerID {
		session = &CheckoutSession{UserID: userID, FarmerID: farmerID}
		cm.sessions[userID] = session
	}
	session.Items = items
	session.Availability = availability

	switch {
	case availability.Pickup && !availability.Delivery:
		session.Draft.OrderType = models.OrderTypePickup
	case availability.Delivery && !availability.Pickup:
		session.Draft.OrderType = models.OrderTypeDelivery
	case session.Draft.OrderType == models.OrderTypePickup && !availability.Pickup,
		session.Draft.OrderType == models.OrderTypeDelivery && !availability.Delivery:
		session.Draft.OrderType = models.OrderTypeUnset
	}
	cm.mu.Unlock()

	if availability.NeedsBusinessHours {
		cm.ensureBusinessHours(userID)
	}
	return availability
}

// ensureBusinessHours starts the business-hours fetch unless one already
// ran or is in flight. A failed fetch leaves the schedule nil and is not
// retried automatically; RefreshBusinessHours re-arms it.
func (cm *CheckoutManager) ensureBusinessHours(userID uuid.UUID) {
	cm.mu.Lock()
	session, ok := cm.sessions[userID]
	if !ok || session.hoursFetched || session.fetchInFlight {
		cm.mu.Unlock()
		return
	}
	session.fetchInFlight = true
	farmerID := session.FarmerID
	cm.mu.Unlock()

	go func() {
		hours, err := cm.fetchHours(farmerID)
		if err != nil {
			log.Printf("Failed to fetch business hours for farmer %s: %v", farmerID, err)
			hours = nil
		}

		cm.mu.Lock()
		defer cm.mu.Unlock()
		// The session may have been discarded or replaced with another
		// farmer's cart while the fetch ran. A stale result must not be
		// written onto the new session.
		if cm.sessions[userID] != session {
			return
		}
		session.businessHours = hours
		session.hoursFetched = true
		session.fetchInFlight = false
	}()
}

// RefreshBusinessHours clears the fetch state so the next Begin or
// availability check retries the farmer-profile service.
func (cm *CheckoutManager) RefreshBusinessHours(userID uuid.UUID) {
	cm.mu.Lock()
	session, ok := cm.sessions[userID]
	if ok && !session.fetchInFlight {
		session.hoursFetched = false
		session.businessHours = nil
	}
	cm.mu.Unlock()
	if ok {
		cm.ensureBusinessHours(userID)
	}
}

// Session returns a copy of the user's checkout session.
func (cm *CheckoutManager) Session(userID uuid.UUID) (CheckoutSession, bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	session, ok := cm.sessions[userID]
	if !ok {
		return CheckoutSession{}, false
	}
	return *session, true
}

// SetOrderType transitions the order-type selector. Transitions are driven
// only by explicit user selection and must name a method the cart offers.
func (cm *CheckoutManager) SetOrderType(userID uuid.UUID, orderType string) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	session, ok := cm.sessions[userID]
	if !ok {
		return fmt.Errorf("no active checkout session")
	}
	switch orderType {
	case models.OrderTypePickup:
		if !session.Availability.Pickup {
			return fmt.Errorf("pickup is not available for this cart")
		}
	case models.OrderTypeDelivery:
		if !session.Availability.Delivery {
			return fmt.Errorf("delivery is not available for this cart")
		}
	default:
		return fmt.Errorf("invalid order type %q", orderType)
	}
	session.Draft.OrderType = orderType
	return nil
}

// UpdateDraft applies a mutation to the draft's detail fields. The order
// type is managed by SetOrderType and left untouched.
func (cm *CheckoutManager) UpdateDraft(userID uuid.UUID, apply func(draft *models.OrderDraft)) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	session, ok := cm.sessions[userID]
	if !ok {
		return fmt.Errorf("no active checkout session")
	}
	orderType := session.Draft.OrderType
	apply(&session.Draft)
	session.Draft.OrderType = orderType
	return nil
}

// EffectiveSchedule resolves the schedule pickup validation runs against:
// the cart's uniform custom hours when present, otherwise the fetched
// business hours, otherwise nil (still pending or never declared).
func (cm *CheckoutManager) EffectiveSchedule(userID uuid.UUID) *models.WeeklySchedule {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	session, ok := cm.sessions[userID]
	if !ok {
		return nil
	}
	if session.Availability.PickupHours != nil {
		return session.Availability.PickupHours
	}
	return session.businessHours
}

// PickupAvailability resolves a candidate pickup date for the session.
func (cm *CheckoutManager) PickupAvailability(userID uuid.UUID, date *time.Time) PickupDateStatus {
	return ResolvePickupDate(date, cm.EffectiveSchedule(userID))
}

// Validate runs the submission gate against the current draft.
func (cm *CheckoutManager) Validate(userID uuid.UUID) (ValidationResult, error) {
	cm.mu.Lock()
	session, ok := cm.sessions[userID]
	if !ok {
		cm.mu.Unlock()
		return ValidationResult{}, fmt.Errorf("no active checkout session")
	}
	draft := session.Draft
	cm.mu.Unlock()

	return ValidateOrderDraft(draft, cm.EffectiveSchedule(userID)), nil
}

// Discard drops the session: called after successful submission and on
// abandonment. No cleanup beyond forgetting the in-memory state is needed.
func (cm *CheckoutManager) Discard(userID uuid.UUID) {
	cm.mu.Lock()
	delete(cm.sessions, userID)
	cm.mu.Unlock()
}
