package proposal

type Status string

const (
	StatusOpen     Status = "open"
	StatusOrdering Status = "ordering"
	StatusPlaced   Status = "placed"
	StatusReceived Status = "received"
	StatusClosed   Status = "closed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusOrdering, StatusPlaced, StatusReceived, StatusClosed:
		return true
	default:
		return false
	}
}

// Joinable reports whether participants can still attach orders; Placed and
// Received runs are in flight, Closed is terminal.
func (s Status) Joinable() bool {
	return s == StatusOpen || s == StatusOrdering
}

// Role is who executes the real-world purchase. Runner physically fetches
// (pickup / on-site), Orderer places a delivery order.
type Role string

const (
	RoleRunner  Role = "runner"
	RoleOrderer Role = "orderer"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleRunner || r == RoleOrderer
}

type Fulfillment string

const (
	FulfillmentPickup   Fulfillment = "pickup"
	FulfillmentDelivery Fulfillment = "delivery"
	FulfillmentOnSite   Fulfillment = "on_site"
)

func (f Fulfillment) String() string {
	return string(f)
}

func (f Fulfillment) IsValid() bool {
	switch f {
	case FulfillmentPickup, FulfillmentDelivery, FulfillmentOnSite:
		return true
	default:
		return false
	}
}

// ResponsibleRole is the role that matters for this fulfillment type.
func (f Fulfillment) ResponsibleRole() Role {
	if f == FulfillmentDelivery {
		return RoleOrderer
	}
	return RoleRunner
}
