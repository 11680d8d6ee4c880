package model

// TimestampField names one of the externally supplied milestone columns.
type TimestampField string

const (
	PickupArrival   TimestampField = "pickup_arrival"
	PickupEntry     TimestampField = "pickup_entry"
	PickupExit      TimestampField = "pickup_exit"
	DeliveryArrival TimestampField = "delivery_arrival"
	DeliveryEntry   TimestampField = "delivery_entry"
	DeliveryExit    TimestampField = "delivery_exit"
)

// TimestampFields lists every milestone column in display order.
var TimestampFields = []TimestampField{
	PickupArrival,
	PickupEntry,
	PickupExit,
	DeliveryArrival,
	DeliveryEntry,
	DeliveryExit,
}

// NoDataLabel marks a cell the source explicitly left without a value.
const NoDataLabel = "VERİ YOK"

// TimestampRecord holds the milestone values known for one dispatch.
// Absent keys have never been filled.
type TimestampRecord map[TimestampField]string

// ExternalTimestamps pairs a normalized dispatch identifier with its record.
type ExternalTimestamps struct {
	DispatchID string          `json:"dispatch_id"`
	Fields     TimestampRecord `json:"fields"`
}
