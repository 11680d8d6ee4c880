// Package model defines the domain types shared by the reconciliation and
// forecasting engine.
package model

// RawRecord is one logistics line item as it arrives from the record source.
// Loosely typed fields keep the source's encodings; the engine coerces them
// on read and never mutates a record after ingestion.
type RawRecord struct {
	ProjectName        string `json:"projectName"`
	ServiceName        string `json:"serviceName"`
	PickupCity         string `json:"pickupCity"`
	PickupCounty       string `json:"pickupCounty"`
	DeliveryCity       string `json:"deliveryCity"`
	DeliveryCounty     string `json:"deliveryCounty"`
	RequestID          string `json:"requestId"`
	DispatchID         string `json:"dispatchId"`
	StatusCode         any    `json:"statusCode"`         // number or numeric string
	VehicleWorkingMode string `json:"vehicleWorkingMode"` // fleet family or spot
	IsPrinted          any    `json:"isPrinted"`          // bool, 1/0 or "true"/"false"
	DispatchOpenedAt   any    `json:"dispatchOpenedAt"`   // time.Time, string or nil
	PickupAt           any    `json:"pickupAt"`
	OrderCreatedAt     any    `json:"orderCreatedAt"`
	CreatedBy          string `json:"createdBy"`
}
