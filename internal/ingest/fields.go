package ingest

import (
	"strings"

	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/normalize"
)

// field identifies a RawRecord attribute by its JSON key.
type field string

const (
	fProjectName        field = "projectName"
	fServiceName        field = "serviceName"
	fPickupCity         field = "pickupCity"
	fPickupCounty       field = "pickupCounty"
	fDeliveryCity       field = "deliveryCity"
	fDeliveryCounty     field = "deliveryCounty"
	fRequestID          field = "requestId"
	fDispatchID         field = "dispatchId"
	fStatusCode         field = "statusCode"
	fVehicleWorkingMode field = "vehicleWorkingMode"
	fIsPrinted          field = "isPrinted"
	fDispatchOpenedAt   field = "dispatchOpenedAt"
	fPickupAt           field = "pickupAt"
	fOrderCreatedAt     field = "orderCreatedAt"
	fCreatedBy          field = "createdBy"
)

// fieldOrder is the precedence used when resolving table headers.
var fieldOrder = []field{
	fProjectName, fServiceName,
	fPickupCity, fPickupCounty, fDeliveryCity, fDeliveryCounty,
	fRequestID, fDispatchID, fStatusCode, fVehicleWorkingMode, fIsPrinted,
	fDispatchOpenedAt, fPickupAt, fOrderCreatedAt, fCreatedBy,
}

// looseFields keep their decoded type rather than being stringified.
var looseFields = map[field]bool{
	fStatusCode:       true,
	fIsPrinted:        true,
	fDispatchOpenedAt: true,
	fPickupAt:         true,
	fOrderCreatedAt:   true,
}

// headerAliases lists accepted table headers per field, besides the JSON key.
var headerAliases = map[field][]string{
	fProjectName:        {"PROJE", "PROJE ADI"},
	fServiceName:        {"HİZMET", "HİZMET ADI", "HİZMET TÜRÜ"},
	fPickupCity:         {"YÜKLEME İLİ", "YÜKLEME ŞEHRİ"},
	fPickupCounty:       {"YÜKLEME İLÇESİ"},
	fDeliveryCity:       {"TESLİMAT İLİ", "TESLİMAT ŞEHRİ"},
	fDeliveryCounty:     {"TESLİMAT İLÇESİ"},
	fRequestID:          {"TALEP NO", "TALEP NUMARASI"},
	fDispatchID:         {"SEFER NO", "SEFER NUMARASI"},
	fStatusCode:         {"DURUM", "DURUM KODU"},
	fVehicleWorkingMode: {"ARAÇ ÇALIŞMA ŞEKLİ", "ÇALIŞMA ŞEKLİ"},
	fIsPrinted:          {"İRSALİYE BASILDI", "İRSALİYE"},
	fDispatchOpenedAt:   {"SEFER AÇILIŞ", "SEFER AÇILIŞ TARİHİ"},
	fPickupAt:           {"YÜKLEME TARİHİ"},
	fOrderCreatedAt:     {"SİPARİŞ TARİHİ", "TALEP TARİHİ"},
	fCreatedBy:          {"OLUŞTURAN"},
}

// aliasIndex maps a folded header to its field.
var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]field {
	idx := make(map[string]field)
	for _, f := range fieldOrder {
		idx[foldHeader(string(f))] = f
		for _, a := range headerAliases[f] {
			idx[foldHeader(a)] = f
		}
	}
	return idx
}

// foldHeader normalizes a header for comparison. Dotted capital I folds to
// I so that camelCase keys and Turkish labels compare alike.
func foldHeader(s string) string {
	return strings.ReplaceAll(normalize.Text(s), "İ", "I")
}

// set assigns a value to the record attribute named by f.
func set(rec *model.RawRecord, f field, str string, loose any) {
	switch f {
	case fProjectName:
		rec.ProjectName = str
	case fServiceName:
		rec.ServiceName = str
	case fPickupCity:
		rec.PickupCity = str
	case fPickupCounty:
		rec.PickupCounty = str
	case fDeliveryCity:
		rec.DeliveryCity = str
	case fDeliveryCounty:
		rec.DeliveryCounty = str
	case fRequestID:
		rec.RequestID = str
	case fDispatchID:
		rec.DispatchID = str
	case fStatusCode:
		rec.StatusCode = loose
	case fVehicleWorkingMode:
		rec.VehicleWorkingMode = str
	case fIsPrinted:
		rec.IsPrinted = loose
	case fDispatchOpenedAt:
		rec.DispatchOpenedAt = loose
	case fPickupAt:
		rec.PickupAt = loose
	case fOrderCreatedAt:
		rec.OrderCreatedAt = loose
	case fCreatedBy:
		rec.CreatedBy = str
	}
}
