// Package domain holds the records exchanged with the classifieds syndication
// API: portals, ads, per-portal publications and the contacts they generate.
package domain

import (
	"fmt"
	"regexp"
)

// Transaction is the kind of deal an ad advertises, as a single-letter API code.
type Transaction string

const (
	TransactionDemise                Transaction = "B"
	TransactionBusiness              Transaction = "F"
	TransactionSaleOfConstructionDev Transaction = "G" // developer programmes
	TransactionSaleOfConstructionCMI Transaction = "H" // detached-house builders
	TransactionAuction               Transaction = "I"
	TransactionRealEstateServices    Transaction = "J"
	TransactionRent                  Transaction = "L"
	TransactionSaleOrRent            Transaction = "M"
	TransactionRentSailing           Transaction = "P"
	TransactionSeasonalRent          Transaction = "S"
	TransactionSale                  Transaction = "V"
	TransactionLifeAnnuity           Transaction = "W"
	TransactionRentApplication       Transaction = "Z"
)

var transactions = map[Transaction]struct{}{
	TransactionDemise:                {},
	TransactionBusiness:              {},
	TransactionSaleOfConstructionDev: {},
	TransactionSaleOfConstructionCMI: {},
	TransactionAuction:               {},
	TransactionRealEstateServices:    {},
	TransactionRent:                  {},
	TransactionSaleOrRent:            {},
	TransactionRentSailing:           {},
	TransactionSeasonalRent:          {},
	TransactionSale:                  {},
	TransactionLifeAnnuity:           {},
	TransactionRentApplication:       {},
}

// Code returns the wire code.
func (t Transaction) Code() string { return string(t) }

// Valid reports whether t is one of the known transaction codes.
func (t Transaction) Valid() bool {
	_, ok := transactions[t]
	return ok
}

// ParseTransaction converts a wire code into a Transaction.
func ParseTransaction(code string) (Transaction, error) {
	t := Transaction(code)
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction code %q", code)
	}
	return t, nil
}

// Universe is the top-level vertical a portal belongs to.
type Universe string

const (
	UniverseEdito    Universe = "EDITO"
	UniverseImmo     Universe = "IMMO"
	UniverseNautical Universe = "NAUT"
	UniverseVehicles Universe = "VO"
)

// Code returns the wire code.
func (u Universe) Code() string { return string(u) }

// Valid reports whether u is one of the known universes.
func (u Universe) Valid() bool {
	switch u {
	case UniverseEdito, UniverseImmo, UniverseNautical, UniverseVehicles:
		return true
	}
	return false
}

// ParseUniverse converts a wire code into a Universe.
func ParseUniverse(code string) (Universe, error) {
	u := Universe(code)
	if !u.Valid() {
		return "", fmt.Errorf("unknown universe code %q", code)
	}
	return u, nil
}

// DataKey identifies an extension attribute attached to an ad.
// The vocabulary belongs to the remote API and is not mirrored here: the
// constants below are a provisional set of common real-estate codes, and any
// well-formed code is passed through to the API unchanged.
type DataKey string

const (
	DataLivingArea     DataKey = "surface_habitable"
	DataLandArea       DataKey = "surface_terrain"
	DataRooms          DataKey = "nb_pieces"
	DataBedrooms       DataKey = "nb_chambres"
	DataBathrooms      DataKey = "nb_salles_de_bain"
	DataFloor          DataKey = "etage"
	DataConstructionYr DataKey = "annee_construction"
	DataEnergyClass    DataKey = "classe_energie"
	DataGasEmission    DataKey = "classe_ges"
	DataCity           DataKey = "ville"
	DataPostalCode     DataKey = "code_postal"
	DataAgencyFees     DataKey = "honoraires"
)

// Code returns the wire code.
func (k DataKey) Code() string { return string(k) }

var dataKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// Valid reports whether k is shaped like an attribute code.
func (k DataKey) Valid() bool {
	return dataKeyPattern.MatchString(string(k))
}

// ParseDataKey converts a wire code into a DataKey.
func ParseDataKey(code string) (DataKey, error) {
	k := DataKey(code)
	if !k.Valid() {
		return "", fmt.Errorf("malformed data code %q", code)
	}
	return k, nil
}
