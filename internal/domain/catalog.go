package domain

import (
	"fmt"
	"strings"
)

// CatalogEntry is one application record from the remote trust catalog. The
// document carries more fields than these; only the ones the trust filter
// reads are decoded.
type CatalogEntry struct {
	TrustFactors  []string `json:"TrustFactors"`
	TeamsAppID    string   `json:"TeamsAppId,omitempty"`
	OfficeAssetID string   `json:"OfficeAssetId,omitempty"`
}

// AppID returns the identifier used to report an entry: TeamsAppId when
// present, otherwise OfficeAssetId. Entries with neither are skipped.
func (e CatalogEntry) AppID() (string, bool) {
	if e.TeamsAppID != "" {
		return e.TeamsAppID, true
	}
	if e.OfficeAssetID != "" {
		return e.OfficeAssetID, true
	}
	return "", false
}

// HasTrustFactor reports whether the entry's TrustFactors set contains f.
func (e CatalogEntry) HasTrustFactor(f TrustFactor) bool {
	for _, have := range e.TrustFactors {
		if have == string(f) {
			return true
		}
	}
	return false
}

// TrustFactor is a compliance/security attestation category used to filter
// the catalog. The set is closed: any key outside it is rejected before a
// catalog lookup happens.
type TrustFactor string

const (
	TrustFactorM365Certified     TrustFactor = "microsoft365-certified"
	TrustFactorPublisherAttested TrustFactor = "publisher-attested"
	TrustFactorSOC2              TrustFactor = "soc2"
	TrustFactorISO27001          TrustFactor = "iso27001"
	TrustFactorGDPR              TrustFactor = "gdpr"
	TrustFactorHIPAA             TrustFactor = "hipaa"
)

// TrustFactors returns all known trust factor keys in a stable order.
func TrustFactors() []TrustFactor {
	return []TrustFactor{
		TrustFactorM365Certified,
		TrustFactorPublisherAttested,
		TrustFactorSOC2,
		TrustFactorISO27001,
		TrustFactorGDPR,
		TrustFactorHIPAA,
	}
}

// ParseTrustFactor validates s against the closed set of trust factor keys.
func ParseTrustFactor(s string) (TrustFactor, error) {
	for _, f := range TrustFactors() {
		if s == string(f) {
			return f, nil
		}
	}
	known := make([]string, 0, len(TrustFactors()))
	for _, f := range TrustFactors() {
		known = append(known, string(f))
	}
	return "", E(CodeInvalidArgument, "",
		fmt.Sprintf("unknown trust factor %q (known: %s)", s, strings.Join(known, ", ")),
		ErrInvalidArguments)
}
