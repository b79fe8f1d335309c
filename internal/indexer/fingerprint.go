package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// PageKind identifies a generated listing-page type. It is part of the
// fingerprint so a URL that changes meaning is treated as changed content.
type PageKind string

const (
	PageHome           PageKind = "home"
	PageState          PageKind = "state"
	PageCity           PageKind = "city"
	PageSpecialty      PageKind = "specialty"
	PageStateSpecialty PageKind = "state_specialty"
	PageJobType        PageKind = "job_type"
	PageShift          PageKind = "shift"
	PageExperience     PageKind = "experience"
	PageEmployer       PageKind = "employer"
	PageSignOnBonus    PageKind = "sign_on_bonus"
)

// Page is one generated listing page with the metadata that decides whether
// its content changed since the last run.
type Page struct {
	URL      string
	Kind     PageKind
	JobCount int
	Newest   time.Time
}

// Fingerprint hashes the page's identifying metadata. Two runs that see the
// same count and newest posting for a URL will skip resubmission.
func (p Page) Fingerprint() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", p.Kind, p.JobCount, p.Newest.Unix())))
	return hex.EncodeToString(sum[:])
}
