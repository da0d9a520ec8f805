package models

import "fmt"

type Site string

const (
	SiteIndeed       Site = "indeed"
	SiteLinkedin     Site = "linkedin"
	SiteGlassdoor    Site = "glassdoor"
	SiteZipRecruiter Site = "zip_recruiter"
	SiteGoogle       Site = "google"
)

var SupportedSites = []Site{SiteIndeed, SiteLinkedin, SiteGlassdoor, SiteZipRecruiter, SiteGoogle}

func ToSite(s string) (Site, error) {
	switch Site(s) {
	case SiteIndeed, SiteLinkedin, SiteGlassdoor, SiteZipRecruiter, SiteGoogle:
		return Site(s), nil
	default:
		return "", fmt.Errorf("unsupported site: %v", s)
	}
}
