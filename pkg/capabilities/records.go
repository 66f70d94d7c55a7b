package capabilities

import (
	"time"
)

// Document is a downloadable statement, bill or notice exposed by a site.
type Document struct {
	ID     string
	Date   Value[time.Time]
	Label  Value[string]
	Type   Value[string]
	URL    Value[string]
	Format Value[string]
}

func (d Document) RecordID() string { return d.ID }

// Video is one media item listed by a video site.
type Video struct {
	ID       string
	Title    Value[string]
	Author   Value[string]
	Duration Value[time.Duration]
	Date     Value[time.Time]
	URL      Value[string]
}

func (v Video) RecordID() string { return v.ID }

// ParcelStatus is the coarse delivery state of a tracked parcel.
type ParcelStatus int

const (
	ParcelStatusUnknown ParcelStatus = iota
	ParcelPlanned
	ParcelInTransit
	ParcelArrived
)

func (s ParcelStatus) String() string {
	switch s {
	case ParcelPlanned:
		return "planned"
	case ParcelInTransit:
		return "in transit"
	case ParcelArrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// TrackingEvent is one step in a parcel's journey.
type TrackingEvent struct {
	Date     Value[time.Time]
	Activity Value[string]
	Location Value[string]
}

// Parcel is a tracked shipment.
type Parcel struct {
	ID      string
	Label   Value[string]
	Status  Value[ParcelStatus]
	Arrival Value[time.Time]
	Events  []TrackingEvent
}

func (p Parcel) RecordID() string { return p.ID }

// JobAdvert is one job posting scraped from a listing site.
type JobAdvert struct {
	ID          string
	Title       Value[string]
	Society     Value[string]
	Contract    Value[string]
	Place       Value[string]
	Publication Value[time.Time]
	URL         Value[string]
}

func (j JobAdvert) RecordID() string { return j.ID }
