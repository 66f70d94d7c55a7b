package capabilities

import "context"

// The capability interfaces are the module-facing contracts: a site adapter
// advertises the data kinds it can produce by implementing one or more of
// them. Listings are finite and restartable; a call either returns the data
// (possibly empty) or one typed error, never partial data without an error.

// AccountSource lists bank accounts and their history.
type AccountSource interface {
	IterAccounts(ctx context.Context) ([]Account, error)
	IterHistory(ctx context.Context, accountID string) ([]Transaction, error)
}

// DocumentSource lists downloadable documents.
type DocumentSource interface {
	IterDocuments(ctx context.Context) ([]Document, error)
}

// VideoSource searches and lists videos.
type VideoSource interface {
	SearchVideos(ctx context.Context, pattern string) ([]Video, error)
}

// ParcelSource tracks parcels.
type ParcelSource interface {
	GetParcel(ctx context.Context, id string) (Parcel, error)
}

// JobSource searches job postings.
type JobSource interface {
	SearchJobs(ctx context.Context, pattern string) ([]JobAdvert, error)
}
