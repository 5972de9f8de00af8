package models

// EventStatus is the moderation state of a submitted event.
type EventStatus string

const (
	EventStatusRequested EventStatus = "requested"
	EventStatusApproved  EventStatus = "approved"
	EventStatusDeclined  EventStatus = "declined"
)

// DefaultLanguage is the localization every event must carry. The review
// workflow refuses to remove it.
const DefaultLanguage = "pt-br"

// LocalizedContent holds the per-language supplementary display fields.
type LocalizedContent struct {
	BannerLink       string `json:"banner_link"`
	Cost             string `json:"cost"`
	EventEdition     string `json:"event_edition"`
	ShortDescription string `json:"short_description"`
}

// Event mirrors the catalog service's event resource. IDs are assigned by the
// catalog and never change; timestamps are ISO-8601 strings as served.
type Event struct {
	ID               int                         `json:"id"`
	EventName        string                      `json:"event_name"`
	OrganizationName string                      `json:"organization_name"`
	StartDatetime    string                      `json:"start_datetime"`
	EndDatetime      string                      `json:"end_datetime"`
	Address          string                      `json:"address"`
	EventLink        string                      `json:"event_link"`
	MapsLink         string                      `json:"maps_link"`
	Online           bool                        `json:"online"`
	Status           EventStatus                 `json:"status"`
	Tags             []string                    `json:"tags"`
	Intl             map[string]LocalizedContent `json:"intl"`
}
