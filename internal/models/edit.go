package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrDefaultLanguage is returned when an edit tries to drop the mandatory
	// default localization.
	ErrDefaultLanguage = errors.New("the " + DefaultLanguage + " localization cannot be removed")

	// ErrUnknownLanguage is returned when a localized edit names a language
	// the event does not carry.
	ErrUnknownLanguage = errors.New("unknown language code")
)

// EditCommand is one staged change to a working copy under review. Commands
// mutate the copy they are applied to and nothing else.
type EditCommand interface {
	Apply(e *Event) error
}

type SetEventName struct{ Value string }

func (c SetEventName) Apply(e *Event) error { e.EventName = c.Value; return nil }

type SetOrganizationName struct{ Value string }

func (c SetOrganizationName) Apply(e *Event) error { e.OrganizationName = c.Value; return nil }

type SetAddress struct{ Value string }

func (c SetAddress) Apply(e *Event) error { e.Address = c.Value; return nil }

type SetEventLink struct{ Value string }

func (c SetEventLink) Apply(e *Event) error { e.EventLink = c.Value; return nil }

type SetMapsLink struct{ Value string }

func (c SetMapsLink) Apply(e *Event) error { e.MapsLink = c.Value; return nil }

type SetOnline struct{ Value bool }

func (c SetOnline) Apply(e *Event) error { e.Online = c.Value; return nil }

type SetStatus struct{ Value EventStatus }

func (c SetStatus) Apply(e *Event) error {
	switch c.Value {
	case EventStatusRequested, EventStatusApproved, EventStatusDeclined:
		e.Status = c.Value
		return nil
	}
	return fmt.Errorf("invalid status %q", c.Value)
}

type SetTags struct{ Value []string }

func (c SetTags) Apply(e *Event) error {
	e.Tags = append([]string(nil), c.Value...)
	return nil
}

// SetStartDatetime stages a new start timestamp. Inputs arrive with minute
// granularity and are stored second-zeroed, matching edit-form behavior.
type SetStartDatetime struct{ Value string }

func (c SetStartDatetime) Apply(e *Event) error {
	e.StartDatetime = zeroSeconds(c.Value)
	return nil
}

type SetEndDatetime struct{ Value string }

func (c SetEndDatetime) Apply(e *Event) error {
	e.EndDatetime = zeroSeconds(c.Value)
	return nil
}

// zeroSeconds pads a minute-granular ISO-8601 string ("2006-01-02T15:04")
// back to second precision. Values already carrying seconds pass through.
func zeroSeconds(v string) string {
	if len(v) == 16 {
		return v + ":00"
	}
	return v
}

// SetLocalizedField stages one field of one language's localized content.
type SetLocalizedField struct {
	Lang  string
	Field string
	Value string
}

func (c SetLocalizedField) Apply(e *Event) error {
	content, ok := e.Intl[c.Lang]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, c.Lang)
	}
	switch c.Field {
	case "banner_link":
		content.BannerLink = c.Value
	case "cost":
		content.Cost = c.Value
	case "event_edition":
		content.EventEdition = c.Value
	case "short_description":
		content.ShortDescription = c.Value
	default:
		return fmt.Errorf("unknown localized field %q", c.Field)
	}
	e.Intl[c.Lang] = content
	return nil
}

// AddLanguage stages an empty localization for a new language code. Adding a
// code that already exists leaves its content untouched.
type AddLanguage struct{ Code string }

func (c AddLanguage) Apply(e *Event) error {
	if c.Code == "" {
		return errors.New("language code is required")
	}
	if e.Intl == nil {
		e.Intl = make(map[string]LocalizedContent)
	}
	if _, ok := e.Intl[c.Code]; !ok {
		e.Intl[c.Code] = LocalizedContent{}
	}
	return nil
}

// RemoveLanguage drops a localization. The default language is protected.
type RemoveLanguage struct{ Code string }

func (c RemoveLanguage) Apply(e *Event) error {
	if c.Code == DefaultLanguage {
		return ErrDefaultLanguage
	}
	if _, ok := e.Intl[c.Code]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, c.Code)
	}
	delete(e.Intl, c.Code)
	return nil
}

type editEnvelope struct {
	Op    string          `json:"op"`
	Value json.RawMessage `json:"value"`
	Lang  string          `json:"lang"`
	Field string          `json:"field"`
	Code  string          `json:"code"`
}

// DecodeEditCommand turns a JSON edit request into the corresponding command.
func DecodeEditCommand(data []byte) (EditCommand, error) {
	var env editEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	stringValue := func() (string, error) {
		var v string
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return "", fmt.Errorf("op %q needs a string value", env.Op)
		}
		return v, nil
	}

	switch env.Op {
	case "set_event_name":
		v, err := stringValue()
		if err != nil {
			return nil, err
		}
		return SetEventName{v}, nil
	case "set_organization_name":
		v, err := stringValue()
		if err != nil {
			return nil, err
		}
		return SetOrganizationName{v}, nil
	case "set_start_datetime":
		v, err := stringValue()
		if err != nil {
			return nil, err
		}
		return SetStartDatetime{v}, nil
	case "set_end_datetime":
		v, err := stringValue()
		if err != nil {
			return nil, err
		}
		return SetEndDatetime{v}, nil
	case "set_address":
		v, err := stringValue()
		if err != nil {
			return nil, err
		}
		return SetAddress{v}, nil
	case "set_event_link":
		v, err := stringValue()
		if err != nil {
			return nil, err
		}
		return SetEventLink{v}, nil
	case "set_maps_link":
		v, err := stringValue()
		if err != nil {
			return nil, err
		}
		return SetMapsLink{v}, nil
	case "set_online":
		var v bool
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return nil, fmt.Errorf("op %q needs a boolean value", env.Op)
		}
		return SetOnline{v}, nil
	case "set_status":
		v, err := stringValue()
		if err != nil {
			return nil, err
		}
		return SetStatus{EventStatus(v)}, nil
	case "set_tags":
		var v []string
		if err := json.Unmarshal(env.Value, &v); err != nil {
			return nil, fmt.Errorf("op %q needs a string array value", env.Op)
		}
		return SetTags{v}, nil
	case "set_localized_field":
		v, err := stringValue()
		if err != nil {
			return nil, err
		}
		if env.Lang == "" || env.Field == "" {
			return nil, errors.New(`op "set_localized_field" needs lang and field`)
		}
		return SetLocalizedField{Lang: env.Lang, Field: env.Field, Value: v}, nil
	case "add_language":
		return AddLanguage{env.Code}, nil
	case "remove_language":
		return RemoveLanguage{env.Code}, nil
	}
	return nil, fmt.Errorf("unknown edit op %q", env.Op)
}
