package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Wyydra/callrelay/internal/core/domain"
)

type eventDTO struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	CreatedAt int64        `json:"created_at"`
	Data      eventDataDTO `json:"data"`
}

type eventDataDTO struct {
	CallID     string     `json:"call_id"`
	SIPHeaders sipHeaders `json:"sip_headers"`
}

// sipHeaders accepts [{"name":..,"value":..}], [{"From":".."}] and
// {"From":"..", ...}, keeping document order. Entries that are not string
// headers are dropped and a sip_headers of any other type reads as absent.
type sipHeaders []domain.HeaderPair

func (h *sipHeaders) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*h = nil
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		var out []domain.HeaderPair
		for _, item := range items {
			out = append(out, decodeHeaderItem(item)...)
		}
		*h = out
	case '{':
		*h = decodeHeaderMap(data)
	}
	return nil
}

func decodeHeaderItem(item json.RawMessage) []domain.HeaderPair {
	item = bytes.TrimSpace(item)
	if len(item) == 0 || item[0] != '{' {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return nil
	}
	rawName, named := fields["name"]
	if !named {
		return decodeHeaderMap(item)
	}

	name, ok := stringValue(rawName)
	if !ok {
		return nil
	}
	value, ok := stringValue(fields["value"])
	if !ok {
		return nil
	}
	return []domain.HeaderPair{{Name: name, Value: value}}
}

// decodeHeaderMap reads a flat name->value object token by token so the
// header order survives.
func decodeHeaderMap(data []byte) []domain.HeaderPair {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil
	}

	var out []domain.HeaderPair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return out
		}
		if value, ok := stringValue(raw); ok {
			out = append(out, domain.HeaderPair{Name: name, Value: value})
		}
	}
	return out
}

// stringValue treats a missing or null value as empty.
func stringValue(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeEvent(body []byte) (domain.IncomingEvent, error) {
	var dto eventDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return domain.IncomingEvent{}, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}
	if dto.Type == "" {
		return domain.IncomingEvent{}, fmt.Errorf("%w: missing type", domain.ErrMalformedEvent)
	}

	event := domain.IncomingEvent{
		ID:   dto.ID,
		Type: domain.EventType(dto.Type),
		Data: domain.CallData{
			CallID:     domain.CallID(dto.Data.CallID),
			SIPHeaders: dto.Data.SIPHeaders,
		},
	}
	if dto.CreatedAt > 0 {
		event.CreatedAt = time.Unix(dto.CreatedAt, 0)
	}

	if event.IsCallIncoming() && event.Data.CallID == "" {
		return domain.IncomingEvent{}, fmt.Errorf("%w: missing data.call_id", domain.ErrMalformedEvent)
	}
	return event, nil
}
