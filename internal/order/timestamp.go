package order

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// форматы времени, которые принимаются от API заказов
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTime разбирает время в RFC3339 или без смещения. Время без смещения считается UTC.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format %q", value)
}

func parseTimeField(name, value string, dst *time.Time) error {
	if value == "" {
		return nil
	}
	t, err := ParseTime(value)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = t
	return nil
}

func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	aux := struct {
		*plain
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
	}{plain: (*plain)(o)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if err := parseTimeField("created_at", aux.CreatedAt, &o.CreatedAt); err != nil {
		return err
	}
	return parseTimeField("updated_at", aux.UpdatedAt, &o.UpdatedAt)
}

func (c *Created) UnmarshalJSON(data []byte) error {
	type plain Created
	aux := struct {
		*plain
		CreatedAt string `json:"created_at"`
	}{plain: (*plain)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	return parseTimeField("created_at", aux.CreatedAt, &c.CreatedAt)
}
