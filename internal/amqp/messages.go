package amqp

import (
	"encoding/json"
	"time"
)

// AlertEvent is a budget-alert notification published when a category
// crosses a threshold or goes over its limit. The worker stores these
// locally so the notifications page can show them without a backend call.
type AlertEvent struct {
	UserID    string    `json:"userId"`
	Category  string    `json:"category"`
	Level     string    `json:"level"` // ALERT or OVER
	Percent   float64   `json:"percent"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAlertEvent builds an event stamped with the current time.
func NewAlertEvent(userID, category, level string, percent float64, message string) *AlertEvent {
	return &AlertEvent{
		UserID:    userID,
		Category:  category,
		Level:     level,
		Percent:   percent,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func (e *AlertEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func AlertEventFromJSON(data []byte) (*AlertEvent, error) {
	var e AlertEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
